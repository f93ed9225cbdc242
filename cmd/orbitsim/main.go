package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/orbitsim/internal/catalog"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/rundata"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	catalogue   string
	days        int
	tstep       float64
	mode        string
	threshold   float64
	probes      int
	probeRadius float64
	probeSpeed  float64
	reference   int
	output      string
	serveAddr   string
	speeds      []float64
	parallel    int
	svgSize     int
)

// main registers the orbitsim commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "orbitsim",
		Short:        "solar system and probe orbit simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&output, "out", config.DefaultOutput, "run file to write (empty to skip)")
	runCmd.Flags().StringVar(&serveAddr, "serve", "", "stream day reports over websocket on this address (e.g. :8080)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per probe launch speed and compare",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&speeds, "speeds", []float64{5e3, 1e4, 2e4}, "probe launch speeds in m/s")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "variants run at once (0 for one per CPU)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and fidelity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id] [path]",
		Short: "draw the orbits of a run as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  writeSVG,
	}
	svgCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	catalogueCmd := &cobra.Command{
		Use:   "catalogue [path]",
		Short: "write the built-in solar system as a catalogue file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeCatalogue,
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, exportCmd, svgCmd, presetsCmd, catalogueCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&catalogue, "catalogue", d.Catalogue, "catalogue run file, or \"solar\" for the built-in one")
	cmd.Flags().IntVar(&days, "days", d.Days, "number of days")
	cmd.Flags().Float64Var(&tstep, "tstep", d.Tstep, "integration step in seconds")
	cmd.Flags().StringVar(&mode, "mode", d.Mode, "fidelity mode: adaptive, sun, planets or full")
	cmd.Flags().Float64Var(&threshold, "threshold", d.Threshold, "adaptive fidelity threshold")
	cmd.Flags().IntVar(&probes, "probes", d.Probes.Count, "number of probes to launch")
	cmd.Flags().Float64Var(&probeRadius, "probe-radius", d.Probes.Radius, "probe launch distance from the reference planet in m")
	cmd.Flags().Float64Var(&probeSpeed, "probe-speed", d.Probes.Speed, "probe launch speed in m/s")
	cmd.Flags().IntVar(&reference, "reference", d.Probes.Reference, "catalogue index of the planet probes launch from")
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDAYS\tPLANETS\tPROBES\tMODE\tDRIFT\tCOLLISIONS\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%.2e\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Days,
			run.Planets,
			run.Probes,
			run.Mode,
			run.Metrics["energy_drift"],
			len(run.Collisions),
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("run %s has too few days to plot", runID)
	}

	ws := make([]dynamo.Energy, len(rows))
	levels := make([]float64, len(rows))
	for i, r := range rows {
		ws[i] = r.W
		levels[i] = float64(r.Level)
	}
	total := make([]float64, len(ws))
	for i, w := range ws {
		total[i] = w.Total
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("days: %d  bodies: %d  probes: %d\n\n", meta.Days, meta.Bodies, meta.Probes)

	fmt.Println(viz.EnergyPlot(total, 80, 10, "total energy [au^2 em d^-2]"))
	fmt.Println()
	fmt.Println(viz.EnergyPlot(viz.RelativeDrift(ws), 80, 10, "relative energy drift"))
	fmt.Println()
	fmt.Println(viz.EnergyPlot(levels, 80, 5, "fidelity level k"))
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	rec, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}
	svg := viz.OrbitsSVG(rec, svgSize)
	if svg == "" {
		return fmt.Errorf("run %s has no recorded days", args[0])
	}
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDAYS\tTSTEP\tPROBES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%gs\t%d\n", name, p.Days, p.Tstep, p.Probes.Count)
	}
	return w.Flush()
}

func writeCatalogue(cmd *cobra.Command, args []string) error {
	d := config.DefaultConfig()
	rec := &dynamo.Record{
		Config: catalog.Config(d.Days, d.Tstep),
		Bodies: catalog.SolarSystem(dynamo.SolarUnits()),
	}
	if err := rundata.WriteFile(args[0], rec); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", args[0], strings.Join(catalog.Names(), ", "))
	return nil
}
