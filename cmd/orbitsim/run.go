package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitsim/internal/catalog"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/rundata"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/stream"
	"github.com/san-kum/orbitsim/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers preset, config file and explicitly set flags, in
// that order, over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("catalogue") {
		cfg.Catalogue = catalogue
	}
	if flags.Changed("days") {
		cfg.Days = days
	}
	if flags.Changed("tstep") {
		cfg.Tstep = tstep
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("probes") {
		cfg.Probes.Count = probes
	}
	if flags.Changed("probe-radius") {
		cfg.Probes.Radius = probeRadius
	}
	if flags.Changed("probe-speed") {
		cfg.Probes.Speed = probeSpeed
	}
	if flags.Changed("reference") {
		cfg.Probes.Reference = reference
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.Output = output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalogue returns the run configuration and bodies a run starts from.
func loadCatalogue(cfg *config.Config) (dynamo.RunConfig, []dynamo.Body, error) {
	if cfg.UsesBuiltinCatalogue() {
		return catalog.Config(cfg.Days, cfg.Tstep), catalog.SolarSystem(dynamo.SolarUnits()), nil
	}

	rec, err := rundata.ReadFile(cfg.Catalogue)
	if err != nil {
		return dynamo.RunConfig{}, nil, err
	}
	rc := rec.Config
	rc.Ndays = cfg.Days
	rc.Tstep = cfg.Tstep
	return rc, rec.Bodies, nil
}

// prepare builds a simulation with the default metrics attached, ready to
// run its first day.
func prepare(cfg *config.Config) (*sim.Simulation, []metrics.Metric, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	rc, bodies, err := loadCatalogue(cfg)
	if err != nil {
		return nil, nil, err
	}

	s := sim.New(opts)
	ms := metrics.Defaults()
	for _, m := range ms {
		s.AddObserver(m)
	}

	if err := s.Prepare(rc, bodies); err != nil {
		return nil, nil, err
	}
	if l := cfg.Launch(); l.Count > 0 {
		if err := s.AddProbes(l.Count, l.Radius, l.Speed); err != nil {
			return nil, nil, err
		}
	}
	return s, ms, nil
}

// collisionLog keeps the collision descriptions of a run.
type collisionLog struct {
	bodies []dynamo.Body
	lines  []string
	echo   bool
}

func (c *collisionLog) OnDay(r dynamo.DayReport) {
	for _, col := range r.Collisions {
		line := fmt.Sprintf("day %d: %s", r.Day, col.Describe(c.bodies))
		c.lines = append(c.lines, line)
		if c.echo {
			fmt.Println(viz.Warning.Render(line))
		}
	}
}

// save stores the record in the data directory and returns the run id.
func save(cfg *config.Config, s *sim.Simulation, ms []metrics.Metric, collisions []string, runErr error) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	meta := storage.RunMetadata{
		Name:        "run",
		Catalogue:   cfg.Catalogue,
		Tstep:       cfg.Tstep,
		StepsPerDay: s.StepsPerDay(),
		Mode:        cfg.Mode,
		Collisions:  collisions,
		Metrics:     metrics.Collect(ms),
	}
	if preset != "" {
		meta.Name = preset
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return st.Save(meta, s.Record())
}

// serveStream listens on addr and serves hub at /ws. A listen failure is
// returned; a later serve failure is printed.
func serveStream(addr string, hub *stream.Hub) (*http.Server, net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("stream: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, viz.StatusError.Render("stream stopped: "+err.Error()))
		}
	}()
	return srv, ln.Addr(), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, ms, err := prepare(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := &collisionLog{bodies: s.Bodies(), echo: true}
	s.AddObserver(log)

	var last dynamo.DayReport
	s.AddObserver(dynamo.ObserverFunc(func(r dynamo.DayReport) { last = r }))

	if serveAddr != "" {
		hub := stream.NewHub()
		defer hub.Close()
		srv, addr, serr := serveStream(serveAddr, hub)
		if serr != nil {
			return serr
		}
		defer srv.Close()
		s.AddObserver(hub)
		defer func() { hub.Done(err) }()
		fmt.Printf("streaming day reports on ws://%s/ws\n", addr)
	}

	fmt.Printf("running %d days with %d planets and %d probes (%s fidelity)...\n",
		s.Config().Ndays, s.Config().Nplanets, s.Config().Nprobes(), cfg.Mode)

	_, err = s.Run(ctx)

	runID, saveErr := save(cfg, s, ms, log.lines, err)
	if saveErr != nil {
		return saveErr
	}
	if cfg.Output != "" {
		if werr := rundata.WriteFile(cfg.Output, s.Record()); werr != nil {
			return werr
		}
	}
	if err != nil {
		fmt.Println(viz.StatusError.Render("run aborted: " + err.Error()))
		fmt.Printf("run id: %s\n", runID)
		return err
	}

	fmt.Println(viz.Summary(last, metrics.Collect(ms), []string{"energy_drift", "collisions", "high_fidelity_share"}))
	fmt.Printf("run id: %s\n", runID)
	if cfg.Output != "" {
		fmt.Printf("run file: %s\n", cfg.Output)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, ms, err := prepare(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &collisionLog{bodies: s.Bodies()}
	s.AddObserver(log)
	reporter := viz.NewReporter(64)
	s.AddObserver(reporter)

	result := make(chan error, 1)
	go func() {
		_, err := s.Run(ctx)
		reporter.Close()
		result <- err
	}()

	title := "orbitsim"
	if preset != "" {
		title = preset
	}
	m := viz.NewProgress(title, s.Bodies(), reporter.Reports(), result, cancel)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	runErr := final.(viz.Progress).Err()
	runID, err := save(cfg, s, ms, log.lines, runErr)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	rc, bodies, err := loadCatalogue(cfg)
	if err != nil {
		return err
	}

	launch := cfg.Launch()
	if launch.Count == 0 {
		launch.Count = 1
	}
	variants := make([]sim.Variant, len(speeds))
	for i, v := range speeds {
		l := launch
		l.Speed = v
		variants[i] = sim.Variant{Name: fmt.Sprintf("v0=%gm/s", v), Options: opts, Launch: l}
	}

	e := sim.NewEnsemble(rc, bodies, variants...)
	e.SetLimit(parallel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %d launch speeds over %d days...\n", len(variants), rc.Ndays)
	start := time.Now()
	outcomes, err := e.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tDAYS\tCOLLISIONS\tDRIFT\tHIGH-K SHARE\tSTATUS")
	for _, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = o.Err.Error()
		}
		recorded := 0
		if o.Record != nil {
			recorded = o.Record.History.Len()
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2e\t%.2f\t%s\n",
			o.Name, recorded, len(o.Collisions),
			o.Metrics["energy_drift"], o.Metrics["high_fidelity_share"], status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
