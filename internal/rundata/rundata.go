package rundata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

var ErrMalformed = errors.New("rundata: malformed run file")

const (
	precision = 10
	maxLine   = 16 << 20
)

// Loader reads a run or catalogue from a path.
type Loader interface {
	LoadRun(path string) (*dynamo.Record, error)
}

// Writer stores a run at a path.
type Writer interface {
	WriteRun(path string, r *dynamo.Record) error
}

// FileCodec reads and writes run files on the local filesystem.
type FileCodec struct{}

func (FileCodec) LoadRun(path string) (*dynamo.Record, error) { return ReadFile(path) }

func (FileCodec) WriteRun(path string, r *dynamo.Record) error { return WriteFile(path, r) }

func ReadFile(path string) (*dynamo.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func WriteFile(path string, r *dynamo.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type parser struct {
	line    int
	section byte
	params  bool
	rec     *dynamo.Record
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, p.line, fmt.Sprintf(format, args...))
}

// Read parses a run file. The day sections must either be empty or hold
// one row per recorded day.
func Read(r io.Reader) (*dynamo.Record, error) {
	p := &parser{rec: &dynamo.Record{History: dynamo.NewHistory(0)}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	for sc.Scan() {
		p.line++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		if line[0] == '*' {
			if len(line) < 2 || !strings.ContainsRune("PBVWXL", rune(line[1])) {
				return nil, p.errorf("unknown section %q", line)
			}
			p.section = line[1]
			continue
		}
		if err := p.parseLine(strings.Fields(line)); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p.finish()
}

func (p *parser) parseLine(fields []string) error {
	if p.section == 0 {
		return p.errorf("data outside of a section")
	}
	if p.section != 'P' && !p.params {
		return p.errorf("section *%c before *P", p.section)
	}

	cfg := &p.rec.Config
	h := p.rec.History
	switch p.section {
	case 'P':
		if p.params {
			return p.errorf("repeated parameter line")
		}
		if len(fields) != 4 {
			return p.errorf("want 4 parameters, got %d", len(fields))
		}
		ints := [3]*int{&cfg.Ndays, &cfg.N, &cfg.Nplanets}
		for i, dst := range ints {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return p.errorf("parameter %d: %v", i, err)
			}
			*dst = v
		}
		t, err := p.float(fields[3])
		if err != nil {
			return err
		}
		cfg.Tstep = t
		p.params = true

	case 'B':
		if len(fields) != 3+3*dynamo.InitRows {
			return p.errorf("body wants %d fields, got %d", 3+3*dynamo.InitRows, len(fields))
		}
		b := dynamo.Body{Name: fields[0], Color: fields[1]}
		switch fields[2] {
		case "0":
			b.Kind = dynamo.Planet
		case "1":
			b.Kind = dynamo.Probe
		default:
			return p.errorf("body kind %q is not 0 or 1", fields[2])
		}
		vecs, err := p.vectors(fields[3:])
		if err != nil {
			return err
		}
		copy(b.Init[:], vecs)
		p.rec.Bodies = append(p.rec.Bodies, b)

	case 'V', 'X':
		if len(fields) != 3*cfg.N {
			return p.errorf("row wants %d numbers, got %d", 3*cfg.N, len(fields))
		}
		vecs, err := p.vectors(fields)
		if err != nil {
			return err
		}
		if p.section == 'V' {
			h.Velocities = append(h.Velocities, vecs)
		} else {
			h.Positions = append(h.Positions, vecs)
		}

	case 'W':
		if len(fields) != 3 {
			return p.errorf("energy row wants 3 numbers, got %d", len(fields))
		}
		var w [3]float64
		for i := range w {
			v, err := p.float(fields[i])
			if err != nil {
				return err
			}
			w[i] = v
		}
		h.Energies = append(h.Energies, dynamo.Energy{Total: w[0], Kinetic: w[1], Potential: w[2]})

	case 'L':
		if len(fields) != 1 {
			return p.errorf("level row wants 1 number, got %d", len(fields))
		}
		k, err := strconv.Atoi(fields[0])
		if err != nil {
			return p.errorf("level: %v", err)
		}
		h.Levels = append(h.Levels, dynamo.Level(k))
	}
	return nil
}

func (p *parser) float(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, p.errorf("%q is not a number", s)
	}
	return v, nil
}

func (p *parser) vectors(fields []string) ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, len(fields)/3)
	for i := range fields {
		v, err := p.float(fields[i])
		if err != nil {
			return nil, err
		}
		out[i/3][i%3] = v
	}
	return out, nil
}

func (p *parser) finish() (*dynamo.Record, error) {
	if !p.params {
		return nil, fmt.Errorf("%w: missing *P section", ErrMalformed)
	}
	rec := p.rec
	if len(rec.Bodies) != rec.Config.N {
		return nil, fmt.Errorf("%w: N=%d but %d bodies", ErrMalformed, rec.Config.N, len(rec.Bodies))
	}

	h := rec.History
	days := h.Len()
	if len(h.Velocities) != days || len(h.Positions) != days {
		return nil, fmt.Errorf("%w: day sections disagree (V=%d W=%d X=%d)",
			ErrMalformed, len(h.Velocities), days, len(h.Positions))
	}
	if days > 0 && days != rec.Config.Ndays {
		return nil, fmt.Errorf("%w: Ndays=%d but %d day rows", ErrMalformed, rec.Config.Ndays, days)
	}
	if len(h.Levels) != 0 && len(h.Levels) != days {
		return nil, fmt.Errorf("%w: %d level rows for %d days", ErrMalformed, len(h.Levels), days)
	}
	return rec, nil
}

// Write emits r as a run file. When r has day rows, Ndays is written as
// the number of rows.
func Write(w io.Writer, r *dynamo.Record) error {
	for _, b := range r.Bodies {
		if b.Name == "" || strings.ContainsAny(b.Name, " \t\n") || strings.ContainsAny(b.Color, " \t\n") {
			return fmt.Errorf("%w: body name %q or color %q is not a single field",
				dynamo.ErrInvalidConfiguration, b.Name, b.Color)
		}
	}

	h := r.History
	if h == nil {
		h = dynamo.NewHistory(0)
	}
	cfg := r.Config
	cfg.N = len(r.Bodies)
	if h.Len() > 0 {
		cfg.Ndays = h.Len()
	}

	bw := bufio.NewWriter(w)
	var buf []byte
	row := func(nums ...float64) {
		buf = buf[:0]
		for i, v := range nums {
			if i > 0 {
				buf = append(buf, '\t')
			}
			buf = appendNumber(buf, v)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	vecRow := func(vs []mgl64.Vec3) {
		nums := make([]float64, 0, 3*len(vs))
		for _, v := range vs {
			nums = append(nums, v[0], v[1], v[2])
		}
		row(nums...)
	}

	fmt.Fprintln(bw, "# orbitsim run")
	fmt.Fprintln(bw, "# Units: P [1], X [au], V [au d^-1], W [au^2 em d^-2]")

	fmt.Fprintln(bw, "*P")
	fmt.Fprintf(bw, "%d\t%d\t%d\t%s\n", cfg.Ndays, cfg.N, cfg.Nplanets,
		strconv.FormatFloat(cfg.Tstep, 'f', precision, 64))

	fmt.Fprintln(bw, "*B")
	for _, b := range r.Bodies {
		kind := 0
		if b.Kind == dynamo.Probe {
			kind = 1
		}
		fmt.Fprintf(bw, "%s\t%s\t%d\t", b.Name, b.Color, kind)
		vecRow(b.Init[:])
	}

	fmt.Fprintln(bw, "*V")
	for _, vs := range h.Velocities {
		vecRow(vs)
	}
	fmt.Fprintln(bw, "*W")
	for _, e := range h.Energies {
		row(e.Total, e.Kinetic, e.Potential)
	}
	fmt.Fprintln(bw, "*X")
	for _, xs := range h.Positions {
		vecRow(xs)
	}
	// A run aborted while choosing its fidelity has one level fewer than
	// days; the section is then left out.
	if len(h.Levels) > 0 && len(h.Levels) == h.Len() {
		fmt.Fprintln(bw, "*L")
		for _, k := range h.Levels {
			fmt.Fprintf(bw, "%d\n", int(k))
		}
	}

	return bw.Flush()
}

// appendNumber writes v with ten decimals. Magnitudes too small to survive
// fixed notation, such as probe masses, use exponent notation instead.
func appendNumber(buf []byte, v float64) []byte {
	if a := math.Abs(v); a != 0 && a < 1e-3 {
		return strconv.AppendFloat(buf, v, 'e', precision, 64)
	}
	return strconv.AppendFloat(buf, v, 'f', precision, 64)
}
