package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/mdc-sim/sim"
)

// RunDoc is one parameter set as written in a YAML config document.
// Every field is a pointer so that absent keys can be told apart from zero
// values, and so flags and sweep entries can overlay a base document.
type RunDoc struct {
	L       *float64 `yaml:"l"`       // arrival rate
	U       *float64 `yaml:"u"`       // service rate per server
	C       *int     `yaml:"c"`       // number of servers
	TWait   *float64 `yaml:"twait"`   // wait-time threshold
	EndTime *float64 `yaml:"endtime"` // horizon
	NEvents *float64 `yaml:"nevents"` // expected arrivals; endtime = nevents / l
	Seed    *int64   `yaml:"seed"`
}

// Overlay returns a copy of d with every field set in o taking precedence.
// Setting one of endtime and nevents in o clears the other, so an overlay
// can switch how the horizon is given.
func (d RunDoc) Overlay(o RunDoc) RunDoc {
	if o.L != nil {
		d.L = o.L
	}
	if o.U != nil {
		d.U = o.U
	}
	if o.C != nil {
		d.C = o.C
	}
	if o.TWait != nil {
		d.TWait = o.TWait
	}
	if o.EndTime != nil {
		d.EndTime, d.NEvents = o.EndTime, nil
	}
	if o.NEvents != nil {
		d.NEvents, d.EndTime = o.NEvents, nil
	}
	if o.Seed != nil {
		d.Seed = o.Seed
	}
	return d
}

func missing(name string) error {
	return fmt.Errorf("wrong/missing parameter %q: %w", name, sim.ErrInvalidConfig)
}

// Config converts d into a validated simulation config.
func (d RunDoc) Config() (sim.Config, error) {
	switch {
	case d.L == nil:
		return sim.Config{}, missing("l")
	case d.U == nil:
		return sim.Config{}, missing("u")
	case d.C == nil:
		return sim.Config{}, missing("c")
	case d.TWait == nil:
		return sim.Config{}, missing("twait")
	case d.EndTime != nil && d.NEvents != nil:
		return sim.Config{}, fmt.Errorf("endtime and nevents are mutually exclusive: %w", sim.ErrInvalidConfig)
	case d.EndTime == nil && d.NEvents == nil:
		return sim.Config{}, missing("endtime")
	}

	cfg := sim.Config{
		ArrivalRate:   *d.L,
		ServiceRate:   *d.U,
		ServerCount:   *d.C,
		WaitThreshold: *d.TWait,
		Seed:          d.Seed,
	}
	if d.EndTime != nil {
		cfg.Horizon = *d.EndTime
	} else {
		if *d.L <= 0 {
			return sim.Config{}, missing("l")
		}
		cfg.Horizon = *d.NEvents / *d.L
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

// decodeStrict parses data into out, rejecting unknown keys.
func decodeStrict(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("wrong/missing parameter: %v: %w", err, sim.ErrInvalidConfig)
		}
		return err
	}
	return nil
}

// LoadRunDoc reads a single-run config document from path.
func LoadRunDoc(path string) (RunDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunDoc{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var doc RunDoc
	if err := decodeStrict(data, &doc); err != nil {
		return RunDoc{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return doc, nil
}

// SweepRunDoc is one entry of a sweep's runs list.
type SweepRunDoc struct {
	Name   string `yaml:"name"`
	RunDoc `yaml:",inline"`
}

// SweepGrid lists values to cross with every run. Empty axes are skipped.
type SweepGrid struct {
	C     []int     `yaml:"c"`
	L     []float64 `yaml:"l"`
	U     []float64 `yaml:"u"`
	TWait []float64 `yaml:"twait"`
}

// SweepDoc is a sweep config document: a base parameter set, optional
// per-run overlays, and an optional grid crossed with every run.
type SweepDoc struct {
	MasterSeed *int64        `yaml:"master_seed"`
	Base       RunDoc        `yaml:"base"`
	Runs       []SweepRunDoc `yaml:"runs"`
	Grid       SweepGrid     `yaml:"grid"`
}

// LoadSweepDoc reads a sweep config document from path.
func LoadSweepDoc(path string) (SweepDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SweepDoc{}, fmt.Errorf("read sweep %s: %w", path, err)
	}
	var doc SweepDoc
	if err := decodeStrict(data, &doc); err != nil {
		return SweepDoc{}, fmt.Errorf("parse sweep %s: %w", path, err)
	}
	return doc, nil
}

// Expand resolves the document into concrete runs: each runs entry (or the
// base alone when there are none) overlaid on the base, crossed with every
// grid axis. nevents is converted per run, after the overlay.
func (s SweepDoc) Expand() ([]sim.SweepRun, error) {
	entries := s.Runs
	if len(entries) == 0 {
		entries = []SweepRunDoc{{}}
	}

	type named struct {
		name string
		doc  RunDoc
	}
	var docs []named
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = strconv.Itoa(i)
		}
		docs = append(docs, named{name, s.Base.Overlay(e.RunDoc)})
	}

	docs = crossAxis(docs, len(s.Grid.C), func(n named, i int) named {
		n.doc.C = &s.Grid.C[i]
		n.name += fmt.Sprintf("/c=%d", s.Grid.C[i])
		return n
	})
	docs = crossAxis(docs, len(s.Grid.L), func(n named, i int) named {
		n.doc.L = &s.Grid.L[i]
		n.name += fmt.Sprintf("/l=%v", s.Grid.L[i])
		return n
	})
	docs = crossAxis(docs, len(s.Grid.U), func(n named, i int) named {
		n.doc.U = &s.Grid.U[i]
		n.name += fmt.Sprintf("/u=%v", s.Grid.U[i])
		return n
	})
	docs = crossAxis(docs, len(s.Grid.TWait), func(n named, i int) named {
		n.doc.TWait = &s.Grid.TWait[i]
		n.name += fmt.Sprintf("/twait=%v", s.Grid.TWait[i])
		return n
	})

	runs := make([]sim.SweepRun, 0, len(docs))
	for _, n := range docs {
		cfg, err := n.doc.Config()
		if err != nil {
			return nil, fmt.Errorf("sweep run %q: %w", n.name, err)
		}
		runs = append(runs, sim.SweepRun{Name: n.name, Config: cfg})
	}
	return runs, nil
}

// crossAxis replaces every element of in with size variants built by set.
// A zero-size axis leaves in unchanged.
func crossAxis[T any](in []T, size int, set func(T, int) T) []T {
	if size == 0 {
		return in
	}
	out := make([]T, 0, len(in)*size)
	for _, v := range in {
		for i := 0; i < size; i++ {
			out = append(out, set(v, i))
		}
	}
	return out
}
