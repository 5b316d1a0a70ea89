package sim

import (
	"context"
	"log/slog"
	"math"

	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

// rewindEps is the start offset below which the grid is treated as
// starting at the epoch.
const rewindEps = 1e-8

type Simulator struct {
	prop      Propagator
	log       *slog.Logger
	metrics   []Metric
	observers []Observer
}

func New(prop Propagator, log *slog.Logger) *Simulator {
	if prop == nil {
		prop = SGP4
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Simulator{
		prop:      prop,
		log:       log,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run samples sat over g. A sample at the epoch is always requested first.
// When g starts away from the epoch the loop base is moved back one step so
// that the first loop sample lands on g.Start. Offsets advance as
// base+k*step and the last one is clamped to g.Stop.
//
// A propagator error ends the satellite with exactly one ERROR log line and
// is reported in Result.Err; Run itself only fails for an invalid grid or a
// canceled context.
func (s *Simulator) Run(ctx context.Context, sat *sgp4.Satellite, g schedule.Grid) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Satnum:  sat.Satnum,
		Grid:    g,
		Offsets: make([]float64, 0, expectedSamples(g)),
		Phase:   Initialized,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	defer s.collect(result)

	if sat.Error > 0 {
		s.fail(result, sat, 0, sat.Error)
		return result, nil
	}
	if !s.sample(result, sat, 0) {
		return result, nil
	}

	result.Phase = Stepping
	base := g.Start
	if math.Abs(base) > rewindEps {
		base -= g.Step
	}
	eps := g.Step * 1e-9

	t := base
	for k := 1; t < g.Stop; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t = base + float64(k)*g.Step
		if t > g.Stop-eps {
			t = g.Stop
		}
		if !s.sample(result, sat, t) {
			return result, nil
		}
	}

	result.Phase = Done
	return result, nil
}

func (s *Simulator) sample(result *Result, sat *sgp4.Satellite, t float64) bool {
	sv, code := s.prop.Propagate(sat, t)
	if code > 0 {
		s.fail(result, sat, t, code)
		return false
	}

	for _, m := range s.metrics {
		m.Observe(sat, t, sv)
	}
	for _, obs := range s.observers {
		obs.OnSample(sat, t, sv)
	}
	result.Offsets = append(result.Offsets, t)
	return true
}

func (s *Simulator) fail(result *Result, sat *sgp4.Satellite, t float64, code int) {
	result.Phase = Errored
	result.Err = &PropagationError{Satnum: sat.Satnum, Offset: t, Code: code}
	s.log.Error("sgp4 error",
		"satnum", sat.Satnum,
		"tsince", t,
		"code", code,
		"text", sgp4.ErrorText(code))
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func expectedSamples(g schedule.Grid) int {
	n := int((g.Stop-g.Start)/g.Step) + 2
	if n < 1 || n > 1<<20 {
		return 0
	}
	return n
}
