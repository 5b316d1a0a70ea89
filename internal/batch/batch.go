// Package batch runs a whole catalog: every record is initialized,
// scheduled and sampled in file order, producing one ephemeris file per
// satellite and a single verification log for the run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/sgp4check/internal/catalog"
	"github.com/san-kum/sgp4check/internal/config"
	"github.com/san-kum/sgp4check/internal/export"
	"github.com/san-kum/sgp4check/internal/metrics"
	"github.com/san-kum/sgp4check/internal/scenario"
	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/sgp4"
	"github.com/san-kum/sgp4check/internal/sim"
	"github.com/san-kum/sgp4check/internal/storage"
)

type Config struct {
	Run     config.RunConfig
	Catalog string
	OutDir  string
	Manual  schedule.ManualInput

	// Scenario runs after the catalog and is appended to the verification
	// log. Nil skips it.
	Scenario *scenario.Scenario

	// Ledger receives a run summary when set.
	Ledger *storage.Store

	Propagator sim.Propagator
	Log        *slog.Logger
}

type Summary struct {
	RunID        string
	Verification string
	Records      int
	Skipped      int
	Failed       int
	Satellites   []storage.SatelliteSummary
	Scenario     *sim.Result
}

type Batch struct {
	cfg          Config
	log          *slog.Logger
	sched        *schedule.Scheduler
	sim          *sim.Simulator
	verification *export.VerificationSink
	ephemeris    *export.EphemerisSink
}

func New(cfg Config) *Batch {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}

	b := &Batch{
		cfg:          cfg,
		log:          log,
		sched:        schedule.New(cfg.Run.Run, cfg.Manual),
		sim:          sim.New(cfg.Propagator, log),
		verification: export.NewVerificationSink(cfg.Run.Run),
		ephemeris:    export.NewEphemerisSink(),
	}

	grav := sgp4.Constants(cfg.Run.Gravity)
	b.sim.AddObserver(b.verification)
	b.sim.AddObserver(b.ephemeris)
	b.sim.AddMetric(metrics.NewEnergyDrift(grav.Mu))
	b.sim.AddMetric(metrics.NewMinAltitude(grav.RadiusEarthKm))
	return b
}

// VerificationPath is where the run's verification log is written.
func (b *Batch) VerificationPath() string {
	return filepath.Join(b.cfg.OutDir, b.cfg.Run.Run.OutputName())
}

// Run processes the catalog, then the scenario. Records that cannot be
// parsed or scheduled are skipped with a warning; propagation errors end
// only the affected satellite. I/O failures abort the run.
func (b *Batch) Run(ctx context.Context) (*Summary, error) {
	f, err := os.Open(b.cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(b.cfg.OutDir, 0755); err != nil {
		return nil, err
	}

	b.log.Info("batch: start", "catalog", b.cfg.Catalog, "config", b.cfg.Run.String())

	summary := &Summary{Verification: b.VerificationPath()}
	reader := catalog.NewReader(f)

	for {
		rec, ok := reader.Next()
		if !ok {
			break
		}
		summary.Records++

		sat, el, err := initRecord(b.cfg.Run, rec)
		if err != nil {
			b.skip(summary, rec, err)
			continue
		}
		grid, err := b.sched.Resolve(el, sat)
		if err != nil {
			b.skip(summary, rec, err)
			continue
		}

		sum, err := b.process(ctx, rec, sat, grid)
		if err != nil {
			return summary, err
		}
		if sum.ErrorCode > 0 {
			summary.Failed++
		}
		summary.Satellites = append(summary.Satellites, sum)
	}
	if err := reader.Err(); err != nil {
		return summary, err
	}

	if err := storage.WriteFile(summary.Verification, b.verification); err != nil {
		return summary, err
	}

	if sc := b.cfg.Scenario; sc != nil {
		res, err := scenario.Run(ctx, sc, b.cfg.Run, b.verification, b.log)
		if err != nil {
			return summary, err
		}
		summary.Scenario = res
		if err := storage.AppendFile(summary.Verification, b.verification); err != nil {
			return summary, err
		}
	}

	b.log.Info("batch: done",
		"records", summary.Records,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"verification", summary.Verification)

	if b.cfg.Ledger != nil {
		id, err := b.cfg.Ledger.Save(b.metadata(summary))
		if err != nil {
			return summary, fmt.Errorf("save run: %w", err)
		}
		summary.RunID = id
	}

	return summary, nil
}

func initRecord(rc config.RunConfig, rec catalog.Record) (*sgp4.Satellite, sgp4.Elements, error) {
	el, err := sgp4.ParseTLE(rec.Line1, rec.Line2)
	if err != nil {
		return nil, el, err
	}
	sat, err := sgp4.InitFromElements(rc.Gravity, rc.Ops, el)
	if err != nil {
		return nil, el, err
	}
	return sat, el, nil
}

func (b *Batch) skip(summary *Summary, rec catalog.Record, err error) {
	summary.Skipped++
	b.log.Warn("catalog: record skipped", "index", rec.Index, "line", rec.Line, "err", err)
}

func (b *Batch) process(ctx context.Context, rec catalog.Record, sat *sgp4.Satellite, grid schedule.Grid) (storage.SatelliteSummary, error) {
	b.verification.Begin(sat)
	b.ephemeris.Begin(sat)

	res, err := b.sim.Run(ctx, sat, grid)
	if err != nil {
		return storage.SatelliteSummary{}, err
	}

	name := export.EphemerisFileName(rec.Line2, sat.Satnum)
	if err := storage.WriteFile(filepath.Join(b.cfg.OutDir, name), b.ephemeris); err != nil {
		return storage.SatelliteSummary{}, err
	}

	sum := storage.SatelliteSummary{
		Satnum:    sat.Satnum,
		Samples:   res.Samples(),
		Start:     grid.Start,
		Stop:      grid.Stop,
		Step:      grid.Step,
		Ephemeris: name,
		Metrics:   res.Metrics,
	}
	if res.Err != nil {
		sum.ErrorCode = res.Err.Code
		sum.ErrorOffset = res.Err.Offset
	}

	b.log.Debug("satellite done", "satnum", sat.Satnum, "samples", sum.Samples, "phase", res.Phase.String())
	return sum, nil
}

func (b *Batch) metadata(summary *Summary) storage.RunMetadata {
	meta := storage.RunMetadata{
		Timestamp:    time.Now(),
		Ops:          b.cfg.Run.Ops.String(),
		RunMode:      b.cfg.Run.Run.String(),
		InputTime:    b.cfg.Run.InputTime.String(),
		Gravity:      b.cfg.Run.Gravity.String(),
		Catalog:      b.cfg.Catalog,
		Verification: summary.Verification,
		Records:      summary.Records,
		Skipped:      summary.Skipped,
		Failed:       summary.Failed,
		Satellites:   summary.Satellites,
	}
	if b.cfg.Scenario != nil {
		meta.Scenario = b.cfg.Scenario.Name
	}
	return meta
}
