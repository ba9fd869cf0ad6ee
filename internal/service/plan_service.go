package service

import (
	"context"
	"time"

	"github.com/andresuchdata/replenish-go/internal/cache"
	"github.com/andresuchdata/replenish-go/internal/config"
	"github.com/andresuchdata/replenish-go/internal/dataset"
	"github.com/andresuchdata/replenish-go/internal/planner"
	"github.com/andresuchdata/replenish-go/internal/report"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DatasetFile is one uploaded dataset held in memory for the duration of a
// single computation.
type DatasetFile struct {
	Name string
	Data []byte
}

// ComputeInput carries everything one plan computation needs. Each request
// owns its own input; nothing is shared across requests.
type ComputeInput struct {
	Sales         DatasetFile
	Inventory     DatasetFile
	ProductMaster *DatasetFile
	WindowDays    int
	Now           time.Time
}

// PlanService runs the replenishment pipeline over uploaded datasets.
type PlanService struct {
	cfg   config.PlanConfig
	cache cache.PlanCache
}

// NewPlanService creates a plan service. A nil cache falls back to noop.
func NewPlanService(cfg config.PlanConfig, cacheImpl cache.PlanCache) *PlanService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &PlanService{cfg: cfg, cache: cacheImpl}
}

// Defaults returns the configured computation defaults.
func (s *PlanService) Defaults() config.PlanConfig {
	return s.cfg
}

// Compute parses the uploaded datasets, runs the pipeline, and formats the
// report. Parsing of the two or three files happens in parallel; the
// computation itself is one synchronous pass.
func (s *PlanService) Compute(ctx context.Context, in ComputeInput) (*report.Report, error) {
	windowDays := in.WindowDays
	if windowDays <= 0 {
		windowDays = s.cfg.WindowDays
	}

	key := s.cacheKey(windowDays, in)
	if rep, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		log.Debug().Str("key", key).Msg("plan: cache hit")
		return rep, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("plan: cache get failed")
	}

	var (
		salesTable     *dataset.Table
		inventoryTable *dataset.Table
		masterTable    *dataset.Table
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		salesTable, err = dataset.ReadBytes(in.Sales.Data, in.Sales.Name)
		return err
	})
	g.Go(func() (err error) {
		inventoryTable, err = dataset.ReadBytes(in.Inventory.Data, in.Inventory.Name)
		return err
	})
	if in.ProductMaster != nil {
		g.Go(func() (err error) {
			masterTable, err = dataset.ReadBytes(in.ProductMaster.Data, in.ProductMaster.Name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := planner.Run(
		planner.Config{
			WindowDays: windowDays,
			OpenStatus: s.cfg.OpenStatus,
			Now:        in.Now,
		},
		planner.Input{
			Sales:         salesTable,
			Inventory:     inventoryTable,
			ProductMaster: masterTable,
		},
	)
	if err != nil {
		return nil, err
	}

	rep := report.Build(res)

	if err := s.cache.Set(ctx, key, rep); err != nil {
		log.Warn().Err(err).Msg("plan: cache set failed")
	}

	return rep, nil
}

// cacheKey digests the dataset bytes, the window, and the reference day.
// The demand cutoff moves with the clock, so cached entries are only valid
// within the same calendar day.
func (s *PlanService) cacheKey(windowDays int, in ComputeInput) string {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	datasets := [][]byte{[]byte(now.Format("2006-01-02")), in.Sales.Data, in.Inventory.Data}
	if in.ProductMaster != nil {
		datasets = append(datasets, in.ProductMaster.Data)
	}
	return cache.BuildKey(windowDays, datasets...)
}
