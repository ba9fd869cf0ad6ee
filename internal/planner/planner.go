// Package planner implements the replenishment computation pipeline:
// schema normalization, trailing-window demand aggregation, the inventory
// left-join, and the reorder point calculation. One call to Run is one
// complete, synchronous pass over in-memory tables; nothing is shared
// between runs.
package planner

import (
	"fmt"
	"time"

	"github.com/andresuchdata/replenish-go/internal/dataset"
	"github.com/andresuchdata/replenish-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Required columns per dataset, checked after header normalization.
var (
	salesRequiredColumns     = []string{"date", "product_id", "quantity"}
	inventoryRequiredColumns = []string{"product_id", "current_stock", "safety_stock", "lead_time_days"}
	masterRequiredColumns    = []string{"product_id"}
)

// Config controls one pipeline run.
type Config struct {
	WindowDays int       // trailing demand window, default 30
	OpenStatus string    // status value marking open orders, default "open"
	Now        time.Time // reference instant; zero means time.Now()
}

// Input is the set of raw tables for one run. ProductMaster is optional.
type Input struct {
	Sales         *dataset.Table
	Inventory     *dataset.Table
	ProductMaster *dataset.Table
}

// Result is the outcome of one pipeline run.
type Result struct {
	Rows        []domain.PlanRow
	Demand      []domain.DemandSummary
	Sales       []domain.SalesRecord
	Warnings    []JoinWarning
	DroppedRows int
	WindowDays  int
}

// Run executes the full pipeline over the input tables. Schema and
// computation failures abort the run with no partial output; per-row parse
// failures in the sales data are dropped and counted instead.
func Run(cfg Config, in Input) (*Result, error) {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 30
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	if in.Sales == nil || in.Inventory == nil {
		return nil, fmt.Errorf("sales and inventory datasets are required")
	}

	sales, err := dataset.Normalize(in.Sales, "product_id", salesRequiredColumns...)
	if err != nil {
		return nil, err
	}
	inventoryTable, err := dataset.Normalize(in.Inventory, "product_id", inventoryRequiredColumns...)
	if err != nil {
		return nil, err
	}
	var masterTable *dataset.Table
	if in.ProductMaster != nil {
		masterTable, err = dataset.Normalize(in.ProductMaster, "product_id", masterRequiredColumns...)
		if err != nil {
			return nil, err
		}
	}

	salesRecords, dropped := decodeSales(sales)
	inventory, err := decodeInventory(inventoryTable)
	if err != nil {
		return nil, err
	}
	var master []domain.ProductMasterRecord
	if masterTable != nil {
		master = decodeProductMaster(masterTable)
	}

	demand := AggregateDemand(salesRecords, cfg.WindowDays, now)
	openOrders := AggregateOpenOrders(salesRecords, cfg.OpenStatus)

	joined, warnings := join(inventory, demand, master, openOrders)

	calculator := NewReorderCalculator()
	rows := make([]domain.PlanRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, calculator.Calculate(row))
	}

	log.Info().
		Int("products", len(rows)).
		Int("sales_rows", len(salesRecords)).
		Int("dropped_rows", dropped).
		Int("warnings", len(warnings)).
		Int("window_days", cfg.WindowDays).
		Msg("replenishment plan computed")

	return &Result{
		Rows:        rows,
		Demand:      demand,
		Sales:       salesRecords,
		Warnings:    warnings,
		DroppedRows: dropped,
		WindowDays:  cfg.WindowDays,
	}, nil
}
