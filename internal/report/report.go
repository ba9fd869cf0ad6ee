// Package report renders the computed replenishment plan for presentation:
// formatted table rows, the two chart datasets, and CSV/JSON encodings.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/andresuchdata/replenish-go/internal/domain"
	"github.com/andresuchdata/replenish-go/internal/planner"
)

// Row is one formatted plan row. Demand and reorder point carry 2 decimal
// places, days of inventory left 1 decimal place and an empty string when
// undefined, mirroring the dashboard table formatting.
type Row struct {
	ProductID          string            `json:"product_id"`
	CurrentStock       float64           `json:"current_stock"`
	SafetyStock        float64           `json:"safety_stock"`
	LeadTimeDays       float64           `json:"lead_time_days"`
	AverageDailyDemand string            `json:"average_daily_demand"`
	OpenOrders         float64           `json:"open_orders"`
	ProjectedInventory float64           `json:"projected_inventory"`
	ReorderPoint       string            `json:"reorder_point"`
	DaysInventoryLeft  string            `json:"days_inventory_left"`
	StockStatus        string            `json:"stock_status"`
	Attributes         map[string]string `json:"attributes,omitempty"`
}

// StockComparison is one bar pair of the stock-vs-reorder-point chart.
type StockComparison struct {
	ProductID    string  `json:"product_id"`
	CurrentStock float64 `json:"current_stock"`
	ReorderPoint float64 `json:"reorder_point"`
}

// TrendPoint is one point of the daily sales trend line.
type TrendPoint struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

// Charts bundles the two chart datasets derived from a plan run.
type Charts struct {
	StockVsReorder []StockComparison `json:"stock_vs_reorder"`
	SalesTrend     []TrendPoint      `json:"sales_trend"`
}

// Summary holds headline counts for dashboards and CLI output.
type Summary struct {
	TotalProducts int `json:"total_products"`
	ReorderNeeded int `json:"reorder_needed"`
	WindowDays    int `json:"window_days"`
}

// Report is the full presentation-ready result of one plan run.
type Report struct {
	Rows        []Row                 `json:"rows"`
	Charts      Charts                `json:"charts"`
	Summary     Summary               `json:"summary"`
	Warnings    []planner.JoinWarning `json:"warnings,omitempty"`
	DroppedRows int                   `json:"dropped_rows"`
}

// Build formats a pipeline result into a Report. Row order follows the
// inventory upload; the trend line is sorted by date. Output is
// deterministic: identical input yields byte-identical encodings.
func Build(res *planner.Result) *Report {
	rep := &Report{
		Rows:        make([]Row, 0, len(res.Rows)),
		Warnings:    res.Warnings,
		DroppedRows: res.DroppedRows,
		Summary: Summary{
			TotalProducts: len(res.Rows),
			WindowDays:    res.WindowDays,
		},
	}

	rep.Charts.StockVsReorder = make([]StockComparison, 0, len(res.Rows))
	for _, row := range res.Rows {
		rep.Rows = append(rep.Rows, Row{
			ProductID:          row.ProductID,
			CurrentStock:       row.CurrentStock,
			SafetyStock:        row.SafetyStock,
			LeadTimeDays:       row.LeadTimeDays,
			AverageDailyDemand: formatFloat(row.AverageDailyDemand, 2),
			OpenOrders:         row.OpenOrders,
			ProjectedInventory: row.ProjectedInventory,
			ReorderPoint:       formatFloat(row.ReorderPoint, 2),
			DaysInventoryLeft:  formatOptional(row.DaysInventoryLeft, 1),
			StockStatus:        row.StockStatus,
			Attributes:         row.Attributes,
		})

		rep.Charts.StockVsReorder = append(rep.Charts.StockVsReorder, StockComparison{
			ProductID:    row.ProductID,
			CurrentStock: row.CurrentStock,
			ReorderPoint: row.ReorderPoint,
		})

		if row.StockStatus == domain.StatusReorderNeeded {
			rep.Summary.ReorderNeeded++
		}
	}

	rep.Charts.SalesTrend = salesTrend(res.Sales)

	return rep
}

// salesTrend sums sold quantity per calendar date over all parsed sales
// rows, matching the dashboard's daily trend line.
func salesTrend(sales []domain.SalesRecord) []TrendPoint {
	totals := make(map[string]float64)
	for _, s := range sales {
		totals[s.Date.Format("2006-01-02")] += s.Quantity
	}

	points := make([]TrendPoint, 0, len(totals))
	for date, qty := range totals {
		points = append(points, TrendPoint{Date: date, Quantity: qty})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return points
}

var csvHeader = []string{
	"product_id",
	"current_stock",
	"safety_stock",
	"lead_time_days",
	"average_daily_demand",
	"open_orders",
	"projected_inventory",
	"reorder_point",
	"days_inventory_left",
	"stock_status",
}

// WriteCSV encodes the plan table as CSV.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			row.ProductID,
			formatFloat(row.CurrentStock, -1),
			formatFloat(row.SafetyStock, -1),
			formatFloat(row.LeadTimeDays, -1),
			row.AverageDailyDemand,
			formatFloat(row.OpenOrders, -1),
			formatFloat(row.ProjectedInventory, -1),
			row.ReorderPoint,
			row.DaysInventoryLeft,
			row.StockStatus,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write report row for %s: %w", row.ProductID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat renders v with a fixed number of decimals; decimals < 0 uses
// the shortest exact representation.
func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// formatOptional renders a nullable metric, empty when undefined.
func formatOptional(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, decimals)
}
