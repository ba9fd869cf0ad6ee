package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/replenish-go/internal/domain"
)

// AggregateDemand computes per-product demand over the trailing window.
// The cutoff is now minus windowDays; rows dated before it are ignored.
// Average daily demand divides by the fixed window length, not by the number
// of days with observed sales: it is demand per calendar day of the window.
// An empty survivor set yields an empty summary, not an error.
func AggregateDemand(sales []domain.SalesRecord, windowDays int, now time.Time) []domain.DemandSummary {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	totals := make(map[string]float64)
	for _, s := range sales {
		if s.Date.Before(cutoff) {
			continue
		}
		totals[s.ProductID] += s.Quantity
	}

	summaries := make([]domain.DemandSummary, 0, len(totals))
	for product, total := range totals {
		summaries = append(summaries, domain.DemandSummary{
			ProductID:          product,
			TotalQuantity:      total,
			AverageDailyDemand: total / float64(windowDays),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ProductID < summaries[j].ProductID })

	return summaries
}

// AggregateOpenOrders sums quantities of sales/orders rows whose status
// matches openStatus (case-insensitive). These are placed, not-yet-fulfilled
// orders that reduce projected inventory.
func AggregateOpenOrders(sales []domain.SalesRecord, openStatus string) []domain.OpenOrderRecord {
	openStatus = strings.ToLower(strings.TrimSpace(openStatus))
	if openStatus == "" {
		openStatus = "open"
	}

	totals := make(map[string]float64)
	for _, s := range sales {
		if strings.ToLower(strings.TrimSpace(s.Status)) != openStatus {
			continue
		}
		totals[s.ProductID] += s.Quantity
	}

	orders := make([]domain.OpenOrderRecord, 0, len(totals))
	for product, total := range totals {
		orders = append(orders, domain.OpenOrderRecord{ProductID: product, Quantity: total})
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ProductID < orders[j].ProductID })

	return orders
}
