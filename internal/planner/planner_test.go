package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/andresuchdata/replenish-go/internal/dataset"
	"github.com/andresuchdata/replenish-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesTable(rows ...[]string) *dataset.Table {
	return &dataset.Table{
		Name:    "sales",
		Columns: []string{"Date", "Product_ID", "Quantity", "Status"},
		Rows:    rows,
	}
}

func inventoryTable(rows ...[]string) *dataset.Table {
	return &dataset.Table{
		Name:    "inventory",
		Columns: []string{"Product_ID", "Current_Stock", "Safety_Stock", "Lead_Time_Days"},
		Rows:    rows,
	}
}

func TestRunBaseScenario(t *testing.T) {
	// P1: stock 100, safety 10, lead time 5; 60 units sold in window.
	sales := salesTable(
		[]string{"2025-01-10", "P1", "20", ""},
		[]string{"2025-01-15", "P1", "30", ""},
		[]string{"2025-01-20", "P1", "10", ""},
	)
	inventory := inventoryTable(
		[]string{"P1", "100", "10", "5"},
	)

	res, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, "p1", row.ProductID)
	assert.Equal(t, 2.0, row.AverageDailyDemand)
	assert.Equal(t, 20.0, row.ReorderPoint)
	assert.Equal(t, 100.0, row.ProjectedInventory)
	require.NotNil(t, row.DaysInventoryLeft)
	assert.Equal(t, 50.0, *row.DaysInventoryLeft)
	assert.Equal(t, domain.StatusOK, row.StockStatus)
}

func TestRunTieResolvesToOK(t *testing.T) {
	// Same P1 but safety 90: ROP = 2*5+90 = 100 = projected inventory.
	sales := salesTable(
		[]string{"2025-01-10", "P1", "20", ""},
		[]string{"2025-01-15", "P1", "30", ""},
		[]string{"2025-01-20", "P1", "10", ""},
	)
	inventory := inventoryTable(
		[]string{"P1", "100", "90", "5"},
	)

	res, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	assert.Equal(t, 100.0, res.Rows[0].ReorderPoint)
	assert.Equal(t, domain.StatusOK, res.Rows[0].StockStatus)
}

func TestRunProductWithoutSales(t *testing.T) {
	sales := salesTable(
		[]string{"2025-01-10", "P1", "20", ""},
	)
	inventory := inventoryTable(
		[]string{"P1", "100", "10", "5"},
		[]string{"P2", "30", "12", "4"},
	)

	res, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	p2 := res.Rows[1]
	assert.Equal(t, "p2", p2.ProductID)
	assert.Equal(t, 0.0, p2.AverageDailyDemand)
	assert.Nil(t, p2.DaysInventoryLeft)
	assert.Equal(t, 12.0, p2.ReorderPoint, "with no demand the reorder point is the safety stock")
	assert.Equal(t, domain.StatusOK, p2.StockStatus)
}

func TestRunOpenOrdersReduceProjectedInventory(t *testing.T) {
	sales := salesTable(
		[]string{"2025-01-10", "P1", "30", "Closed"},
		[]string{"2025-01-15", "P1", "30", "Open"},
		[]string{"2025-01-20", "P1", "45", "open"},
	)
	inventory := inventoryTable(
		[]string{"P1", "100", "10", "5"},
	)

	res, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, 75.0, row.OpenOrders)
	assert.Equal(t, 25.0, row.ProjectedInventory)
	// ADD = 105/30 = 3.5; ROP = 3.5*5+10 = 27.5 > 25 projected
	assert.Equal(t, 27.5, row.ReorderPoint)
	assert.Equal(t, domain.StatusReorderNeeded, row.StockStatus)
}

func TestRunDropsUnparseableSalesRows(t *testing.T) {
	sales := salesTable(
		[]string{"2025-01-10", "P1", "20", ""},
		[]string{"not-a-date", "P1", "999", ""},
		[]string{"2025-01-15", "P1", "not-a-number", ""},
		[]string{"2025-01-20", "P1", "-5", ""},
	)
	inventory := inventoryTable(
		[]string{"P1", "100", "10", "5"},
	)

	res, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.NoError(t, err)

	assert.Equal(t, 3, res.DroppedRows)
	require.Len(t, res.Demand, 1)
	assert.Equal(t, 20.0, res.Demand[0].TotalQuantity, "dropped rows never contribute to demand")
}

func TestRunSchemaErrorStopsPipeline(t *testing.T) {
	sales := &dataset.Table{
		Name:    "sales",
		Columns: []string{"date", "quantity"},
		Rows:    [][]string{{"2025-01-10", "20"}},
	}
	inventory := inventoryTable([]string{"P1", "100", "10", "5"})

	_, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.Error(t, err)

	var schemaErr *dataset.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"product_id"}, schemaErr.Missing)
}

func TestRunComputationErrorOnBadInventory(t *testing.T) {
	sales := salesTable([]string{"2025-01-10", "P1", "20", ""})
	inventory := inventoryTable(
		[]string{"P1", "100", "10", "5"},
		[]string{"P2", "30", "12", "n/a"},
	)

	_, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory})
	require.Error(t, err)

	var compErr *ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, 2, compErr.Row)
	assert.Equal(t, "lead_time_days", compErr.Field)
	assert.Equal(t, "n/a", compErr.Value)
}

func TestRunMissingRequiredDataset(t *testing.T) {
	_, err := Run(Config{}, Input{Sales: salesTable()})
	assert.Error(t, err)
}

func TestRunProductMasterEnrichment(t *testing.T) {
	sales := salesTable([]string{"2025-01-10", "P1", "20", ""})
	inventory := inventoryTable([]string{"P1", "100", "10", "5"})
	master := &dataset.Table{
		Name:    "product_master",
		Columns: []string{"SKU", "Category"},
		Rows:    [][]string{{"P1", "Beauty"}},
	}

	res, err := Run(Config{WindowDays: 30, Now: testNow}, Input{Sales: sales, Inventory: inventory, ProductMaster: master})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Beauty", res.Rows[0].Attributes["category"])
}

func TestRunIsDeterministic(t *testing.T) {
	build := func() Input {
		return Input{
			Sales: salesTable(
				[]string{"2025-01-10", "P1", "20", "Open"},
				[]string{"2025-01-15", "P2", "30", ""},
				[]string{"bad-date", "P3", "1", ""},
			),
			Inventory: inventoryTable(
				[]string{"P1", "100", "10", "5"},
				[]string{"P2", "40", "5", "3"},
			),
		}
	}

	cfg := Config{WindowDays: 30, Now: testNow}
	first, err := Run(cfg, build())
	require.NoError(t, err)
	second, err := Run(cfg, build())
	require.NoError(t, err)

	assert.Equal(t, first, second, "two runs over identical input yield identical results")

	a, err := json.Marshal(first.Rows)
	require.NoError(t, err)
	b, err := json.Marshal(second.Rows)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "encoded output is byte-identical")
}
