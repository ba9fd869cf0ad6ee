// cmd/plan/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/andresuchdata/replenish-go/internal/dataset"
	"github.com/andresuchdata/replenish-go/internal/planner"
	"github.com/andresuchdata/replenish-go/internal/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "plan",
		Usage: "Compute an inventory replenishment plan from sales and inventory datasets",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the replenishment pipeline over local CSV/XLSX files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "sales",
						Usage:    "Path to the sales/orders dataset (CSV or XLSX)",
						Required: true,
						EnvVars:  []string{"PLAN_SALES_FILE"},
					},
					&cli.StringFlag{
						Name:     "inventory",
						Usage:    "Path to the inventory/stock dataset (CSV or XLSX)",
						Required: true,
						EnvVars:  []string{"PLAN_INVENTORY_FILE"},
					},
					&cli.StringFlag{
						Name:    "product-master",
						Usage:   "Optional path to the product master dataset",
						EnvVars: []string{"PLAN_PRODUCT_MASTER_FILE"},
					},
					&cli.IntFlag{
						Name:    "window",
						Usage:   "Trailing demand window in days",
						Value:   30,
						EnvVars: []string{"PLAN_WINDOW_DAYS"},
					},
					&cli.StringFlag{
						Name:    "open-status",
						Usage:   "Status value marking open orders in the sales data",
						Value:   "open",
						EnvVars: []string{"PLAN_OPEN_STATUS"},
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write the plan table to this file instead of stdout",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: table, csv, or json",
						Value: "table",
					},
				},
				Action: runPlan,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("plan failed")
	}
}

func runPlan(c *cli.Context) error {
	salesTable, err := dataset.ReadFile(c.String("sales"))
	if err != nil {
		return err
	}
	inventoryTable, err := dataset.ReadFile(c.String("inventory"))
	if err != nil {
		return err
	}
	var masterTable *dataset.Table
	if path := c.String("product-master"); path != "" {
		masterTable, err = dataset.ReadFile(path)
		if err != nil {
			return err
		}
	}

	res, err := planner.Run(
		planner.Config{
			WindowDays: c.Int("window"),
			OpenStatus: c.String("open-status"),
		},
		planner.Input{
			Sales:         salesTable,
			Inventory:     inventoryTable,
			ProductMaster: masterTable,
		},
	)
	if err != nil {
		return err
	}

	rep := report.Build(res)

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create output file %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	switch c.String("format") {
	case "csv":
		if err := rep.WriteCSV(out); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	case "table":
		if err := writeTable(out, rep); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", c.String("format"))
	}

	fmt.Fprintf(os.Stderr, "%d products, %d need reorder, %d sales rows dropped, %d warnings\n",
		rep.Summary.TotalProducts, rep.Summary.ReorderNeeded, rep.DroppedRows, len(rep.Warnings))

	return nil
}

func writeTable(out *os.File, rep *report.Report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tSTOCK\tADD\tOPEN\tPROJECTED\tROP\tDAYS LEFT\tSTATUS")
	for _, row := range rep.Rows {
		daysLeft := row.DaysInventoryLeft
		if daysLeft == "" {
			daysLeft = "-"
		}
		fmt.Fprintf(w, "%s\t%v\t%s\t%v\t%v\t%s\t%s\t%s\n",
			row.ProductID,
			row.CurrentStock,
			row.AverageDailyDemand,
			row.OpenOrders,
			row.ProjectedInventory,
			row.ReorderPoint,
			daysLeft,
			row.StockStatus,
		)
	}
	return w.Flush()
}
