// Command importproducts loads a product price list from an Excel workbook
// into the catalog. Rows are upserted by name: existing products get the
// new price, category and HSN, and the sheet's stock is added to theirs.
//
// Usage: go run ./cmd/importproducts --file pricelist.xlsx [--sheet Sarees] [--dry-run]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"

	"tradebook/internal/catalogimport"
	"tradebook/internal/config"
	"tradebook/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "importproducts",
		Usage: "upsert catalog products from an Excel price list",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the .xlsx workbook", Required: true},
			&cli.StringFlag{Name: "sheet", Aliases: []string{"s"}, Usage: "sheet name (default: first sheet)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "parse and report without writing to the database"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	f, err := excelize.OpenFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	products, rowErrs, err := catalogimport.ReadSheet(f, c.String("sheet"))
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		log.Printf("skipping %v", re)
	}
	log.Printf("parsed %d products, skipped %d rows", len(products), len(rowErrs))

	if c.Bool("dry-run") {
		for _, p := range products {
			fmt.Printf("%-40s %-12s %-8s %10s %6d\n", p.Name, p.Category, p.HSN, p.Price.StringFixed(2), p.Stock)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepo(db)
	ctx := context.Background()
	var created, updated int
	for i := range products {
		isNew, err := repo.Upsert(ctx, &products[i])
		if err != nil {
			return fmt.Errorf("upserting %q: %w", products[i].Name, err)
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}

	log.Printf("imported %d products (%d new, %d updated)", created+updated, created, updated)
	return nil
}
