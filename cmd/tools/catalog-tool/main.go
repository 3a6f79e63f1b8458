// cmd/tools/catalog-tool/main.go
//
// catalog-tool validates market price catalogs, imports them into Postgres
// and previews what the selector returns for a village and crop.
//
// Usage:
//
//	catalog-tool validate --file prices.yaml
//	catalog-tool import --file prices.yaml
//	catalog-tool select --location Rampur --crop Wheat [--file prices.yaml]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"kisan-sathi/internal/common/config"
	"kisan-sathi/internal/common/database"
	"kisan-sathi/internal/market"

	"github.com/spf13/cobra"
)

// openDB is replaced in tests.
var openDB = func() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	return pg.DB, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalog-tool",
		Short:        "Manage the market price catalog",
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd(), newImportCmd(), newSelectCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a JSON or YAML catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := market.LoadFile(file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records OK\n", file, c.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (.json, .yaml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the market_prices table with a catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := market.LoadFile(file)
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pg := database.NewPostgresFromDB(db)
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			if err := pg.WithTx(ctx, func(tx *sql.Tx) error {
				return market.Import(ctx, tx, c.Records)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into market_prices\n", c.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (.json, .yaml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSelectCmd() *cobra.Command {
	var file, location, crop string
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show the prices a farmer in location would see",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(file)
			if err != nil {
				return err
			}
			printPrices(cmd.OutOrStdout(), c.Select(location, crop))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file; the bundled catalog when empty")
	cmd.Flags().StringVarP(&location, "location", "l", "", "farmer's village")
	cmd.Flags().StringVarP(&crop, "crop", "c", "", "crop to rank")
	return cmd
}

func loadCatalog(file string) (*market.Catalog, error) {
	if file == "" {
		return market.LoadEmbedded()
	}
	return market.LoadFile(file)
}

func printPrices(w io.Writer, prices []market.RankedPriceRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CROP\tMARKET\tLOCATION\tPRICE\tUNIT\tBEST")
	for _, p := range prices {
		best := ""
		if p.IsBest {
			best = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Crop, p.Market, p.Location, strconv.FormatFloat(p.Price, 'f', -1, 64), p.Unit, best)
	}
	tw.Flush()
}
