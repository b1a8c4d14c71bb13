package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bom-sourcing/internal/bom"
	"bom-sourcing/internal/catalog"
	"bom-sourcing/internal/config"
	"bom-sourcing/internal/fileio"
	"bom-sourcing/internal/matching/model"
	"bom-sourcing/internal/matching/service"
	"bom-sourcing/internal/report"
)

var (
	matchBom       string
	matchMin       float64
	matchInStock   bool
	matchSuppliers []string
	matchOut       string
	matchFormat    string
	matchHeaderRow int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a BOM file against the local catalog",
	RunE:  runMatch,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed an empty catalog with the default suppliers and SEED_FILE",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := config.SetupLogger(cfg)
		store, err := catalog.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		return seed(cmd.Context(), store, cfg.SeedFile, logger)
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import catalog parts from a CSV/XLSX sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := config.SetupLogger(cfg)
		store, err := catalog.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		recs, err := readFile(args[0])
		if err != nil {
			return err
		}
		stats, err := store.ImportParts(cmd.Context(), catalog.RowsFromRecords(recs))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported: %d, skipped: %d\n", stats.Imported, stats.Skipped)
		return nil
	},
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchBom, "bom", "", "BOM file (.csv, .xlsx, .xls)")
	f.Float64Var(&matchMin, "min", -1, "minimum similarity 0..100 (default MIN_SIMILARITY)")
	f.BoolVar(&matchInStock, "in-stock", false, "only consider parts reported in stock")
	f.StringArrayVar(&matchSuppliers, "supplier", nil, "restrict to supplier (repeatable)")
	f.StringVar(&matchOut, "out", "", "write the report to this file")
	f.StringVar(&matchFormat, "format", "", "report format: csv, xlsx or budget (default from --out extension)")
	f.IntVar(&matchHeaderRow, "header-row", 1, "header row of the BOM sheet (1-based)")
	_ = matchCmd.MarkFlagRequired("bom")
}

func readFile(path string) ([]fileio.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fileio.ReadRecords(f, path, matchHeaderRow)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	minSim := cfg.MinSimilarity
	if matchMin >= 0 {
		minSim = matchMin
	}
	if minSim > 100 {
		return fmt.Errorf("--min must be within 0..100, got %v", minSim)
	}

	recs, err := readFile(matchBom)
	if err != nil {
		return fmt.Errorf("read bom: %w", err)
	}
	lines, warnings, err := bom.Parse(recs)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	store, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := store.Snapshot(ctx, matchSuppliers)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := service.New(logger).Run(ctx, lines, pool, model.Options{
		SupplierScope: matchSuppliers,
		InStockOnly:   matchInStock,
		MinSimilarity: minSim,
		Workers:       cfg.MatchWorkers,
	})
	if err != nil {
		return err
	}
	if res.Candidates == 0 {
		logger.Warn().Msg("0 candidates available")
	}
	logger.Info().Int("lines", len(lines)).Int("candidates", res.Candidates).
		Dur("elapsed", time.Since(start)).Msg("match done")

	if matchOut == "" {
		return printSummary(cmd.OutOrStdout(), res)
	}
	return writeReport(matchOut, reportFormat(matchFormat, matchOut), lines, res)
}

func reportFormat(format, out string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

func writeReport(path, format string, lines []model.BomLine, res model.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch format {
	case "csv":
		err = report.WriteResultsCSV(f, res.Rows)
	case "xlsx":
		err = report.WriteResultsXLSX(f, res.Rows)
	case "budget":
		err = report.WriteBudgetXLSX(f, lines, res.Rows)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func printSummary(w io.Writer, res model.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTATUS\tBOM PART\tFOUND\tSUPPLIER\tPRICE\tSIM %\tALTS")
	for i, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.1f\t%d\n",
			i+1, r.Status, r.BomPartName, orDash(r.FoundPartName), orDash(r.SupplierName),
			orDash(r.Price), r.SimilarityPercent, len(res.Suggestions[i]))
	}
	return tw.Flush()
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}
