package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bom-sourcing/internal/bom"
	"bom-sourcing/internal/fileio"
	"bom-sourcing/internal/matching/model"
	"bom-sourcing/internal/matching/service"
	"bom-sourcing/internal/metrics"
	"bom-sourcing/internal/middleware"
	"bom-sourcing/internal/report"
	"bom-sourcing/internal/utils"
)

const maxMultipartMemory = 32 << 20

// Snapshotter is the catalog read used by matching.
type Snapshotter interface {
	Snapshot(ctx context.Context, scope []string) ([]model.Candidate, error)
}

type Handler struct {
	catalog       Snapshotter
	engine        *service.Engine
	log           zerolog.Logger
	minSimilarity float64
	workers       int
}

func New(c Snapshotter, engine *service.Engine, logger zerolog.Logger, minSimilarity float64, workers int) *Handler {
	return &Handler{catalog: c, engine: engine, log: logger, minSimilarity: minSimilarity, workers: workers}
}

type matchResponse struct {
	Rows              []model.MatchResult        `json:"rows"`
	Suggestions       map[int][]model.Suggestion `json:"suggestions"`
	UniqueSuggestions []model.Suggestion         `json:"unique_suggestions"`
	Warnings          []string                   `json:"warnings"`
	Candidates        int                        `json:"candidates"`
	Opts              model.Options              `json:"opts"`
}

type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

type matchRun struct {
	lines    []model.BomLine
	result   model.Result
	warnings []string
}

// run parses the uploaded BOM and matches it against the catalog.
func (h *Handler) run(r *http.Request) (matchRun, error) {
	var out matchRun
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return out, badRequest{"bad multipart form: " + err.Error()}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return out, badRequest{"missing file: " + err.Error()}
	}
	defer file.Close()

	recs, err := fileio.ReadRecords(file, header.Filename, utils.Atoi(r.FormValue("header_row"), 1))
	if err != nil {
		return out, badRequest{"failed to read bom: " + err.Error()}
	}
	lines, warnings, err := bom.Parse(recs)
	if err != nil {
		return out, badRequest{err.Error()}
	}

	opt := model.Options{
		SupplierScope: utils.SplitValues(r.Form["suppliers"]),
		InStockOnly:   utils.ToBool(r.FormValue("in_stock_only"), false),
		MinSimilarity: utils.ToFloat(r.FormValue("min_similarity"), h.minSimilarity),
		Workers:       h.workers,
	}
	if opt.MinSimilarity < 0 || opt.MinSimilarity > 100 {
		return out, badRequest{fmt.Sprintf("min_similarity must be within 0..100, got %v", opt.MinSimilarity)}
	}

	pool, err := h.catalog.Snapshot(r.Context(), opt.SupplierScope)
	if err != nil {
		return out, fmt.Errorf("catalog snapshot: %w", err)
	}

	start := time.Now()
	res, err := h.engine.Run(r.Context(), lines, pool, opt)
	if err != nil {
		return out, err
	}
	metrics.RecordMatch(res, time.Since(start))

	if res.Candidates == 0 {
		warnings = append(warnings, "0 candidates available")
	}
	return matchRun{lines: lines, result: res, warnings: warnings}, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		utils.WriteError(w, http.StatusBadRequest, br.msg)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		h.log.Error().Err(err).Str("rid", middleware.GetRequestID(r)).Msg("match failed")
		utils.WriteError(w, http.StatusInternalServerError, "match failed")
	}
}

// Match handles POST /match.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	mr, err := h.run(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := matchResponse{
		Rows:              mr.result.Rows,
		Suggestions:       mr.result.Suggestions,
		UniqueSuggestions: report.UniqueSuggestions(mr.result.Suggestions),
		Warnings:          mr.warnings,
		Candidates:        mr.result.Candidates,
		Opts:              mr.result.Opts,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if err := utils.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error().Err(err).Msg("write json")
		return
	}

	h.log.Info().
		Str("rid", middleware.GetRequestID(r)).
		Int("lines", len(mr.lines)).
		Int("candidates", mr.result.Candidates).
		Int("suggested_lines", len(mr.result.Suggestions)).
		Dur("elapsed", time.Since(start)).
		Msg("match done")
}

// Export handles POST /match/export?format=csv|xlsx|budget.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" && format != "budget" {
		utils.WriteError(w, http.StatusBadRequest, "unknown format: "+format)
		return
	}

	mr, err := h.run(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var write func() error
	switch format {
	case "csv":
		setAttachment(w, "text/csv; charset=utf-8", "bom_results.csv")
		write = func() error { return report.WriteResultsCSV(w, mr.result.Rows) }
	case "xlsx":
		setAttachment(w, xlsxMime, "bom_results.xlsx")
		write = func() error { return report.WriteResultsXLSX(w, mr.result.Rows) }
	case "budget":
		setAttachment(w, xlsxMime, "bom_budget.xlsx")
		write = func() error { return report.WriteBudgetXLSX(w, mr.lines, mr.result.Rows) }
	}
	if err := write(); err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("export")
	}
}

// Template handles GET /template.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	setAttachment(w, "text/csv; charset=utf-8", "bom_template.csv")
	_, _ = w.Write([]byte(bom.Template))
}

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func setAttachment(w http.ResponseWriter, mime, name string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}
