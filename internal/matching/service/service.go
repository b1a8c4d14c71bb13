package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bom-sourcing/internal/matching/model"
)

const (
	nameWeight = 0.9
	specWeight = 0.1
)

// Scored is a candidate with its combined score for one BOM line.
type Scored struct {
	Candidate model.Candidate
	Total     float64
}

type Engine struct {
	log zerolog.Logger
}

func New(logger zerolog.Logger) *Engine {
	return &Engine{log: logger}
}

// Run matches every BOM line against pool independently. Rows are aligned
// with lines; Suggestions only holds lines that produced at least one.
// The pool is shared read-only between workers.
func (e *Engine) Run(ctx context.Context, lines []model.BomLine, pool []model.Candidate, opt model.Options) (model.Result, error) {
	start := time.Now()
	cands := FilterCandidates(pool, opt.SupplierScope, opt.InStockOnly)

	rows := make([]model.MatchResult, len(lines))
	sugg := make([][]model.Suggestion, len(lines))

	if opt.Workers <= 1 {
		for i := range lines {
			if err := ctx.Err(); err != nil {
				return model.Result{}, err
			}
			rows[i], sugg[i] = rankLine(lines[i], cands, opt.MinSimilarity)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opt.Workers)
		for i := range lines {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rows[i], sugg[i] = rankLine(lines[i], cands, opt.MinSimilarity)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return model.Result{}, err
		}
	}

	res := model.Result{
		Rows:        rows,
		Suggestions: make(map[int][]model.Suggestion),
		Candidates:  len(cands),
		Opts:        opt,
	}
	available := 0
	for i, s := range sugg {
		if len(s) > 0 {
			res.Suggestions[i] = s
		}
		if rows[i].Status == model.StatusAvailable {
			available++
		}
	}

	e.log.Debug().
		Int("lines", len(lines)).
		Int("pool", len(pool)).
		Int("candidates", len(cands)).
		Int("available", available).
		Int("workers", opt.Workers).
		Dur("elapsed", time.Since(start)).
		Msg("match run")
	return res, nil
}

// rankLine scores one BOM line against the filtered candidates.
func rankLine(bom model.BomLine, cands []model.Candidate, minSimilarity float64) (model.MatchResult, []model.Suggestion) {
	res := model.MatchResult{
		Status:      model.StatusUnavailable,
		BomPartName: bom.PartName,
	}
	if Normalize(bom.PartName) == "" {
		return res, nil
	}

	ranked := Rank(bom, cands)
	if len(ranked) == 0 {
		return res, nil
	}

	best := ranked[0]
	res.SimilarityPercent = round1(best.Total)
	if best.Total >= minSimilarity {
		c := best.Candidate
		name := c.NameOrEmpty()
		res.Status = model.StatusAvailable
		res.FoundPartName = &name
		res.SupplierName = strPtr(c.Supplier.Name)
		res.Price = ExtractPrice(c.PriceTiers)
		res.Stock = optStr(c.Stock)
		res.ImageURL = optStr(c.ImageURL)
		res.DatasheetURL = optStr(c.DatasheetURL)
		res.PurchaseLink = ResolveLink(c, &name)
	}

	return res, BuildSuggestions(ranked, SuggestionScanLimit, SuggestionLimit)
}

// Rank scores candidates for bom and returns them by total descending.
// Candidates with zero name similarity are dropped; ties keep input order.
func Rank(bom model.BomLine, cands []model.Candidate) []Scored {
	desc := Normalize(bom.Description)
	out := make([]Scored, 0, len(cands))
	for _, c := range cands {
		nameScore := NameSimilarity(bom.PartName, c.NameOrEmpty())
		if nameScore == 0 {
			continue
		}
		specScore := SpecSimilarity(desc, Normalize(c.Description))
		total := clamp(nameWeight*nameScore+specWeight*specScore, 0, 100)
		out = append(out, Scored{Candidate: c, Total: total})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
