package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"bom-sourcing/internal/catalog"
	"bom-sourcing/internal/fileio"
	"bom-sourcing/internal/utils"
)

type Store interface {
	Suppliers(ctx context.Context) ([]catalog.Supplier, error)
	SupplierByName(ctx context.Context, name string) (catalog.Supplier, error)
	AddSupplier(ctx context.Context, name, baseURL string, searchTemplate *string) (catalog.Supplier, error)
	UpdateSupplier(ctx context.Context, name string, u catalog.SupplierUpdate) (catalog.Supplier, error)
	Counts(ctx context.Context) (catalog.Counts, error)
	ImportParts(ctx context.Context, rows []catalog.PartRow) (catalog.ImportStats, error)
}

type Refresher interface {
	Trigger() bool
}

type Meta interface {
	LastUpdate() time.Time
}

type Handler struct {
	store   Store
	refresh Refresher
	meta    Meta
	log     zerolog.Logger
}

func New(s Store, refresh Refresher, meta Meta, logger zerolog.Logger) *Handler {
	return &Handler{store: s, refresh: refresh, meta: meta, log: logger}
}

// ListSuppliers handles GET /suppliers.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	sups, err := h.store.Suppliers(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list suppliers")
		utils.WriteError(w, http.StatusInternalServerError, "failed to list suppliers")
		return
	}
	if sups == nil {
		sups = []catalog.Supplier{}
	}
	_ = utils.WriteJSON(w, http.StatusOK, sups)
}

type addSupplierRequest struct {
	Name              string  `json:"name"`
	BaseURL           string  `json:"base_url"`
	SearchURLTemplate *string `json:"search_url_template"`
}

// AddSupplier handles POST /suppliers.
func (h *Handler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	var req addSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	sup, err := h.store.AddSupplier(r.Context(), req.Name, req.BaseURL, req.SearchURLTemplate)
	switch {
	case errors.Is(err, catalog.ErrInvalidSupplier):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrSupplierExists):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.log.Error().Err(err).Str("supplier", req.Name).Msg("add supplier")
		utils.WriteError(w, http.StatusInternalServerError, "failed to add supplier")
	default:
		h.log.Info().Str("supplier", sup.Name).Uint("id", sup.ID).Msg("supplier added")
		_ = utils.WriteJSON(w, http.StatusCreated, sup)
	}
}

// GetSupplier handles GET /suppliers/{name}.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sup, err := h.store.SupplierByName(r.Context(), name)
	switch {
	case errors.Is(err, catalog.ErrSupplierNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error().Err(err).Str("supplier", name).Msg("get supplier")
		utils.WriteError(w, http.StatusInternalServerError, "failed to read supplier")
	default:
		_ = utils.WriteJSON(w, http.StatusOK, sup)
	}
}

type updateSupplierRequest struct {
	IsActive          *bool   `json:"is_active"`
	RuleEnabled       *bool   `json:"rule_enabled"`
	SearchURLTemplate *string `json:"search_url_template"`
}

// UpdateSupplier handles PATCH /suppliers/{name}. Absent fields are kept.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req updateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	sup, err := h.store.UpdateSupplier(r.Context(), name, catalog.SupplierUpdate{
		Active:            req.IsActive,
		RuleEnabled:       req.RuleEnabled,
		SearchURLTemplate: req.SearchURLTemplate,
	})
	switch {
	case errors.Is(err, catalog.ErrSupplierNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error().Err(err).Str("supplier", name).Msg("update supplier")
		utils.WriteError(w, http.StatusInternalServerError, "failed to update supplier")
	default:
		h.log.Info().Str("supplier", sup.Name).Bool("active", sup.IsActive).Msg("supplier updated")
		_ = utils.WriteJSON(w, http.StatusOK, sup)
	}
}

// Import handles POST /catalog/import with a multipart "file".
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	recs, err := fileio.ReadRecords(file, header.Filename, utils.Atoi(r.FormValue("header_row"), 1))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to read file: "+err.Error())
		return
	}
	stats, err := h.store.ImportParts(r.Context(), catalog.RowsFromRecords(recs))
	if err != nil {
		h.log.Error().Err(err).Msg("import parts")
		utils.WriteError(w, http.StatusInternalServerError, "import failed")
		return
	}
	h.log.Info().Int("imported", stats.Imported).Int("skipped", stats.Skipped).Msg("catalog import")
	_ = utils.WriteJSON(w, http.StatusOK, stats)
}

type statusResponse struct {
	catalog.Counts
	LastUpdate *time.Time `json:"last_update"`
}

// Status handles GET /catalog/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Counts(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("catalog counts")
		utils.WriteError(w, http.StatusInternalServerError, "failed to read catalog")
		return
	}
	resp := statusResponse{Counts: c}
	if t := h.meta.LastUpdate(); !t.IsZero() {
		resp.LastUpdate = &t
	}
	_ = utils.WriteJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /catalog/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	started := h.refresh.Trigger()
	_ = utils.WriteJSON(w, http.StatusAccepted, map[string]bool{"started": started})
}
