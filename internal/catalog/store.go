package catalog

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bom-sourcing/internal/matching/model"
)

var (
	ErrSupplierExists   = errors.New("supplier already exists")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrInvalidSupplier  = errors.New("supplier name is required")
)

// Store is the catalog persistence: suppliers, their search rules and parts.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// Open opens (creating if needed) the sqlite catalog at path and migrates it.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	gl := gormlogger.New(
		stdlog.New(logger.With().Str("component", "gorm").Logger(), "", 0),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Supplier{}, &SupplierRule{}, &Part{}); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Snapshot reads every part (of the scoped suppliers, when scope is set) in
// one pass, joined with its supplier and first search rule. Parts come back
// in id order, which is the order ties are resolved in.
func (s *Store) Snapshot(ctx context.Context, scope []string) ([]model.Candidate, error) {
	q := s.db.WithContext(ctx).Preload("Supplier").Order("parts.id")
	if len(scope) > 0 {
		var ids []uint
		if err := s.db.WithContext(ctx).Model(&Supplier{}).Where("name IN ?", scope).Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("resolve supplier scope: %w", err)
		}
		if len(ids) == 0 {
			return nil, nil
		}
		q = q.Where("supplier_id IN ?", ids)
	}

	var parts []Part
	if err := q.Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}

	var rules []SupplierRule
	if err := s.db.WithContext(ctx).Order("id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("load supplier rules: %w", err)
	}
	ruleBySupplier := make(map[uint]*model.SearchRule, len(rules))
	for _, r := range rules {
		if _, ok := ruleBySupplier[r.SupplierID]; ok {
			continue
		}
		ruleBySupplier[r.SupplierID] = &model.SearchRule{SearchURLTemplate: r.SearchURLTemplate}
	}

	out := make([]model.Candidate, 0, len(parts))
	for _, p := range parts {
		out = append(out, toCandidate(p, ruleBySupplier[p.SupplierID]))
	}
	return out, nil
}

func toCandidate(p Part, rule *model.SearchRule) model.Candidate {
	return model.Candidate{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		PartNumber:   p.PartNumber,
		Name:         p.Name,
		Description:  p.Description,
		Package:      p.Package,
		Voltage:      p.Voltage,
		OtherSpecs:   p.OtherSpecs,
		Stock:        p.Stock,
		PriceTiers:   []byte(p.PriceTiers),
		DatasheetURL: p.DatasheetURL,
		PurchaseURL:  p.PurchaseURL,
		ImageURL:     p.ImageURL,
		Supplier: model.Supplier{
			ID:      p.Supplier.ID,
			Name:    p.Supplier.Name,
			BaseURL: p.Supplier.BaseURL,
		},
		Rule: rule,
	}
}

// Suppliers lists suppliers with their rules, ordered by name.
func (s *Store) Suppliers(ctx context.Context) ([]Supplier, error) {
	var out []Supplier
	err := s.db.WithContext(ctx).Preload("Rules").Order("name").Find(&out).Error
	return out, err
}

func (s *Store) SupplierByName(ctx context.Context, name string) (Supplier, error) {
	return supplierByName(s.db.WithContext(ctx), name)
}

func supplierByName(db *gorm.DB, name string) (Supplier, error) {
	var sup Supplier
	err := db.Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("name = ?", strings.TrimSpace(name)).First(&sup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sup, ErrSupplierNotFound
	}
	return sup, err
}

// SupplierUpdate holds the supplier settings to change; nil fields are kept.
// An empty SearchURLTemplate clears the template.
type SupplierUpdate struct {
	Active            *bool
	RuleEnabled       *bool
	SearchURLTemplate *string
}

// UpdateSupplier applies u to the named supplier and its first search rule,
// creating the rule when the supplier has none. Matching reads the template
// regardless of RuleEnabled; the flags only show up in Counts.
func (s *Store) UpdateSupplier(ctx context.Context, name string, u SupplierUpdate) (Supplier, error) {
	var out Supplier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sup, err := supplierByName(tx, name)
		if err != nil {
			return err
		}
		if u.Active != nil && *u.Active != sup.IsActive {
			if err := tx.Model(&sup).Update("is_active", *u.Active).Error; err != nil {
				return err
			}
			sup.IsActive = *u.Active
		}

		if len(sup.Rules) == 0 {
			rule := SupplierRule{SupplierID: sup.ID, IsEnabled: true}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
			sup.Rules = []SupplierRule{rule}
		}
		rule := sup.Rules[0]
		if u.RuleEnabled != nil {
			rule.IsEnabled = *u.RuleEnabled
		}
		if u.SearchURLTemplate != nil {
			rule.SearchURLTemplate = nil
			if t := strings.TrimSpace(*u.SearchURLTemplate); t != "" {
				rule.SearchURLTemplate = &t
			}
		}
		// Save on an existing row writes zero values too, so false sticks
		if err := tx.Save(&rule).Error; err != nil {
			return err
		}
		sup.Rules[0] = rule
		out = sup
		return nil
	})
	if err != nil {
		return Supplier{}, fmt.Errorf("update supplier %q: %w", name, err)
	}
	return out, nil
}

// AddSupplier creates a supplier together with its search rule.
func (s *Store) AddSupplier(ctx context.Context, name, baseURL string, searchTemplate *string) (Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Supplier{}, ErrInvalidSupplier
	}
	if searchTemplate != nil {
		t := strings.TrimSpace(*searchTemplate)
		if t == "" {
			searchTemplate = nil
		} else {
			searchTemplate = &t
		}
	}

	sup := Supplier{Name: name, BaseURL: strings.TrimSpace(baseURL), IsActive: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Supplier{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSupplierExists
		}
		if err := tx.Create(&sup).Error; err != nil {
			return err
		}
		rule := SupplierRule{SupplierID: sup.ID, SearchURLTemplate: searchTemplate, IsEnabled: true}
		if err := tx.Create(&rule).Error; err != nil {
			return err
		}
		sup.Rules = []SupplierRule{rule}
		return nil
	})
	if err != nil {
		return Supplier{}, fmt.Errorf("add supplier %q: %w", name, err)
	}
	return sup, nil
}

type Counts struct {
	Suppliers       int64 `json:"suppliers"`
	ActiveSuppliers int64 `json:"active_suppliers"`
	EnabledRules    int64 `json:"enabled_rules"`
	Parts           int64 `json:"parts"`
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.WithContext(ctx).Model(&Supplier{}).Count(&c.Suppliers).Error; err != nil {
		return c, err
	}
	if err := s.db.WithContext(ctx).Model(&Supplier{}).Where("is_active = ?", true).Count(&c.ActiveSuppliers).Error; err != nil {
		return c, err
	}
	if err := s.db.WithContext(ctx).Model(&SupplierRule{}).Where("is_enabled = ?", true).Count(&c.EnabledRules).Error; err != nil {
		return c, err
	}
	if err := s.db.WithContext(ctx).Model(&Part{}).Count(&c.Parts).Error; err != nil {
		return c, err
	}
	return c, nil
}
