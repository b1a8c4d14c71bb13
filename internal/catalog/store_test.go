package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection = one in-memory database
	s := New(db)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddSupplier(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	tmpl := " https://tronic.lk/?s={query}&post_type=product "

	sup, err := s.AddSupplier(ctx, " Tronic.lk ", "https://tronic.lk", &tmpl)
	require.NoError(t, err)
	assert.NotZero(t, sup.ID)
	assert.Equal(t, "Tronic.lk", sup.Name)
	require.Len(t, sup.Rules, 1)
	assert.Equal(t, "https://tronic.lk/?s={query}&post_type=product", *sup.Rules[0].SearchURLTemplate)

	_, err = s.AddSupplier(ctx, "Tronic.lk", "", nil)
	assert.ErrorIs(t, err, ErrSupplierExists)

	_, err = s.AddSupplier(ctx, "  ", "", nil)
	assert.ErrorIs(t, err, ErrInvalidSupplier)

	got, err := s.SupplierByName(ctx, "Tronic.lk")
	require.NoError(t, err)
	assert.Equal(t, sup.ID, got.ID)

	_, err = s.SupplierByName(ctx, "Digikey")
	assert.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestSeedImportAndSnapshot(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rows := []PartRow{
		{Supplier: "LCSC", PartNumber: "C17414", Name: "10K Ohm Resistor 0805", Description: "thick film", Stock: "In Stock", Price: "$0.01"},
		{Supplier: "Tronic.lk", Name: "LM7805", Description: "regulator", Stock: "Out of stock", Price: "Rs 60.00", PurchaseURL: "https://tronic.lk/lm7805"},
		{Supplier: "Unknown", Name: "ghost"},
		{Supplier: "Mouser", PartNumber: "NONAME"},
	}
	seeded, stats, err := s.SeedIfEmpty(ctx, rows)
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, ImportStats{Imported: 3, Skipped: 1}, stats)

	seeded, _, err = s.SeedIfEmpty(ctx, rows)
	require.NoError(t, err)
	assert.False(t, seeded)

	c, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Suppliers: 3, ActiveSuppliers: 3, EnabledRules: 3, Parts: 3}, c)

	all, err := s.Snapshot(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "LCSC", all[0].Supplier.Name)
	assert.Equal(t, "https://www.lcsc.com", all[0].Supplier.BaseURL)
	assert.JSONEq(t, `[{"qty":1,"price":"$0.01"}]`, string(all[0].PriceTiers))
	require.NotNil(t, all[0].Rule)
	assert.Nil(t, all[0].Rule.SearchURLTemplate)
	assert.Equal(t, "LM7805", *all[1].Name)
	assert.Nil(t, all[2].Name)
	assert.True(t, all[0].ID < all[1].ID && all[1].ID < all[2].ID)

	scoped, err := s.Snapshot(ctx, []string{"Tronic.lk"})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "https://tronic.lk/lm7805", scoped[0].PurchaseURL)

	none, err := s.Snapshot(ctx, []string{"Digikey"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSuppliersOrderedByName(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for _, n := range []string{"Mouser", "LCSC", "Tronic.lk"} {
		_, err := s.AddSupplier(ctx, n, "", nil)
		require.NoError(t, err)
	}
	sups, err := s.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, sups, 3)
	assert.Equal(t, "LCSC", sups[0].Name)
	assert.Equal(t, "Mouser", sups[1].Name)
	assert.Equal(t, "Tronic.lk", sups[2].Name)
	assert.Len(t, sups[0].Rules, 1)
}

func TestUpdateSupplier(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	tmpl := "https://www.lcsc.com/search?q={query}"
	_, err := s.AddSupplier(ctx, "LCSC", "https://www.lcsc.com", &tmpl)
	require.NoError(t, err)
	_, err = s.AddSupplier(ctx, "Mouser", "https://www.mouser.com", nil)
	require.NoError(t, err)
	_, err = s.ImportParts(ctx, []PartRow{{Supplier: "LCSC", Name: "NE555", Price: "$0.10"}})
	require.NoError(t, err)

	off := false
	sup, err := s.UpdateSupplier(ctx, "LCSC", SupplierUpdate{Active: &off, RuleEnabled: &off})
	require.NoError(t, err)
	assert.False(t, sup.IsActive)
	require.Len(t, sup.Rules, 1)
	assert.False(t, sup.Rules[0].IsEnabled)
	assert.Equal(t, tmpl, *sup.Rules[0].SearchURLTemplate)

	got, err := s.SupplierByName(ctx, "LCSC")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.Rules[0].IsEnabled)

	c, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Suppliers: 2, ActiveSuppliers: 1, EnabledRules: 1, Parts: 1}, c)

	// a disabled rule still provides the purchase-link template
	snap, err := s.Snapshot(ctx, []string{"LCSC"})
	require.NoError(t, err)
	require.Len(t, snap, 1)
	require.NotNil(t, snap[0].Rule)
	assert.Equal(t, tmpl, *snap[0].Rule.SearchURLTemplate)

	on, blank := true, "  "
	sup, err = s.UpdateSupplier(ctx, "LCSC", SupplierUpdate{RuleEnabled: &on, SearchURLTemplate: &blank})
	require.NoError(t, err)
	assert.False(t, sup.IsActive, "untouched field is kept")
	assert.True(t, sup.Rules[0].IsEnabled)
	assert.Nil(t, sup.Rules[0].SearchURLTemplate)

	_, err = s.UpdateSupplier(ctx, "Digikey", SupplierUpdate{Active: &on})
	assert.ErrorIs(t, err, ErrSupplierNotFound)
}

func TestUpdateSupplierWithoutRule(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.db.Create(&Supplier{Name: "Legacy", IsActive: true}).Error)

	off, tmpl := false, "https://legacy.example/?q={query}"
	sup, err := s.UpdateSupplier(ctx, "Legacy", SupplierUpdate{RuleEnabled: &off, SearchURLTemplate: &tmpl})
	require.NoError(t, err)
	require.Len(t, sup.Rules, 1)
	assert.False(t, sup.Rules[0].IsEnabled)

	got, err := s.SupplierByName(ctx, "Legacy")
	require.NoError(t, err)
	require.Len(t, got.Rules, 1)
	assert.False(t, got.Rules[0].IsEnabled)
	assert.Equal(t, tmpl, *got.Rules[0].SearchURLTemplate)
}
