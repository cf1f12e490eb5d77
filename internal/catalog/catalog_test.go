package catalog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []model.Product {
	expiry := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	mouse := model.Product{
		SKU:         "ELEC-001",
		Name:        "Ultra Wireless Mouse",
		Category:    "Electronics",
		Price:       decimal.RequireFromString("45.99"),
		OfferPrice:  decimal.NewNullDecimal(decimal.RequireFromString("39.99")),
		Cost:        decimal.RequireFromString("20"),
		Stock:       15,
		MinStock:    5,
		BatchNumber: "BT-2024-X1",
		ExpiryDate:  &expiry,
		ImageURL:    "https://picsum.photos/seed/mouse/200",
	}
	mouse.ID = uuid.New()
	ssd := model.Product{
		SKU:      "STORAGE-001",
		Name:     "1TB External SSD",
		Category: "Storage",
		Price:    decimal.RequireFromString("89.99"),
		Cost:     decimal.RequireFromString("45"),
		Stock:    2,
		MinStock: 5,
	}
	ssd.ID = uuid.New()
	return []model.Product{mouse, ssd}
}

func TestResolve(t *testing.T) {
	products := sampleCatalog()

	p, err := Resolve("ELEC-001", products)
	require.NoError(t, err)
	assert.Equal(t, "Ultra Wireless Mouse", p.Name)

	_, err = Resolve("elec-001", products)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Resolve("", products)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleCatalog()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SKU,Name,Category,Price,Offer Price,Cost,Stock,Min Stock,Batch Number,Expiry Date", lines[0])
	assert.Equal(t, "ELEC-001,Ultra Wireless Mouse,Electronics,45.99,39.99,20,15,5,BT-2024-X1,2025-12-31", lines[1])
	assert.Equal(t, "STORAGE-001,1TB External SSD,Storage,89.99,0,45,2,5,,", lines[2])
}

func TestImportRoundTripUpdatesInPlace(t *testing.T) {
	catalog := sampleCatalog()
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, catalog))

	plan, err := Import(&buf, catalog)
	require.NoError(t, err)
	assert.Empty(t, plan.Create)
	require.Len(t, plan.Update, 2)
	assert.Equal(t, catalog[0].ID, plan.Update[0].ID)
	assert.Equal(t, catalog[0].ImageURL, plan.Update[0].ImageURL)
	assert.False(t, plan.Update[1].OfferPrice.Valid)
	assert.Equal(t, Report{Processed: 2, Updated: 2}, plan.Report)
}

func TestImportDefaultsAndSkips(t *testing.T) {
	in := strings.Join([]string{
		" sku , NAME ,Price,stock,Min Stock,Expiry Date",
		"NEW-1,,12.50,abc,,not-a-date",
		",Nameless,1,1,1,",
		"",
		"NEW-2,Cable,3,7,2,2026-01-15",
		"NEW-1,Renamed,13,4,0,",
	}, "\n")

	plan, err := Import(strings.NewReader(in), sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 4, Created: 2, Skipped: 1}, plan.Report)
	require.Len(t, plan.Create, 2)

	first := plan.Create[0]
	assert.Equal(t, "NEW-1", first.SKU)
	assert.Equal(t, "Renamed", first.Name)
	assert.Equal(t, "General", first.Category)
	assert.True(t, decimal.RequireFromString("13").Equal(first.Price))
	assert.Equal(t, 4, first.Stock)
	assert.Equal(t, 5, first.MinStock)
	assert.Nil(t, first.ExpiryDate)

	second := plan.Create[1]
	assert.Equal(t, "Cable", second.Name)
	assert.Equal(t, 2, second.MinStock)
	require.NotNil(t, second.ExpiryDate)
	assert.Equal(t, "2026-01-15", second.ExpiryDate.Format(model.DateLayout))
}

func TestImportUnparsableNumbers(t *testing.T) {
	in := "SKU,Price,Cost,Stock,Offer Price\nX-1,abc,,seven,-2\n"
	plan, err := Import(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, plan.Create, 1)

	p := plan.Create[0]
	assert.Equal(t, "Imported Product", p.Name)
	assert.True(t, p.Price.IsZero())
	assert.True(t, p.Cost.IsZero())
	assert.Equal(t, 0, p.Stock)
	assert.False(t, p.OfferPrice.Valid)
}

func TestImportEmpty(t *testing.T) {
	_, err := Import(strings.NewReader("SKU,Name\n\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyImport)
}
