package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ayaat-pos/internal/model"

	"github.com/shopspring/decimal"
)

// Header is the column order written by Export.
var Header = []string{"SKU", "Name", "Category", "Price", "Offer Price", "Cost", "Stock", "Min Stock", "Batch Number", "Expiry Date"}

const (
	defaultName     = "Imported Product"
	defaultCategory = "General"
	defaultMinStock = 5
)

var ErrEmptyImport = errors.New("import file has no data rows")

// Export writes one row per product under Header.
func Export(w io.Writer, products []model.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, p := range products {
		offer := decimal.Zero
		if p.OfferPrice.Valid {
			offer = p.OfferPrice.Decimal
		}
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format(model.DateLayout)
		}
		row := []string{
			p.SKU,
			p.Name,
			p.Category,
			p.Price.String(),
			offer.String(),
			p.Cost.String(),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.MinStock),
			p.BatchNumber,
			expiry,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report counts what an import did.
type Report struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

// Plan is the result of merging a CSV file into an existing catalog.
// Update entries keep the id of the product they replace.
type Plan struct {
	Create []model.Product
	Update []model.Product
	Report Report
}

// Import reads a CSV file keyed by its header row and plans the merge into
// catalog. Header names are matched case-insensitively. Rows without a SKU
// are skipped. A SKU already in catalog, or seen earlier in the file, is
// updated in place.
func Import(r io.Reader, catalog []model.Product) (*Plan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	records = dropBlank(records)
	if len(records) < 2 {
		return nil, ErrEmptyImport
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	existing := make(map[string]*model.Product, len(catalog))
	for i := range catalog {
		existing[catalog[i].SKU] = &catalog[i]
	}

	plan := &Plan{}
	updates := map[string]int{}
	creates := map[string]int{}

	for _, rec := range records[1:] {
		plan.Report.Processed++
		row := func(name string) string {
			if i, ok := cols[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		sku := row("sku")
		if sku == "" {
			plan.Report.Skipped++
			continue
		}

		switch {
		case creates[sku] > 0:
			p := &plan.Create[creates[sku]-1]
			applyRow(p, row)
		case updates[sku] > 0:
			p := &plan.Update[updates[sku]-1]
			applyRow(p, row)
		case existing[sku] != nil:
			p := *existing[sku]
			applyRow(&p, row)
			plan.Update = append(plan.Update, p)
			updates[sku] = len(plan.Update)
			plan.Report.Updated++
		default:
			p := model.Product{SKU: sku}
			applyRow(&p, row)
			plan.Create = append(plan.Create, p)
			creates[sku] = len(plan.Create)
			plan.Report.Created++
		}
	}
	return plan, nil
}

func applyRow(p *model.Product, row func(string) string) {
	p.Name = orDefault(row("name"), defaultName)
	p.Category = orDefault(row("category"), defaultCategory)
	p.Price = parseDecimal(row("price"))
	p.Cost = parseDecimal(row("cost"))
	p.Stock = parseInt(row("stock"))
	p.MinStock = parseInt(row("min stock"))
	if p.MinStock == 0 {
		p.MinStock = defaultMinStock
	}
	p.BatchNumber = row("batch number")

	p.OfferPrice = decimal.NullDecimal{}
	if offer := parseDecimal(row("offer price")); offer.IsPositive() {
		p.OfferPrice = decimal.NewNullDecimal(offer)
	}

	p.ExpiryDate = nil
	if t, err := time.Parse(model.DateLayout, row("expiry date")); err == nil {
		p.ExpiryDate = &t
	}
}

func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(strings.Join(rec, "")) != "" {
			out = append(out, rec)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseInt accepts a leading integer ("12", "12.5", "7 units").
func parseInt(s string) int {
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
