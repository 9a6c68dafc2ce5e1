// Package importer loads catalog spreadsheets exported as CSV.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	categorysvc "storefront/internal/service/category"
)

// Kind names the sheet layout detected from the header row.
type Kind string

const (
	KindProducts  Kind = "products"
	KindMaterials Kind = "materials"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type MaterialWriter interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Material, error)
	Create(ctx context.Context, m domain.Material) (*domain.Material, error)
	Update(ctx context.Context, m domain.Material) (*domain.Material, error)
}

// DetectKind peeks at the header row. A "slot" column marks a materials sheet.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(r).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	idx := headerIndex(headers)
	if _, ok := idx["slot"]; ok {
		return KindMaterials, nil
	}
	_, hasName := idx["name"]
	_, hasPrice := idx["price"]
	if hasName && hasPrice {
		return KindProducts, nil
	}
	return "", errors.New("unrecognised sheet: expected name and price columns")
}

// CSVImporter reads product or material sheets and writes them to the catalog.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	materials  MaterialWriter

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, materials MaterialWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		materials:   materials,
		categoryIDs: make(map[string]string),
	}
}

type productRow struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Variants    []string
	Stock       int
	Active      bool
	Images      []string
}

// Run imports every row and returns the number of records written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["slot"]; ok {
		return i.runMaterials(ctx, index)
	}
	return i.runProducts(ctx, index)
}

func (i *CSVImporter) runProducts(ctx context.Context, index map[string]int) (int, error) {
	if i.products == nil {
		return 0, errors.New("products sheet given but no product writer configured")
	}
	var (
		current  *productRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		name := pick(record, index, "name")
		if name == "" {
			// Continuation rows carry extra images and variants.
			if current != nil {
				current.Images = appendNonEmpty(current.Images, pick(record, index, "image"))
				current.Variants = append(current.Variants, splitList(pick(record, index, "variants"))...)
			}
			continue
		}

		if current != nil {
			if err := i.saveProduct(ctx, current); err != nil {
				return imported, err
			}
			imported++
		}
		current, err = parseProductRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if current != nil {
		if err := i.saveProduct(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func parseProductRow(record []string, index map[string]int) (*productRow, error) {
	row := &productRow{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Variants:    splitList(pick(record, index, "variants")),
		Active:      true,
		Images:      appendNonEmpty(nil, pick(record, index, "image")),
	}
	if row.ID != "" {
		if _, err := uuid.Parse(row.ID); err != nil {
			return nil, fmt.Errorf("invalid id %q for %q", row.ID, row.Name)
		}
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("invalid price for %q", row.Name)
	}
	row.Price = price
	if s := pick(record, index, "stock"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid stock %q for %q", s, row.Name)
		}
		row.Stock = n
	}
	if s := pick(record, index, "active"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid active flag %q for %q", s, row.Name)
		}
		row.Active = b
	}
	return row, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, row *productRow) error {
	categoryID, err := i.categoryID(ctx, row.Category)
	if err != nil {
		return err
	}
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}
	p := domain.Product{
		ID:          id,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		CategoryID:  categoryID,
		Images:      row.Images,
		Variants:    row.Variants,
		Stock:       row.Stock,
		Active:      row.Active,
	}
	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

// categoryID upserts the named category once per run and returns its id.
func (i *CSVImporter) categoryID(ctx context.Context, name string) (string, error) {
	slug := categorysvc.Slugify(name)
	if slug == "" {
		return "", nil
	}
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	if i.categories == nil {
		return "", fmt.Errorf("category %q given but no category writer configured", name)
	}
	c, err := i.categories.Upsert(ctx, domain.Category{ID: uuid.NewString(), Name: name, Slug: slug})
	if err != nil {
		return "", fmt.Errorf("upsert category %q: %w", name, err)
	}
	i.categoryIDs[slug] = c.ID
	return c.ID, nil
}

// runMaterials updates materials matched by name and slot and creates the rest.
func (i *CSVImporter) runMaterials(ctx context.Context, index map[string]int) (int, error) {
	if i.materials == nil {
		return 0, errors.New("materials sheet given but no material writer configured")
	}
	existing, err := i.materials.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("list materials: %w", err)
	}
	byKey := make(map[string]domain.Material, len(existing))
	for _, m := range existing {
		byKey[materialKey(m.Name, m.Category)] = m
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		m, err := parseMaterialRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if m == nil {
			continue
		}

		if prev, ok := byKey[materialKey(m.Name, m.Category)]; ok {
			m.ID = prev.ID
			if _, err := i.materials.Update(ctx, *m); err != nil {
				return imported, fmt.Errorf("update material %q: %w", m.Name, err)
			}
		} else {
			m.ID = uuid.NewString()
			if _, err := i.materials.Create(ctx, *m); err != nil {
				return imported, fmt.Errorf("create material %q: %w", m.Name, err)
			}
		}
		byKey[materialKey(m.Name, m.Category)] = *m
		imported++
	}
	return imported, nil
}

func parseMaterialRow(record []string, index map[string]int) (*domain.Material, error) {
	name := pick(record, index, "name")
	if name == "" {
		return nil, nil
	}
	slot := domain.MaterialCategory(strings.ToLower(pick(record, index, "slot")))
	if !slot.Valid() {
		return nil, fmt.Errorf("unknown slot %q for %q", slot, name)
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("invalid price for %q", name)
	}
	m := &domain.Material{
		Name:     name,
		Price:    price,
		Category: slot,
		ImageURL: pick(record, index, "image"),
		Active:   true,
	}
	if s := pick(record, index, "active"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid active flag %q for %q", s, name)
		}
		m.Active = b
	}
	return m, nil
}

func materialKey(name string, c domain.MaterialCategory) string {
	return string(c) + "/" + strings.ToLower(strings.TrimSpace(name))
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func appendNonEmpty(list []string, v string) []string {
	if v == "" {
		return list
	}
	return append(list, v)
}
