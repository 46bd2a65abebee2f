// Package importer loads catalog CSV exports into the product tables. A
// product occupies one main row keyed by slug; rows with an empty slug are
// continuations carrying extra images or variants for the product above.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nutristore/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts products grouped by slug. It returns the
// number of products written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *domain.Product
		imported int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := i.save(ctx, current); err != nil {
			return err
		}
		imported++
		current = nil
		return nil
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		if slug := pick(record, index, "slug"); slug != "" {
			if err := flush(); err != nil {
				return imported, err
			}
			p := parseProduct(record, index)
			current = &p
			continue
		}

		// Continuation rows attach to the product above them.
		if current == nil {
			continue
		}
		if img := pick(record, index, "image.url"); img != "" {
			current.Images = append(current.Images, img)
		}
		if v, ok := parseVariant(record, index); ok {
			current.Variants = append(current.Variants, v)
		}
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.Slug == "" || p.Name == "" || p.PriceCents <= 0 {
		return fmt.Errorf("invalid product row (missing required fields) for slug %q", p.Slug)
	}
	if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Slug, err)
	}
	return nil
}

func parseProduct(record []string, index map[string]int) domain.Product {
	p := domain.Product{
		Slug:               pick(record, index, "slug"),
		Name:               pick(record, index, "name"),
		Description:        pick(record, index, "description"),
		Brand:              pick(record, index, "brand"),
		Category:           pick(record, index, "category"),
		PriceCents:         pickInt64(record, index, "price_cents"),
		OriginalPriceCents: pickInt64(record, index, "original_price_cents"),
		Currency:           pick(record, index, "currency"),
		Rating:             pickFloat(record, index, "rating"),
		ReviewCount:        int(pickInt64(record, index, "review_count")),
		InStock:            pickBool(record, index, "in_stock"),
		Featured:           pickBool(record, index, "featured"),
		BestSeller:         pickBool(record, index, "best_seller"),
	}
	if p.Currency == "" {
		p.Currency = "INR"
	}
	if tags := pick(record, index, "tags"); tags != "" {
		for _, tag := range strings.Split(tags, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	}
	if qty, ok := pickIntPtr(record, index, "stock_quantity"); ok {
		p.StockQuantity = qty
	}
	if img := pick(record, index, "image.url"); img != "" {
		p.Images = []string{img}
	}
	if v, ok := parseVariant(record, index); ok {
		p.Variants = []domain.Variant{v}
	}
	return p
}

func parseVariant(record []string, index map[string]int) (domain.Variant, bool) {
	name := pick(record, index, "variant.name")
	if name == "" {
		return domain.Variant{}, false
	}
	v := domain.Variant{
		Name:       name,
		PriceCents: pickInt64(record, index, "variant.price_cents"),
		InStock:    pickBool(record, index, "variant.in_stock"),
	}
	if qty, ok := pickIntPtr(record, index, "variant.stock_quantity"); ok {
		v.StockQuantity = qty
	}
	return v, true
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
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

func pickInt64(record []string, index map[string]int, key string) int64 {
	n, _ := strconv.ParseInt(pick(record, index, key), 10, 64)
	return n
}

func pickFloat(record []string, index map[string]int, key string) float64 {
	f, _ := strconv.ParseFloat(pick(record, index, key), 64)
	return f
}

func pickBool(record []string, index map[string]int, key string) bool {
	return strings.EqualFold(pick(record, index, key), "true")
}

func pickIntPtr(record []string, index map[string]int, key string) (*int, bool) {
	raw := pick(record, index, key)
	if raw == "" {
		return nil, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}
