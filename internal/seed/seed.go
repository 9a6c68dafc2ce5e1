// Package seed loads demo catalog data for local development.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

type categorySeed struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type productSeed struct {
	Key         string          `yaml:"key"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	Category    string          `yaml:"category"`
	Images      []string        `yaml:"images"`
	Variants    []string        `yaml:"variants"`
	Stock       int             `yaml:"stock"`
}

type materialSeed struct {
	Key      string          `yaml:"key"`
	Name     string          `yaml:"name"`
	Category string          `yaml:"category"`
	Price    decimal.Decimal `yaml:"price"`
}

type ruleSeed struct {
	Container     string          `yaml:"container"`
	Wick          string          `yaml:"wick"`
	Wax           string          `yaml:"wax"`
	PriceModifier decimal.Decimal `yaml:"priceModifier"`
	Compatible    *bool           `yaml:"compatible"`
	Description   string          `yaml:"description"`
}

type couponSeed struct {
	Code     string          `yaml:"code"`
	Discount decimal.Decimal `yaml:"discount"`
	Active   *bool           `yaml:"active"`
}

// Catalog is the parsed seed file.
type Catalog struct {
	Categories []categorySeed                                `yaml:"categories"`
	Products   []productSeed                                 `yaml:"products"`
	Materials  []materialSeed                                `yaml:"materials"`
	Rules      []ruleSeed                                    `yaml:"rules"`
	Coupons    []couponSeed                                  `yaml:"coupons"`
	Content    map[string]map[string]map[string]interface{} `yaml:"content"`
}

// Parse decodes a seed file and checks its cross references.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	slugs := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		slugs[cat.Slug] = true
	}
	for _, p := range c.Products {
		if p.Category != "" && !slugs[p.Category] {
			return nil, fmt.Errorf("product %s: unknown category %q", p.Key, p.Category)
		}
	}

	kinds := make(map[string]domain.MaterialCategory, len(c.Materials))
	for _, m := range c.Materials {
		cat := domain.MaterialCategory(strings.ToLower(m.Category))
		if !cat.Valid() {
			return nil, fmt.Errorf("material %s: unknown category %q", m.Key, m.Category)
		}
		kinds[m.Key] = cat
	}
	for i, r := range c.Rules {
		for _, ref := range []struct {
			key  string
			want domain.MaterialCategory
		}{{r.Container, domain.MaterialContainer}, {r.Wick, domain.MaterialWick}, {r.Wax, domain.MaterialWax}} {
			if kinds[ref.key] != ref.want {
				return nil, fmt.Errorf("rule %d: %q is not a %s", i, ref.key, ref.want)
			}
		}
	}
	for collection := range c.Content {
		if !domain.IsContentCollection(collection) {
			return nil, fmt.Errorf("unknown content collection %q", collection)
		}
	}
	return &c, nil
}

// stableID derives a fixed id from a seed key so reseeding updates rows in place.
func stableID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront:"+kind+":"+key)).String()
}

// Apply inserts the embedded demo data. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	c, err := Parse(catalogYAML)
	if err != nil {
		return err
	}

	categoryIDs := make(map[string]string, len(c.Categories))
	for _, cat := range c.Categories {
		id, err := upsertCategory(ctx, pool, cat)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", cat.Slug, err)
		}
		categoryIDs[cat.Slug] = id
	}
	for _, p := range c.Products {
		if err := upsertProduct(ctx, pool, p, categoryIDs[p.Category]); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}
	for _, m := range c.Materials {
		if err := upsertMaterial(ctx, pool, m); err != nil {
			return fmt.Errorf("upsert material %s: %w", m.Key, err)
		}
	}
	for _, r := range c.Rules {
		if err := upsertRule(ctx, pool, r); err != nil {
			return fmt.Errorf("upsert rule %s/%s/%s: %w", r.Container, r.Wick, r.Wax, err)
		}
	}
	for _, cp := range c.Coupons {
		if err := upsertCoupon(ctx, pool, cp); err != nil {
			return fmt.Errorf("upsert coupon %s: %w", cp.Code, err)
		}
	}
	for collection, docs := range c.Content {
		for id, data := range docs {
			if err := upsertContent(ctx, pool, collection, id, data); err != nil {
				return fmt.Errorf("upsert content %s/%s: %w", collection, id, err)
			}
		}
	}
	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (string, error) {
	const q = `
INSERT INTO categories (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Name, c.Slug).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed, categoryID string) error {
	const q = `
INSERT INTO products (id, name, description, price, category_id, images, variants, stock, active)
VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8, true)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category_id = EXCLUDED.category_id,
    images = EXCLUDED.images,
    variants = EXCLUDED.variants,
    stock = EXCLUDED.stock
`
	images, variants := p.Images, p.Variants
	if images == nil {
		images = []string{}
	}
	if variants == nil {
		variants = []string{}
	}
	_, err := pool.Exec(ctx, q, stableID("product", p.Key), p.Name, p.Description, p.Price, categoryID, images, variants, p.Stock)
	return err
}

func upsertMaterial(ctx context.Context, pool *pgxpool.Pool, m materialSeed) error {
	const q = `
INSERT INTO candle_materials (id, name, price, category, active)
VALUES ($1, $2, $3, $4, true)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    price = EXCLUDED.price,
    category = EXCLUDED.category
`
	_, err := pool.Exec(ctx, q, stableID("material", m.Key), m.Name, m.Price, strings.ToLower(m.Category))
	return err
}

func upsertRule(ctx context.Context, pool *pgxpool.Pool, r ruleSeed) error {
	const q = `
INSERT INTO candle_compatibility_rules (container_id, wick_id, wax_id, price_modifier, is_compatible, description)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
ON CONFLICT ON CONSTRAINT uq_candle_rule_triple DO UPDATE
SET price_modifier = EXCLUDED.price_modifier,
    is_compatible = EXCLUDED.is_compatible,
    description = EXCLUDED.description
`
	compatible := r.Compatible == nil || *r.Compatible
	_, err := pool.Exec(ctx, q,
		stableID("material", r.Container), stableID("material", r.Wick), stableID("material", r.Wax),
		r.PriceModifier, compatible, r.Description)
	return err
}

func upsertCoupon(ctx context.Context, pool *pgxpool.Pool, c couponSeed) error {
	const q = `
INSERT INTO coupons (code, discount, is_active)
VALUES ($1, $2, $3)
ON CONFLICT (code) DO UPDATE
SET discount = EXCLUDED.discount,
    is_active = EXCLUDED.is_active
`
	active := c.Active == nil || *c.Active
	_, err := pool.Exec(ctx, q, strings.ToUpper(c.Code), c.Discount, active)
	return err
}

func upsertContent(ctx context.Context, pool *pgxpool.Pool, collection, id string, data map[string]interface{}) error {
	const q = `
INSERT INTO content_documents (collection, id, data)
VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE
SET data = EXCLUDED.data, updated_at = now()
`
	_, err := pool.Exec(ctx, q, collection, id, data)
	return err
}
