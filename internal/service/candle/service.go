// Package candle runs the custom candle builder: the material and rule
// catalog, quotes, and turning a finished build into a cart line.
package candle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	materialrepo "storefront/internal/repository/material"
	rulerepo "storefront/internal/repository/rule"
	"storefront/internal/service/cart"
)

// ErrIncompatible blocks adding a build whose rule marks it unsellable. The
// wrapped message carries the rule description.
var ErrIncompatible = errors.New("this combination is not available")

// maxCustomImageBytes caps an uploaded reference image, which is stored with
// the cart line.
const maxCustomImageBytes = 512 << 10

type cartAdder interface {
	AddCustom(ctx context.Context, shopperID string, line domain.CartLine) (*cart.View, error)
}

type Service struct {
	materials materialrepo.Repository
	rules     rulerepo.Repository
	catalog   *cache.Catalog
	cart      cartAdder
}

func New(materials materialrepo.Repository, rules rulerepo.Repository, catalog *cache.Catalog, cart cartAdder) *Service {
	return &Service{materials: materials, rules: rules, catalog: catalog, cart: cart}
}

type MaterialInput struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	ImageURL string          `json:"imageUrl"`
	Active   *bool           `json:"active"`
}

type RuleInput struct {
	ContainerID   string          `json:"containerId"`
	WickID        string          `json:"wickId"`
	WaxID         string          `json:"waxId"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	IsCompatible  *bool           `json:"isCompatible"`
	Description   string          `json:"description"`
}

// SelectionInput names the chosen materials by id. Empty slots are unselected.
type SelectionInput struct {
	ContainerID        string   `json:"containerId"`
	WickID             string   `json:"wickId"`
	WaxID              string   `json:"waxId"`
	AddonIDs           []string `json:"addonIds"`
	CustomDescription  string   `json:"customDescription"`
	CustomImageDataURI string   `json:"customImageDataUri"`
}

// Quote is a resolved selection with its price.
type Quote struct {
	Selection domain.CandleSelection `json:"selection"`
	Price     pricing.CandleQuote    `json:"price"`
}

// ActiveMaterials lists materials offered in the builder.
func (s *Service) ActiveMaterials(ctx context.Context) ([]domain.Material, error) {
	if ms, ok := s.catalog.Materials(); ok {
		return ms, nil
	}
	gen := s.catalog.Generation()
	ms, err := s.materials.List(ctx, true)
	if err != nil {
		return nil, err
	}
	s.catalog.SetMaterials(gen, ms)
	return ms, nil
}

// AllMaterials lists every material, including inactive ones.
func (s *Service) AllMaterials(ctx context.Context) ([]domain.Material, error) {
	return s.materials.List(ctx, false)
}

func (s *Service) CreateMaterial(ctx context.Context, in MaterialInput) (*domain.Material, error) {
	m, err := buildMaterial(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	out, err := s.materials.Create(ctx, *m)
	if err != nil {
		return nil, err
	}
	s.catalog.InvalidateMaterials()
	return out, nil
}

func (s *Service) UpdateMaterial(ctx context.Context, id string, in MaterialInput) (*domain.Material, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	m, err := buildMaterial(id, in)
	if err != nil {
		return nil, err
	}
	out, err := s.materials.Update(ctx, *m)
	if err != nil {
		return nil, err
	}
	s.catalog.InvalidateMaterials()
	return out, nil
}

// DeleteMaterial removes a material together with the rules that use it.
func (s *Service) DeleteMaterial(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.InvalidateMaterials()
	return nil
}

// Rules returns the rule table in match order.
func (s *Service) Rules(ctx context.Context) ([]domain.CompatibilityRule, error) {
	if rs, ok := s.catalog.Rules(); ok {
		return rs, nil
	}
	gen := s.catalog.Generation()
	rs, err := s.rules.List(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.SetRules(gen, rs)
	return rs, nil
}

func (s *Service) CreateRule(ctx context.Context, in RuleInput) (*domain.CompatibilityRule, error) {
	r, err := s.buildRule(ctx, uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	out, err := s.rules.Create(ctx, *r)
	if err != nil {
		return nil, err
	}
	s.catalog.InvalidateRules()
	return out, nil
}

func (s *Service) UpdateRule(ctx context.Context, id string, in RuleInput) (*domain.CompatibilityRule, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	r, err := s.buildRule(ctx, id, in)
	if err != nil {
		return nil, err
	}
	out, err := s.rules.Update(ctx, *r)
	if err != nil {
		return nil, err
	}
	s.catalog.InvalidateRules()
	return out, nil
}

func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.InvalidateRules()
	return nil
}

// Quote resolves the selection against active materials and prices it.
func (s *Service) Quote(ctx context.Context, in SelectionInput) (*Quote, error) {
	ms, err := s.ActiveMaterials(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Material, len(ms))
	for _, m := range ms {
		byID[m.ID] = m
	}

	sel := domain.CandleSelection{
		Addons:             []domain.Material{},
		CustomDescription:  strings.TrimSpace(in.CustomDescription),
		CustomImageDataURI: strings.TrimSpace(in.CustomImageDataURI),
	}
	if img := sel.CustomImageDataURI; img != "" {
		if !strings.HasPrefix(img, "data:image/") {
			return nil, domain.Invalid("customImageDataUri must be a data:image URI")
		}
		if len(img) > maxCustomImageBytes {
			return nil, domain.Invalid("custom image is too large")
		}
	}
	if sel.Container, err = resolve(byID, in.ContainerID, domain.MaterialContainer); err != nil {
		return nil, err
	}
	if sel.Wick, err = resolve(byID, in.WickID, domain.MaterialWick); err != nil {
		return nil, err
	}
	if sel.Wax, err = resolve(byID, in.WaxID, domain.MaterialWax); err != nil {
		return nil, err
	}
	for _, id := range in.AddonIDs {
		m, err := resolve(byID, id, domain.MaterialAddon)
		if err != nil {
			return nil, err
		}
		if m != nil {
			sel.Addons = append(sel.Addons, *m)
		}
	}

	rules, err := s.Rules(ctx)
	if err != nil {
		return nil, err
	}
	return &Quote{Selection: sel, Price: pricing.ComputeCandleTotal(sel, rules)}, nil
}

// AddToCart prices a complete build and adds it to the shopper's cart as a
// single line priced at the candle subtotal.
func (s *Service) AddToCart(ctx context.Context, shopperID string, in SelectionInput) (*cart.View, error) {
	q, err := s.Quote(ctx, in)
	if err != nil {
		return nil, err
	}
	if !q.Selection.Complete() {
		return nil, domain.Invalid("select a container, wick and wax")
	}
	if !q.Price.Compatible {
		if q.Price.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrIncompatible, q.Price.Reason)
		}
		return nil, ErrIncompatible
	}

	line := domain.CartLine{
		ProductID: cart.CustomLinePrefix + uuid.NewString(),
		Name:      "Custom Candle",
		Price:     q.Price.Subtotal,
		Quantity:  1,
		Selected:  true,
		ImageURL:  q.Selection.Container.ImageURL,
		Note:      describe(q.Selection),
	}
	if q.Selection.CustomImageDataURI != "" {
		line.ImageURL = q.Selection.CustomImageDataURI
	}
	return s.cart.AddCustom(ctx, shopperID, line)
}

func (s *Service) buildRule(ctx context.Context, id string, in RuleInput) (*domain.CompatibilityRule, error) {
	slots := []struct {
		id   string
		want domain.MaterialCategory
	}{
		{strings.TrimSpace(in.ContainerID), domain.MaterialContainer},
		{strings.TrimSpace(in.WickID), domain.MaterialWick},
		{strings.TrimSpace(in.WaxID), domain.MaterialWax},
	}
	for _, slot := range slots {
		if slot.id == "" {
			return nil, domain.Invalidf("%sId required", slot.want)
		}
		if _, err := uuid.Parse(slot.id); err != nil {
			return nil, domain.Invalidf("unknown %s", slot.want)
		}
		m, err := s.materials.GetByID(ctx, slot.id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Invalidf("unknown %s", slot.want)
			}
			return nil, err
		}
		if m.Category != slot.want {
			return nil, domain.Invalidf("%s is not a %s", m.Name, slot.want)
		}
	}
	compatible := true
	if in.IsCompatible != nil {
		compatible = *in.IsCompatible
	}
	return &domain.CompatibilityRule{
		ID:            id,
		ContainerID:   slots[0].id,
		WickID:        slots[1].id,
		WaxID:         slots[2].id,
		PriceModifier: in.PriceModifier,
		IsCompatible:  compatible,
		Description:   strings.TrimSpace(in.Description),
	}, nil
}

func buildMaterial(id string, in MaterialInput) (*domain.Material, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	category := domain.MaterialCategory(strings.ToLower(strings.TrimSpace(in.Category)))
	if !category.Valid() {
		return nil, domain.Invalid("category must be one of container, wick, wax, addon")
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price must not be negative")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &domain.Material{
		ID:       id,
		Name:     name,
		Price:    in.Price,
		Category: category,
		ImageURL: strings.TrimSpace(in.ImageURL),
		Active:   active,
	}, nil
}

func resolve(byID map[string]domain.Material, id string, want domain.MaterialCategory) (*domain.Material, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	m, ok := byID[id]
	if !ok {
		return nil, domain.Invalidf("unknown %s", want)
	}
	if m.Category != want {
		return nil, domain.Invalidf("%s is not a %s", m.Name, want)
	}
	return &m, nil
}

func describe(sel domain.CandleSelection) string {
	parts := []string{
		"Container: " + sel.Container.Name,
		"Wick: " + sel.Wick.Name,
		"Wax: " + sel.Wax.Name,
	}
	if len(sel.Addons) > 0 {
		names := make([]string, 0, len(sel.Addons))
		for _, a := range sel.Addons {
			names = append(names, a.Name)
		}
		parts = append(parts, "Add-ons: "+strings.Join(names, ", "))
	}
	if sel.CustomDescription != "" {
		parts = append(parts, "Notes: "+sel.CustomDescription)
	}
	if sel.CustomImageDataURI != "" {
		parts = append(parts, "Reference image attached")
	}
	return strings.Join(parts, "; ")
}
