package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// CandleQuote is the priced result of a candle selection.
type CandleQuote struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	Total         decimal.Decimal `json:"total"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	Compatible    bool            `json:"compatible"`
	Reason        string          `json:"reason,omitempty"`
	RuleID        string          `json:"ruleId,omitempty"`
}

// FindRule returns the first rule matching the triple exactly.
func FindRule(containerID, wickID, waxID string, rules []domain.CompatibilityRule) (*domain.CompatibilityRule, bool) {
	for i := range rules {
		if rules[i].Matches(containerID, wickID, waxID) {
			return &rules[i], true
		}
	}
	return nil, false
}

// ComputeCandleTotal prices a selection against the rule table. The rule lookup
// only happens once container, wick and wax are all chosen; until then, and
// whenever no rule matches, the build is treated as compatible with no modifier.
// A negative modifier can pull the subtotal below zero; it is floored at zero
// before the delivery fee is derived.
func ComputeCandleTotal(sel domain.CandleSelection, rules []domain.CompatibilityRule) CandleQuote {
	sum := decimal.Zero
	for _, m := range []*domain.Material{sel.Container, sel.Wick, sel.Wax} {
		if m != nil {
			sum = sum.Add(m.Price)
		}
	}
	for _, a := range sel.Addons {
		sum = sum.Add(a.Price)
	}

	quote := CandleQuote{PriceModifier: decimal.Zero, Compatible: true}
	if sel.Complete() {
		if rule, ok := FindRule(sel.Container.ID, sel.Wick.ID, sel.Wax.ID, rules); ok {
			quote.PriceModifier = rule.PriceModifier
			quote.RuleID = rule.ID
			if !rule.IsCompatible {
				quote.Compatible = false
				quote.Reason = rule.Description
			}
		}
	}

	quote.Subtotal = floorZero(sum.Add(quote.PriceModifier))
	quote.DeliveryFee = DeliveryFeeFor(quote.Subtotal)
	quote.Total = quote.Subtotal.Add(quote.DeliveryFee)
	return quote
}
