package catalog

import "github.com/shopspring/decimal"

// Price is an effective unit price with an optional compare-at ("was") price.
// CompareAt is only ever set when it is strictly greater than Amount.
type Price struct {
	Amount    decimal.Decimal
	CompareAt *decimal.Decimal
}

// EffectivePrice applies the sale precedence rule to one list/sale pair:
// the sale price wins when 0 < sale < list. ok is false when the list price
// is missing, non-numeric or negative.
func EffectivePrice(list, sale Number) (Price, bool) {
	listPrice, ok := list.Decimal()
	if !ok || listPrice.IsNegative() {
		return Price{}, false
	}
	if salePrice, ok := sale.Decimal(); ok && salePrice.IsPositive() && salePrice.LessThan(listPrice) {
		compareAt := listPrice
		return Price{Amount: salePrice, CompareAt: &compareAt}, true
	}
	return Price{Amount: listPrice}, true
}

// PriceResolver resolves prices against a payload's price groups.
type PriceResolver struct {
	groups Ordered[RawPriceGroup]
}

// NewPriceResolver wraps the price groups of one payload.
func NewPriceResolver(groups Ordered[RawPriceGroup]) *PriceResolver {
	return &PriceResolver{groups: groups}
}

// Resolve returns the effective price of a specific group.
func (r *PriceResolver) Resolve(groupID ID) (Price, bool) {
	if groupID == "" {
		return Price{}, false
	}
	group, ok := r.groups.Get(string(groupID))
	if !ok {
		return Price{}, false
	}
	return EffectivePrice(group.Price, group.SalePrice)
}

// Lowest returns the group whose effective price is numerically lowest.
// Groups that fail to resolve are skipped; ties keep the first group in payload order.
func (r *PriceResolver) Lowest() (Price, bool) {
	var (
		best  Price
		found bool
	)
	for _, id := range r.groups.Keys() {
		price, ok := r.Resolve(ID(id))
		if !ok {
			continue
		}
		if !found || price.Amount.LessThan(best.Amount) {
			best = price
			found = true
		}
	}
	return best, found
}

// Len returns the number of price groups, resolvable or not.
func (r *PriceResolver) Len() int {
	return r.groups.Len()
}
