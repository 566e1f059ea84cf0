package reports

import "reports/models"

// RevenuePolicy computes a single order line's contribution to a sales
// total. Exactly one policy is configured per engine and every summary and
// total query routes through it; the formula is never duplicated inline.
type RevenuePolicy func(models.OrderLine) float64

// GrossItemRevenue is the canonical policy: the line's item price, with
// absent treated as zero. Quantity is already reflected in the per-line
// price and must not be multiplied in again.
func GrossItemRevenue(l models.OrderLine) float64 {
	return val(l.ItemPrice)
}

// NetItemRevenue is the alternative fully-netted policy: price plus tax,
// shipping and gift wrap, minus promotional discounts.
func NetItemRevenue(l models.OrderLine) float64 {
	return val(l.ItemPrice) +
		val(l.ItemTax) +
		val(l.ShippingPrice) +
		val(l.ShippingTax) +
		val(l.GiftWrapPrice) +
		val(l.GiftWrapTax) -
		val(l.ItemPromotionDiscount) -
		val(l.ShipPromotionDiscount)
}

func val(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
