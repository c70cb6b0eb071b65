package domain

import "github.com/shopspring/decimal"

// DiscountResult is derived, never stored: it is recomputed from scratch
// whenever cart contents, voucher, or referral change.
type DiscountResult struct {
	DiscountAmount decimal.Decimal
	PointsToEarn   int64
}
