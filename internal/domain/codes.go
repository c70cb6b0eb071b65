package domain

import "github.com/shopspring/decimal"

type VoucherKind string

const (
	VoucherPercentage VoucherKind = "percentage"
	VoucherFixed      VoucherKind = "fixed"
	VoucherPoints     VoucherKind = "points"
)

// VoucherCode is the single active discount instrument. At most one voucher
// is active at a time; applying a new one replaces the old.
type VoucherCode struct {
	Code  string          `json:"code"`
	Kind  VoucherKind     `json:"kind"`
	Value decimal.Decimal `json:"value"`
	Valid bool            `json:"valid"`
}

// ReferralCode is a bare code resolved against the referral registry.
type ReferralCode struct {
	Code string `json:"code"`
}

// ReferralGrant is what a registry hit yields: a percentage discount on the
// subtotal plus a flat bonus-points grant.
type ReferralGrant struct {
	DiscountPercent decimal.Decimal
	BonusPoints     int64
}
