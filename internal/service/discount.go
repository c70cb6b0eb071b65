package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// DiscountEngine computes discounts and points accrual from the static code
// registries. Compute is pure: the result is always rederived from scratch,
// never updated incrementally.
type DiscountEngine struct {
	vouchers  map[string]domain.VoucherCode
	referrals map[string]domain.ReferralGrant
}

func NewDiscountEngine(vouchers map[string]domain.VoucherCode, referrals map[string]domain.ReferralGrant) *DiscountEngine {
	return &DiscountEngine{vouchers: vouchers, referrals: referrals}
}

func (e *DiscountEngine) LookupVoucher(code string) (domain.VoucherCode, bool) {
	voucher, ok := e.vouchers[normalizeCode(code)]
	return voucher, ok
}

func (e *DiscountEngine) LookupReferral(code string) (domain.ReferralGrant, bool) {
	grant, ok := e.referrals[normalizeCode(code)]
	return grant, ok
}

// Compute accumulates in a fixed order: voucher first, then referral, then
// the base points accrual. Discounts are additive and the aggregate is not
// capped at the subtotal; only the fixed-voucher contribution is
// individually capped. Intermediate values are non-negative and
// monotonically accumulated.
func (e *DiscountEngine) Compute(subtotal decimal.Decimal, voucher *domain.VoucherCode, referral *domain.ReferralCode) domain.DiscountResult {
	discount := decimal.Zero
	var points int64

	if voucher != nil && voucher.Valid {
		switch voucher.Kind {
		case domain.VoucherPercentage:
			discount = discount.Add(subtotal.Mul(voucher.Value).Div(hundred))
		case domain.VoucherFixed:
			discount = discount.Add(decimal.Min(voucher.Value, subtotal))
		case domain.VoucherPoints:
			points += voucher.Value.IntPart()
		}
	}

	if referral != nil {
		if grant, ok := e.LookupReferral(referral.Code); ok {
			discount = discount.Add(subtotal.Mul(grant.DiscountPercent).Div(hundred))
			points += grant.BonusPoints
		}
	}

	points += subtotal.Mul(decimal.NewFromFloat(config.BasePointsRate)).Floor().IntPart()

	return domain.DiscountResult{DiscountAmount: discount, PointsToEarn: points}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
