package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
)

func newEngine() *DiscountEngine {
	return NewDiscountEngine(config.VoucherRegistry, config.ReferralRegistry)
}

func TestComputeNoCodesBaseAccrualOnly(t *testing.T) {
	engine := newEngine()
	result := engine.Compute(decimal.NewFromInt(250), nil, nil)

	if !result.DiscountAmount.Equal(decimal.Zero) {
		t.Errorf("expected zero discount, got %s", result.DiscountAmount)
	}
	if result.PointsToEarn != 25 {
		t.Errorf("expected 25 base points, got %d", result.PointsToEarn)
	}
}

func TestComputeBaseAccrualFloors(t *testing.T) {
	engine := newEngine()
	result := engine.Compute(decimal.NewFromFloat(19.99), nil, nil)

	// floor(19.99 * 0.10) = 1
	if result.PointsToEarn != 1 {
		t.Errorf("expected 1 point, got %d", result.PointsToEarn)
	}
}

func TestComputePercentageVoucher(t *testing.T) {
	engine := newEngine()
	voucher, ok := engine.LookupVoucher("DISCOUNT20")
	if !ok {
		t.Fatal("DISCOUNT20 missing from registry")
	}

	result := engine.Compute(decimal.NewFromInt(300), &voucher, nil)

	if !result.DiscountAmount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected discount 60, got %s", result.DiscountAmount)
	}
	if result.PointsToEarn != 30 {
		t.Errorf("expected 30 points, got %d", result.PointsToEarn)
	}
}

func TestComputeFixedVoucherCappedAtSubtotal(t *testing.T) {
	engine := newEngine()
	voucher, ok := engine.LookupVoucher("SAVE50")
	if !ok {
		t.Fatal("SAVE50 missing from registry")
	}

	// Subtotal below the voucher value: contribution is the subtotal.
	result := engine.Compute(decimal.NewFromInt(30), &voucher, nil)
	if !result.DiscountAmount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected discount capped at 30, got %s", result.DiscountAmount)
	}

	// Subtotal above the voucher value: contribution is the full value.
	result = engine.Compute(decimal.NewFromInt(200), &voucher, nil)
	if !result.DiscountAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected discount 50, got %s", result.DiscountAmount)
	}
}

func TestComputePointsVoucherNoMoneyDiscount(t *testing.T) {
	engine := newEngine()
	voucher, ok := engine.LookupVoucher("BONUS100")
	if !ok {
		t.Fatal("BONUS100 missing from registry")
	}

	result := engine.Compute(decimal.NewFromInt(200), &voucher, nil)

	if !result.DiscountAmount.Equal(decimal.Zero) {
		t.Errorf("points voucher must not discount money, got %s", result.DiscountAmount)
	}
	// 100 voucher points + floor(200 * 0.10) base
	if result.PointsToEarn != 120 {
		t.Errorf("expected 120 points, got %d", result.PointsToEarn)
	}
}

func TestComputeInvalidVoucherIgnored(t *testing.T) {
	engine := newEngine()
	voucher := domain.VoucherCode{
		Code:  "DISCOUNT20",
		Kind:  domain.VoucherPercentage,
		Value: decimal.NewFromInt(20),
		Valid: false,
	}

	result := engine.Compute(decimal.NewFromInt(300), &voucher, nil)

	if !result.DiscountAmount.Equal(decimal.Zero) {
		t.Errorf("invalid voucher must contribute nothing, got %s", result.DiscountAmount)
	}
}

func TestComputeUnknownReferralIgnored(t *testing.T) {
	engine := newEngine()
	referral := &domain.ReferralCode{Code: "NOSUCHCODE"}

	result := engine.Compute(decimal.NewFromInt(300), nil, referral)

	if !result.DiscountAmount.Equal(decimal.Zero) {
		t.Errorf("unknown referral must contribute nothing, got %s", result.DiscountAmount)
	}
	if result.PointsToEarn != 30 {
		t.Errorf("expected base points only, got %d", result.PointsToEarn)
	}
}

// Worked scenario: subtotal 300, DISCOUNT20 (20%) + FRIEND10 (10% / 50 pts)
// stack additively to 90 discount and 30+50 points.
func TestComputeVoucherAndReferralStack(t *testing.T) {
	engine := newEngine()
	voucher, _ := engine.LookupVoucher("DISCOUNT20")
	referral := &domain.ReferralCode{Code: "FRIEND10"}

	result := engine.Compute(decimal.NewFromInt(300), &voucher, referral)

	if !result.DiscountAmount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected discount 90, got %s", result.DiscountAmount)
	}
	if result.PointsToEarn != 80 {
		t.Errorf("expected 80 points, got %d", result.PointsToEarn)
	}
}

// The aggregate is deliberately not capped at the subtotal; only the fixed
// branch is individually capped. This pins the current economics so a cap
// cannot be introduced silently.
func TestComputeUncappedStacking(t *testing.T) {
	vouchers := map[string]domain.VoucherCode{
		"MEGA95": {Code: "MEGA95", Kind: domain.VoucherPercentage, Value: decimal.NewFromInt(95), Valid: true},
	}
	referrals := map[string]domain.ReferralGrant{
		"BIG20": {DiscountPercent: decimal.NewFromInt(20), BonusPoints: 0},
	}
	engine := NewDiscountEngine(vouchers, referrals)

	voucher := vouchers["MEGA95"]
	result := engine.Compute(decimal.NewFromInt(100), &voucher, &domain.ReferralCode{Code: "BIG20"})

	// 95 + 20 = 115, above the 100 subtotal
	if !result.DiscountAmount.Equal(decimal.NewFromInt(115)) {
		t.Errorf("expected uncapped discount 115, got %s", result.DiscountAmount)
	}
}

func TestComputeDeterministic(t *testing.T) {
	engine := newEngine()
	voucher, _ := engine.LookupVoucher("DISCOUNT20")
	referral := &domain.ReferralCode{Code: "FRIEND10"}
	subtotal := decimal.NewFromInt(300)

	first := engine.Compute(subtotal, &voucher, referral)
	for i := 0; i < 5; i++ {
		again := engine.Compute(subtotal, &voucher, referral)
		if !again.DiscountAmount.Equal(first.DiscountAmount) || again.PointsToEarn != first.PointsToEarn {
			t.Fatalf("compute not deterministic: %v vs %v", again, first)
		}
	}
}

func TestLookupNormalizesCode(t *testing.T) {
	engine := newEngine()

	if _, ok := engine.LookupVoucher("  discount20 "); !ok {
		t.Error("expected case-insensitive trimmed voucher lookup")
	}
	if _, ok := engine.LookupReferral("friend10"); !ok {
		t.Error("expected case-insensitive referral lookup")
	}
}
