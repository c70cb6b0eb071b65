package config

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/studydeck/coursecart/internal/domain"
)

const (
	// Base points accrual rate on every purchase, independent of codes
	BasePointsRate = 0.10

	// Storage keys for persisted session state
	StorageKeyCart     = "cart"
	StorageKeyVoucher  = "voucher_code"
	StorageKeyReferral = "referral_code"

	// Where the UI navigates after a successful points checkout, and how
	// long to wait so the success notification can be seen
	PurchasedCoursesPath = "/dashboard/courses"
	RedirectDelay        = 2 * time.Second

	// Backend call timeout
	RequestTimeout = 30 * time.Second

	// How long a fetched points balance stays fresh for guard checks
	BalanceCacheTTL = 15 * time.Second
)

// VoucherRegistry holds the valid voucher codes. Static configuration, not
// runtime-mutable.
var VoucherRegistry = map[string]domain.VoucherCode{
	"DISCOUNT20": {Code: "DISCOUNT20", Kind: domain.VoucherPercentage, Value: decimal.NewFromInt(20), Valid: true},
	"WELCOME10":  {Code: "WELCOME10", Kind: domain.VoucherPercentage, Value: decimal.NewFromInt(10), Valid: true},
	"SAVE50":     {Code: "SAVE50", Kind: domain.VoucherFixed, Value: decimal.NewFromInt(50), Valid: true},
	"BONUS100":   {Code: "BONUS100", Kind: domain.VoucherPoints, Value: decimal.NewFromInt(100), Valid: true},
}

// ReferralRegistry maps referral codes to their discount and bonus grant.
var ReferralRegistry = map[string]domain.ReferralGrant{
	"FRIEND10":  {DiscountPercent: decimal.NewFromInt(10), BonusPoints: 50},
	"PARTNER15": {DiscountPercent: decimal.NewFromInt(15), BonusPoints: 100},
	"STUDENT5":  {DiscountPercent: decimal.NewFromInt(5), BonusPoints: 25},
}
