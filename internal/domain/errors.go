package domain

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientPoints = errors.New("insufficient points balance")
	ErrVoucherNotFound    = errors.New("voucher code not found")
	ErrReferralNotFound   = errors.New("referral code not found")
	ErrCheckoutInFlight   = errors.New("checkout already in progress")
	ErrPurchaseRejected   = errors.New("purchase rejected by server")
	ErrCourseNotFound     = errors.New("course not found")
)
