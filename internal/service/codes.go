package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studydeck/coursecart/internal/codec"
	"github.com/studydeck/coursecart/internal/domain"
	"github.com/studydeck/coursecart/internal/notify"
)

// CodeStore holds the single active voucher and referral slots. Unknown
// codes are rejected without state change; a valid code replaces whatever
// was in its slot.
type CodeStore struct {
	engine *DiscountEngine
	codec  *codec.Codec
	sink   notify.Sink

	voucher  *domain.VoucherCode
	referral *domain.ReferralCode
}

func NewCodeStore(engine *DiscountEngine, c *codec.Codec, sink notify.Sink) *CodeStore {
	return &CodeStore{engine: engine, codec: c, sink: sink}
}

func (s *CodeStore) Hydrate(ctx context.Context) {
	s.voucher = s.codec.LoadVoucher(ctx)
	s.referral = s.codec.LoadReferral(ctx)
}

func (s *CodeStore) Voucher() *domain.VoucherCode {
	return s.voucher
}

func (s *CodeStore) Referral() *domain.ReferralCode {
	return s.referral
}

func (s *CodeStore) ApplyVoucher(ctx context.Context, code string) domain.Outcome {
	voucher, ok := s.engine.LookupVoucher(code)
	if !ok {
		outcome := domain.ErrorOutcome("Invalid voucher code",
			fmt.Sprintf("The code %q is not valid.", code))
		s.sink.Publish(outcome)
		return outcome
	}

	s.voucher = &voucher
	s.persistVoucher(ctx)

	outcome := domain.SuccessOutcome("Voucher applied",
		fmt.Sprintf("Voucher %s is now active.", voucher.Code))
	s.sink.Publish(outcome)
	return outcome
}

func (s *CodeStore) RemoveVoucher(ctx context.Context) domain.Outcome {
	s.voucher = nil
	s.persistVoucher(ctx)

	outcome := domain.InfoOutcome("Voucher removed", "The voucher code was removed.")
	s.sink.Publish(outcome)
	return outcome
}

func (s *CodeStore) ApplyReferral(ctx context.Context, code string) domain.Outcome {
	if _, ok := s.engine.LookupReferral(code); !ok {
		outcome := domain.ErrorOutcome("Invalid referral code",
			fmt.Sprintf("The code %q is not valid.", code))
		s.sink.Publish(outcome)
		return outcome
	}

	s.referral = &domain.ReferralCode{Code: normalizeCode(code)}
	s.persistReferral(ctx)

	outcome := domain.SuccessOutcome("Referral applied",
		fmt.Sprintf("Referral code %s is now active.", s.referral.Code))
	s.sink.Publish(outcome)
	return outcome
}

func (s *CodeStore) RemoveReferral(ctx context.Context) domain.Outcome {
	s.referral = nil
	s.persistReferral(ctx)

	outcome := domain.InfoOutcome("Referral removed", "The referral code was removed.")
	s.sink.Publish(outcome)
	return outcome
}

// Reset clears both slots without emitting outcomes. Used as part of the
// post-checkout clear.
func (s *CodeStore) Reset(ctx context.Context) {
	s.voucher = nil
	s.referral = nil
	s.persistVoucher(ctx)
	s.persistReferral(ctx)
}

func (s *CodeStore) persistVoucher(ctx context.Context) {
	if err := s.codec.SaveVoucher(ctx, s.voucher); err != nil {
		slog.Error("persist voucher", "error", err)
	}
}

func (s *CodeStore) persistReferral(ctx context.Context) {
	if err := s.codec.SaveReferral(ctx, s.referral); err != nil {
		slog.Error("persist referral", "error", err)
	}
}
