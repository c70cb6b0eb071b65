package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/studydeck/coursecart/internal/codec"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
	"github.com/studydeck/coursecart/internal/kvstore"
)

// recordingSink captures published outcomes for assertions.
type recordingSink struct {
	outcomes []domain.Outcome
}

func (s *recordingSink) Publish(outcome domain.Outcome) {
	s.outcomes = append(s.outcomes, outcome)
}

func (s *recordingSink) last() domain.Outcome {
	if len(s.outcomes) == 0 {
		return domain.Outcome{}
	}
	return s.outcomes[len(s.outcomes)-1]
}

// fakeLedger is a canned points balance.
type fakeLedger struct {
	balance int64
	err     error
}

func (l *fakeLedger) Balance(context.Context) (int64, error) {
	return l.balance, l.err
}

func (l *fakeLedger) HasEnough(_ context.Context, cost int64) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.balance >= cost, nil
}

// spyPurchaser records purchase calls and answers with canned results.
type spyPurchaser struct {
	calls         int
	lastCourseIDs []string
	lastCost      int64
	lastDesc      string

	ok  bool
	err error

	// when set, the call blocks until released (for in-flight lock tests)
	started chan struct{}
	release chan struct{}
}

func (p *spyPurchaser) PurchaseCoursesWithPoints(_ context.Context, courseIDs []string, pointsCost int64, description string) (bool, error) {
	p.calls++
	p.lastCourseIDs = courseIDs
	p.lastCost = pointsCost
	p.lastDesc = description
	if p.started != nil {
		close(p.started)
		<-p.release
	}
	return p.ok, p.err
}

var errLedgerDown = errors.New("ledger unavailable")

func courseFixture(id string, price int64, points int64) domain.Course {
	return domain.Course{
		ID:          id,
		Title:       "Course " + id,
		Price:       decimal.NewFromInt(price),
		PointsPrice: points,
		TeacherName: "A. Teacher",
		Subject:     "Math",
	}
}

type testStores struct {
	store *kvstore.Memory
	codec *codec.Codec
	sink  *recordingSink
	cart  *CartStore
	codes *CodeStore
}

func newTestStores() *testStores {
	store := kvstore.NewMemory()
	stateCodec := codec.New(store, "test")
	sink := &recordingSink{}
	engine := NewDiscountEngine(config.VoucherRegistry, config.ReferralRegistry)
	return &testStores{
		store: store,
		codec: stateCodec,
		sink:  sink,
		cart:  NewCartStore(stateCodec, sink),
		codes: NewCodeStore(engine, stateCodec, sink),
	}
}
