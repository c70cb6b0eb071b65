package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
	"github.com/studydeck/coursecart/internal/notify"
)

// PointsLedger is the external authority on the user's points balance.
type PointsLedger interface {
	Balance(ctx context.Context) (int64, error)
	HasEnough(ctx context.Context, cost int64) (bool, error)
}

// CoursePurchaser performs the single remote purchase call of the checkout
// flow.
type CoursePurchaser interface {
	PurchaseCoursesWithPoints(ctx context.Context, courseIDs []string, pointsCost int64, description string) (bool, error)
}

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutValidating CheckoutState = "validating"
	CheckoutSubmitting CheckoutState = "submitting"
)

type CheckoutStatus string

const (
	CheckoutSuccess            CheckoutStatus = "success"
	CheckoutEmptyCart          CheckoutStatus = "empty_cart"
	CheckoutInsufficientPoints CheckoutStatus = "insufficient_points"
	CheckoutFailed             CheckoutStatus = "failed"
	CheckoutBusy               CheckoutStatus = "busy"
)

// CheckoutResult tells the calling layer what happened and, on success,
// where to navigate and after how long. The engine never navigates itself.
type CheckoutResult struct {
	OK            bool
	Status        CheckoutStatus
	OrderRef      string
	RedirectPath  string
	RedirectAfter time.Duration
}

// CheckoutService coordinates a points purchase: guard checks, one remote
// submit, and on success an atomic clear of cart and codes. On any failure
// the session state is left exactly as it was so the user can retry.
type CheckoutService struct {
	cart      *CartStore
	codes     *CodeStore
	ledger    PointsLedger
	purchaser CoursePurchaser
	sink      notify.Sink

	mu       sync.Mutex
	state    CheckoutState
	inFlight bool
}

func NewCheckoutService(cart *CartStore, codes *CodeStore, ledger PointsLedger, purchaser CoursePurchaser, sink notify.Sink) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		codes:     codes,
		ledger:    ledger,
		purchaser: purchaser,
		sink:      sink,
		state:     CheckoutIdle,
	}
}

// State lets the UI disable the checkout action while an attempt is in
// flight.
func (s *CheckoutService) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CheckoutWithPoints runs the full flow. It never panics past its boundary;
// unexpected failures settle as a failed result with state untouched.
func (s *CheckoutService) CheckoutWithPoints(ctx context.Context) (result CheckoutResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during checkout", "panic", r, "stack", string(debug.Stack()))
			result = s.failure("Checkout failed", "Something went wrong. Your cart is unchanged.")
		}
	}()

	// Re-entrant attempts are rejected while a checkout is in flight; the
	// guard-then-submit sequence is not atomic against the remote ledger.
	if !s.begin() {
		outcome := domain.InfoOutcome("Checkout in progress", "Please wait for the current checkout to finish.")
		s.sink.Publish(outcome)
		return CheckoutResult{Status: CheckoutBusy}
	}
	defer s.settle()

	cart := s.cart.Cart()
	if cart.IsEmpty() {
		outcome := domain.ErrorOutcome("Cart is empty", "Add a course before checking out.")
		s.sink.Publish(outcome)
		return CheckoutResult{Status: CheckoutEmptyCart}
	}

	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		slog.Error("points balance lookup failed", "error", err)
		return s.failure("Checkout failed", "Could not verify your points balance. Please try again.")
	}
	if cart.TotalPointsPrice > balance {
		outcome := domain.ErrorOutcome("Not enough points",
			fmt.Sprintf("This order costs %d points but you have %d.", cart.TotalPointsPrice, balance))
		s.sink.Publish(outcome)
		return CheckoutResult{Status: CheckoutInsufficientPoints}
	}

	s.setState(CheckoutSubmitting)

	orderRef := uuid.New().String()
	description := fmt.Sprintf("Points purchase of %d course(s), order %s", len(cart.Items), orderRef)

	ok, err := s.purchaser.PurchaseCoursesWithPoints(ctx, cart.CourseIDs(), cart.TotalPointsPrice, description)
	if err != nil {
		slog.Error("purchase call failed", "order_ref", orderRef, "error", err)
		return s.failure("Checkout failed", "The purchase could not be completed. Your cart is unchanged.")
	}
	if !ok {
		slog.Warn("purchase rejected by server", "order_ref", orderRef)
		return s.failure("Checkout failed", "The purchase was declined. Your cart is unchanged.")
	}

	// Clear cart and both codes before reporting success so a reload
	// mid-redirect cannot resurrect stale state.
	s.cart.Reset(ctx)
	s.codes.Reset(ctx)

	outcome := domain.SuccessOutcome("Purchase complete",
		fmt.Sprintf("You spent %d points. Your courses are ready.", cart.TotalPointsPrice))
	s.sink.Publish(outcome)

	return CheckoutResult{
		OK:            true,
		Status:        CheckoutSuccess,
		OrderRef:      orderRef,
		RedirectPath:  config.PurchasedCoursesPath,
		RedirectAfter: config.RedirectDelay,
	}
}

func (s *CheckoutService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	s.state = CheckoutValidating
	return true
}

func (s *CheckoutService) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.state = CheckoutIdle
}

func (s *CheckoutService) setState(state CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *CheckoutService) failure(title, description string) CheckoutResult {
	outcome := domain.ErrorOutcome(title, description)
	s.sink.Publish(outcome)
	return CheckoutResult{Status: CheckoutFailed}
}
