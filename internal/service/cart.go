package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studydeck/coursecart/internal/codec"
	"github.com/studydeck/coursecart/internal/domain"
	"github.com/studydeck/coursecart/internal/notify"
)

// CartStore owns the canonical cart for one session. Totals are recomputed
// synchronously on every mutation and every mutation is followed by a
// persistence write. Mutations never fail for ordinary conditions: a
// duplicate add or a remove of a missing line is a benign outcome, not an
// error.
type CartStore struct {
	codec *codec.Codec
	sink  notify.Sink

	cart     domain.Cart
	onChange []func(domain.Cart)
}

func NewCartStore(c *codec.Codec, sink notify.Sink) *CartStore {
	return &CartStore{
		codec: c,
		sink:  sink,
		cart:  domain.EmptyCart(),
	}
}

// Hydrate restores the cart persisted by a previous run. Safe to call on a
// fresh store; corrupt or missing state yields the empty cart.
func (s *CartStore) Hydrate(ctx context.Context) {
	s.cart = s.codec.LoadCart(ctx)
}

func (s *CartStore) Cart() domain.Cart {
	return s.cart
}

// Subscribe registers a callback invoked after every cart change. The UI
// layer uses this to re-render.
func (s *CartStore) Subscribe(fn func(domain.Cart)) {
	s.onChange = append(s.onChange, fn)
}

func (s *CartStore) AddToCart(ctx context.Context, course domain.Course) domain.Outcome {
	if s.IsInCart(course.ID) {
		outcome := domain.InfoOutcome("Already in cart",
			fmt.Sprintf("%q is already in your cart.", course.Title))
		s.sink.Publish(outcome)
		return outcome
	}

	item := domain.NewCartItem(course, time.Now())
	s.cart.Items = append(s.cart.Items, item)
	s.cart.Recalculate()
	s.persist(ctx)
	s.notifyChange()

	outcome := domain.SuccessOutcome("Added to cart",
		fmt.Sprintf("%q was added to your cart.", course.Title))
	s.sink.Publish(outcome)
	return outcome
}

func (s *CartStore) RemoveFromCart(ctx context.Context, itemID string) domain.Outcome {
	index := -1
	for i, item := range s.cart.Items {
		if item.ID == itemID {
			index = i
			break
		}
	}
	if index < 0 {
		outcome := domain.InfoOutcome("Not in cart", "That item is no longer in your cart.")
		s.sink.Publish(outcome)
		return outcome
	}

	removed := s.cart.Items[index]
	s.cart.Items = append(s.cart.Items[:index], s.cart.Items[index+1:]...)
	s.cart.Recalculate()
	s.persist(ctx)
	s.notifyChange()

	outcome := domain.SuccessOutcome("Removed from cart",
		fmt.Sprintf("%q was removed from your cart.", removed.Title))
	s.sink.Publish(outcome)
	return outcome
}

func (s *CartStore) ClearCart(ctx context.Context) domain.Outcome {
	s.Reset(ctx)

	outcome := domain.InfoOutcome("Cart cleared", "All items were removed from your cart.")
	s.sink.Publish(outcome)
	return outcome
}

// Reset empties the cart and persists without emitting a user-facing
// outcome. Checkout uses it so a successful purchase produces a single
// success notification rather than a clear notification as well.
func (s *CartStore) Reset(ctx context.Context) {
	s.cart = domain.EmptyCart()
	s.persist(ctx)
	s.notifyChange()
}

// IsInCart reports whether any line references the course id. Always walks
// the current item sequence so it cannot go stale.
func (s *CartStore) IsInCart(courseID string) bool {
	for _, item := range s.cart.Items {
		if item.CourseID == courseID {
			return true
		}
	}
	return false
}

func (s *CartStore) persist(ctx context.Context) {
	if err := s.codec.SaveCart(ctx, s.cart); err != nil {
		slog.Error("persist cart", "error", err)
	}
}

func (s *CartStore) notifyChange() {
	for _, fn := range s.onChange {
		fn(s.cart)
	}
}
