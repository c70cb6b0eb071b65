// Package codec serializes session state to the durable store and restores
// it at startup. Loads fail soft: corrupt or missing data yields the empty
// cart / no code, never an error, because restore runs before any
// error-display UI exists.
package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
	"github.com/studydeck/coursecart/internal/kvstore"
)

type Codec struct {
	store     kvstore.Store
	sessionID string
}

func New(store kvstore.Store, sessionID string) *Codec {
	return &Codec{store: store, sessionID: sessionID}
}

func (c *Codec) key(name string) string {
	return c.sessionID + ":" + name
}

func (c *Codec) SaveCart(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := c.store.Set(ctx, c.key(config.StorageKeyCart), data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (c *Codec) LoadCart(ctx context.Context) domain.Cart {
	data, ok, err := c.store.Get(ctx, c.key(config.StorageKeyCart))
	if err != nil {
		slog.Warn("load cart failed, starting empty", "error", err)
		return domain.EmptyCart()
	}
	if !ok {
		return domain.EmptyCart()
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		slog.Warn("corrupt cart state, starting empty", "error", err)
		return domain.EmptyCart()
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	// Totals are derived; rederive on load so a stale blob cannot desync them.
	cart.Recalculate()
	return cart
}

func (c *Codec) SaveVoucher(ctx context.Context, voucher *domain.VoucherCode) error {
	if voucher == nil {
		if err := c.store.Delete(ctx, c.key(config.StorageKeyVoucher)); err != nil {
			return fmt.Errorf("clear voucher: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(voucher)
	if err != nil {
		return fmt.Errorf("marshal voucher: %w", err)
	}
	if err := c.store.Set(ctx, c.key(config.StorageKeyVoucher), data); err != nil {
		return fmt.Errorf("save voucher: %w", err)
	}
	return nil
}

func (c *Codec) LoadVoucher(ctx context.Context) *domain.VoucherCode {
	var voucher domain.VoucherCode
	if !c.loadCode(ctx, config.StorageKeyVoucher, &voucher) {
		return nil
	}
	return &voucher
}

func (c *Codec) SaveReferral(ctx context.Context, referral *domain.ReferralCode) error {
	if referral == nil {
		if err := c.store.Delete(ctx, c.key(config.StorageKeyReferral)); err != nil {
			return fmt.Errorf("clear referral: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(referral)
	if err != nil {
		return fmt.Errorf("marshal referral: %w", err)
	}
	if err := c.store.Set(ctx, c.key(config.StorageKeyReferral), data); err != nil {
		return fmt.Errorf("save referral: %w", err)
	}
	return nil
}

func (c *Codec) LoadReferral(ctx context.Context) *domain.ReferralCode {
	var referral domain.ReferralCode
	if !c.loadCode(ctx, config.StorageKeyReferral, &referral) {
		return nil
	}
	return &referral
}

func (c *Codec) loadCode(ctx context.Context, name string, dst any) bool {
	data, ok, err := c.store.Get(ctx, c.key(name))
	if err != nil {
		slog.Warn("load code failed", "key", name, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("corrupt code state", "key", name, "error", err)
		return false
	}
	return true
}
