package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-telegram/bot"
	coursecart "github.com/studydeck/coursecart"
	"github.com/studydeck/coursecart/internal/codec"
	"github.com/studydeck/coursecart/internal/config"
	"github.com/studydeck/coursecart/internal/domain"
	"github.com/studydeck/coursecart/internal/kvstore"
	"github.com/studydeck/coursecart/internal/notify"
	"github.com/studydeck/coursecart/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the durable store: Postgres when configured, memory otherwise
	var store kvstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := kvstore.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(coursecart.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := kvstore.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		store = kvstore.NewPostgres(pool)
	} else {
		slog.Info("no DATABASE_URL set, cart state will not survive restart")
		store = kvstore.NewMemory()
	}

	// Outcome sinks: structured log always, Telegram ops chat when configured
	var sink notify.Sink = notify.NewSlogSink()
	if cfg.BotToken != "" && cfg.LogTelegramChatID != 0 {
		b, err := bot.New(cfg.BotToken)
		if err != nil {
			slog.Error("failed to create telegram bot", "error", err)
			os.Exit(1)
		}
		sink = notify.NewMulti(notify.NewSlogSink(), notify.NewTelegramSink(b, cfg))
	}

	// Initialize services
	stateCodec := codec.New(store, cfg.SessionID)
	engine := service.NewDiscountEngine(config.VoucherRegistry, config.ReferralRegistry)
	cartStore := service.NewCartStore(stateCodec, sink)
	codeStore := service.NewCodeStore(engine, stateCodec, sink)
	marketplace := service.NewMarketplaceClient(cfg)
	catalog := service.NewCatalogClient(cfg)
	checkout := service.NewCheckoutService(cartStore, codeStore, marketplace, marketplace, sink)

	// Restore session state from a previous run
	cartStore.Hydrate(ctx)
	codeStore.Hydrate(ctx)

	slog.Info("session restored",
		"session_id", cfg.SessionID,
		"items", len(cartStore.Cart().Items),
		"total_price", cartStore.Cart().TotalPrice,
	)

	runConsole(ctx, consoleDeps{
		engine:   engine,
		cart:     cartStore,
		codes:    codeStore,
		catalog:  catalog,
		ledger:   marketplace,
		checkout: checkout,
	})

	slog.Info("session ended")
}

type consoleDeps struct {
	engine   *service.DiscountEngine
	cart     *service.CartStore
	codes    *service.CodeStore
	catalog  *service.CatalogClient
	ledger   service.PointsLedger
	checkout *service.CheckoutService
}

// runConsole drives the engine from stdin, one command per line. It stands
// in for the marketplace UI during development and support sessions.
func runConsole(ctx context.Context, deps consoleDeps) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("coursecart console: add <course-id> | remove <item-id> | cart | clear | voucher <code|off> | referral <code|off> | balance | checkout | quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		command, arg := fields[0], ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch command {
		case "add":
			course, err := deps.catalog.FetchCourse(ctx, arg)
			if err != nil {
				fmt.Printf("could not fetch course %q: %v\n", arg, err)
				continue
			}
			outcome := deps.cart.AddToCart(ctx, course)
			fmt.Printf("%s: %s\n", outcome.Title, outcome.Description)

		case "remove":
			outcome := deps.cart.RemoveFromCart(ctx, arg)
			fmt.Printf("%s: %s\n", outcome.Title, outcome.Description)

		case "clear":
			outcome := deps.cart.ClearCart(ctx)
			fmt.Printf("%s: %s\n", outcome.Title, outcome.Description)

		case "cart":
			printCart(deps)

		case "voucher":
			outcome := applyOrRemove(ctx, arg, deps.codes.ApplyVoucher, deps.codes.RemoveVoucher)
			fmt.Printf("%s: %s\n", outcome.Title, outcome.Description)

		case "referral":
			outcome := applyOrRemove(ctx, arg, deps.codes.ApplyReferral, deps.codes.RemoveReferral)
			fmt.Printf("%s: %s\n", outcome.Title, outcome.Description)

		case "balance":
			balance, err := deps.ledger.Balance(ctx)
			if err != nil {
				fmt.Printf("balance unavailable: %v\n", err)
				continue
			}
			fmt.Printf("points balance: %d\n", balance)

		case "checkout":
			result := deps.checkout.CheckoutWithPoints(ctx)
			if result.OK {
				fmt.Printf("order %s complete, continue at %s\n", result.OrderRef, result.RedirectPath)
			} else {
				fmt.Printf("checkout not completed: %s\n", result.Status)
			}

		case "quit", "exit":
			return

		default:
			fmt.Printf("unknown command %q\n", command)
		}
	}
}

func printCart(deps consoleDeps) {
	cart := deps.cart.Cart()
	if cart.IsEmpty() {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range cart.Items {
		fmt.Printf("  %s  %s  (%s / %d pts)  added %s\n",
			item.ID, item.Title, item.Price.StringFixed(2), item.PointsPrice,
			item.AddedAt.Format("2006-01-02 15:04"))
	}
	result := deps.engine.Compute(cart.TotalPrice, deps.codes.Voucher(), deps.codes.Referral())
	fmt.Printf("subtotal: %s  points price: %d\n", cart.TotalPrice.StringFixed(2), cart.TotalPointsPrice)
	fmt.Printf("discount: %s  points to earn: %d\n", result.DiscountAmount.StringFixed(2), result.PointsToEarn)
}

func applyOrRemove(ctx context.Context, arg string,
	apply func(context.Context, string) domain.Outcome,
	remove func(context.Context) domain.Outcome,
) domain.Outcome {
	if arg == "" || arg == "off" {
		return remove(ctx)
	}
	return apply(ctx, arg)
}
