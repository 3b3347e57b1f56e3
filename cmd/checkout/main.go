// Package main CLI-клиент платёжного рукопожатия: создаёт намерение через relay,
// подтверждает его тестовым способом оплаты и сверяет статус после 3-D Secure.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magabrotheeeer/checkout-handshake/internal/checkout"
	"github.com/magabrotheeeer/checkout-handshake/internal/config"
	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/paymentprovider"
	"github.com/magabrotheeeer/checkout-handshake/internal/relayclient"
)

const pollTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to config file (overrides CONFIG_PATH)")
	amount := flag.Int64("amount", 9996, "amount in minor units")
	currency := flag.String("currency", "usd", "ISO 4217 currency code")
	paymentMethod := flag.String("pm", "pm_card_visa", "test payment method id")
	flag.Parse()

	var cfg *config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		cfg = config.MustLoad()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *amount, *currency, *paymentMethod); err != nil {
		logger.Error("checkout failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, amount int64, currency, paymentMethod string) error {
	client := relayclient.New(cfg.RelayURL, cfg.TimeoutClient, logger)

	publishableKey, err := client.Config(ctx)
	if err != nil {
		return err
	}

	coreCfg := checkout.Config{MinAmount: cfg.MinAmount, ReturnURL: cfg.ReturnURL}
	reconciler := checkout.NewStatusReconciler(client, logger)
	widget := paymentprovider.NewWidget(publishableKey, cfg.APIURL, logger)
	orch := checkout.NewOrchestrator(widget, reconciler, coreCfg, logger,
		checkout.WithCompletion(func(out checkout.Outcome) {
			fmt.Printf("payment %s succeeded\n", out.IntentID)
		}),
	)
	orch.Subscribe(func(tr checkout.Transition) {
		if tr.Outcome.RedirectURL != "" {
			fmt.Printf("authentication required, open:\n  %s\n", tr.Outcome.RedirectURL)
		}
	})

	session := checkout.NewSession(checkout.NewIntentRequester(client, coreCfg, logger), orch, logger)
	defer session.Close()
	session.Subscribe(func(a checkout.Attempt) {
		logger.Info("attempt", slog.String("status", string(a.Status)), slog.String("intent_id", a.Handle.ID))
	})

	attempt, err := session.Begin(ctx, amount, currency)
	if err != nil {
		return err
	}

	attempt, err = session.Pay(ctx, paymentMethod)
	if err != nil {
		return err
	}
	if attempt.Status != checkout.AttemptProcessing {
		return nil
	}

	fmt.Print("press Enter after completing authentication...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()
	if _, err := reconciler.Poll(pollCtx, attempt.Handle.ID, cfg.PollInterval); err != nil {
		return err
	}

	attempt, err = session.Resume(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("final status: %s\n", attempt.Status)
	return nil
}
