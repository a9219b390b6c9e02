package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/betweenus/internal/catalog"
	"github.com/conorfennell/betweenus/internal/config"
	"github.com/conorfennell/betweenus/internal/gitsource"
	"github.com/conorfennell/betweenus/internal/history"
	"github.com/conorfennell/betweenus/internal/session"
	"github.com/conorfennell/betweenus/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "betweenus: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	// 1. Configuration and logging
	cfg, err := config.Load("betweenus", args)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// 2. Persistent store
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logger.Debug("Database opened", "path", cfg.DB)

	// 3. Card content
	if cfg.CatalogRepo != "" {
		if err := gitsource.Sync(ctx, cfg.CatalogRepo, cfg.ContentDir, errOut); err != nil {
			return fmt.Errorf("sync catalog: %w", err)
		}
	}
	cat, err := catalog.Load(cfg.CatalogPath())
	if err != nil {
		return err
	}

	// 4. Collections and one-off maintenance
	hist := history.NewManager(db)
	if cfg.ImportQuestions != "" {
		n, err := hist.ImportCustomQuestions(cfg.ImportQuestions)
		if err != nil {
			return err
		}
		logger.Info("Imported custom questions", "path", cfg.ImportQuestions, "count", n)
	}
	if cfg.ResetHistory {
		if err := hist.ResetPlayedHistory(); err != nil {
			return fmt.Errorf("reset played history: %w", err)
		}
		logger.Info("Played history cleared")
	}

	// 5. The game and its loop
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("Shuffle seed", "seed", seed)
	sched := session.NewLoopScheduler()
	defer sched.Close()
	game := session.New(cat, db, hist, session.Options{
		Scheduler:   sched,
		Rand:        rand.New(rand.NewSource(seed)),
		Logger:      logger,
		RevealDelay: cfg.RevealDelay,
		ProgressTTL: cfg.ProgressTTL,
	})

	term := newTerminal(game, hist, out)
	game.Subscribe(term.render)
	term.render(game.Snapshot())

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-sched.Events():
			fn()
		case line, ok := <-lines:
			if !ok || term.handle(line) {
				return nil
			}
		}
	}
}
