package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/choredeck/internal/chores"
	"github.com/sadopc/choredeck/internal/config"
	"github.com/sadopc/choredeck/internal/grocy"
	"github.com/sadopc/choredeck/internal/journal"
	"github.com/sadopc/choredeck/internal/logging"
	"github.com/sadopc/choredeck/internal/tui"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	log, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	j, err := journal.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer j.Close()

	client := grocy.NewClient(grocy.Config{
		Host:    cfg.GrocyHost,
		APIKey:  cfg.GrocyAPIKey,
		Timeout: cfg.HTTPTimeout,
	}, log)

	store := chores.New(client, chores.WithJournal(j), chores.WithLogger(log))

	// The chore list cannot be labelled without users.
	if _, err := store.LoadUsers(context.Background()); err != nil {
		log.Error("startup failed", zap.Error(err))
		return fmt.Errorf("%w (%s)", err, chores.UserMessage(err))
	}

	app := tui.NewApp(store, j, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Store mutations only happen inside commands, so Send never blocks the
	// event loop it feeds.
	unsubscribe := store.Subscribe(func(ev chores.Event) {
		p.Send(tui.StoreChanged(ev))
	})
	defer unsubscribe()

	log.Info("starting", zap.String("grocy", cfg.GrocyHost))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
