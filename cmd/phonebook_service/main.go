package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	// Platform packages
	"github.com/aradsms/assistant/internal/platform/config"
	"github.com/aradsms/assistant/internal/platform/logger"
	"github.com/aradsms/assistant/internal/platform/repl"

	// Phonebook service specific packages
	"github.com/aradsms/assistant/internal/phonebook_service/adapters/cli"
	phonebookApp "github.com/aradsms/assistant/internal/phonebook_service/app"
	"github.com/aradsms/assistant/internal/phonebook_service/repository"
)

const serviceName = "phonebook_service"

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "phonebook",
		Short:         "Interactive contact book",
		Long:          "Keeps contacts with phone numbers and birthdays. Snapshots are JSON, YAML (.yaml, .yml) or SQLite (.db, .sqlite, .sqlite3) depending on the file extension.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	flags := cmd.Flags()
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("prompt", "Enter a command: ", "prompt shown before each command")
	flags.String("data-file", "contacts.json", "address book loaded at startup and used by save and load")
	flags.Int("page-size", 5, "contacts per page for show all")
	flags.Bool("autosave", false, "save the address book when the session ends")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	mainCtx, mainCancel := context.WithCancel(cmd.Context())
	defer mainCancel()

	// Load Configuration
	cfg, err := config.Load(serviceName, cmd.Flags())
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		return err
	}

	// Initialize Logger
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()).With("service", serviceName)
	appLogger.Info("Configuration loaded",
		"config_file", cfg.ConfigFile,
		"data_file", cfg.PhonebookDataFile,
		"page_size", cfg.PhonebookPageSize,
		"autosave", cfg.PhonebookAutosave,
	)

	// Setup application components
	store := repository.NewRouter(appLogger)
	application := phonebookApp.NewApplication(store, appLogger)
	dispatcher := cli.NewDispatcher(application, appLogger, cli.Settings{
		DataFile: cfg.PhonebookDataFile,
		PageSize: cfg.PhonebookPageSize,
		Autosave: cfg.PhonebookAutosave,
	})

	out := cmd.OutOrStdout()
	if outcome := application.Load(mainCtx, cfg.PhonebookDataFile); outcome.Reset && !outcome.Missing() {
		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("Could not load %s, starting with an empty address book.", cfg.PhonebookDataFile)))
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	// REPL goroutine
	g.Go(func() error {
		defer mainCancel()
		return repl.Run(groupCtx, cmd.InOrStdin(), out, dispatcher, repl.Options{
			Prompt:      cfg.Prompt,
			PromptStyle: promptStyle,
			OnEOF:       dispatcher.Close,
		})
	})

	// Goroutine for handling termination signals
	g.Go(func() error {
		stopSignal := make(chan os.Signal, 1)
		signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stopSignal)
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
		case <-groupCtx.Done():
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		// Interrupted: finish the session the way an exit command would.
		fmt.Fprintln(out, dispatcher.Close(context.Background()))
		err = nil
	}
	if err != nil {
		appLogger.Error("Session ended with an error", "error", err)
		return err
	}
	appLogger.Info("Session closed")
	return nil
}
