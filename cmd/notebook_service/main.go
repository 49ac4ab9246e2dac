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

	// Notebook service specific packages
	"github.com/aradsms/assistant/internal/notebook_service/adapters/cli"
	notebookApp "github.com/aradsms/assistant/internal/notebook_service/app"
	"github.com/aradsms/assistant/internal/notebook_service/repository/textfile"
)

const serviceName = "notebook_service"

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "notebook",
		Short:         "Interactive note keeper",
		Long:          "Keeps named notes in a text file, one \"name, title\" line per note. Every change is saved immediately.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	flags := cmd.Flags()
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("prompt", "Enter a command: ", "prompt shown before each command")
	flags.String("data-file", "notes.txt", "notes file")
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
	appLogger.Info("Configuration loaded", "config_file", cfg.ConfigFile, "data_file", cfg.NotebookDataFile)

	// Setup application components
	repo := textfile.NewNoteRepository(appLogger)
	application := notebookApp.NewApplication(repo, cfg.NotebookDataFile, appLogger)
	dispatcher := cli.NewDispatcher(application, appLogger)

	out := cmd.OutOrStdout()
	if _, err := application.Load(mainCtx); err != nil {
		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("Could not read %s, starting with no notes.", cfg.NotebookDataFile)))
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
