package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/taskflow/internal/app"
	"github.com/abatilo/taskflow/internal/category"
	"github.com/abatilo/taskflow/internal/config"
	"github.com/abatilo/taskflow/internal/output"
	"github.com/abatilo/taskflow/internal/storage"
	"github.com/abatilo/taskflow/internal/store"
)

//nolint:gochecknoglobals // CLI flags and formatter are package-level by design
var (
	jsonOutput bool
	verbose    bool
	formatter  output.Formatter
	logger     *slog.Logger
	cfg        config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskflow",
		Short: "A personal task tracker",
		Long:  "taskflow - create, edit, complete, filter and search personal tasks stored locally.",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setup()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		addCmd(),
		editCmd(),
		listCmd(),
		showCmd(),
		toggleCmd(),
		rmCmd(),
		statsCmd(),
		categoriesCmd(),
		exportCmd(),
		serveCmd(),
	)
	return rootCmd
}

// setup loads configuration, builds the logger and picks the formatter.
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	categories := category.Default()
	if jsonOutput {
		formatter = output.NewJSONFormatter(categories, time.Now)
	} else {
		formatter = output.NewHumanFormatter(categories, time.Now)
	}
	return nil
}

// openApp opens the configured slot and assembles the application. The
// returned closer releases the slot backend.
func openApp() (*app.App, io.Closer, error) {
	slot, closer, err := storage.OpenSlot(cfg.Backend, cfg.DataDir, cfg.Slot)
	if err != nil {
		return nil, closer, err
	}
	logger.Debug("opened slot", slog.String("backend", cfg.Backend), slog.String("slot", slot.Name()))

	s := store.New(storage.NewAdapter(slot, logger), store.WithLogger(logger))
	return app.New(s, category.Default(), app.WithLogger(logger)), closer, nil
}

// withApp runs fn against a freshly opened App and prints any error.
func withApp(fn func(a *app.App) error) {
	a, closer, err := openApp()
	if err != nil {
		printError(err)
	}
	defer closer.Close()
	defer a.Close()

	if err = fn(a); err != nil {
		closer.Close()
		printError(err)
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

func printMessage(format string, args ...any) {
	printOutput(formatter.FormatMessage(fmt.Sprintf(format, args...)))
}
