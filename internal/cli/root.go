// Package cli provides the command-line interface for the portfolio tracker.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"portfolio-tracker/internal/config"
	"portfolio-tracker/internal/engine"
	apperrors "portfolio-tracker/internal/errors"
	"portfolio-tracker/internal/factory"
	"portfolio-tracker/internal/logging"
	"portfolio-tracker/internal/models"
	"portfolio-tracker/internal/reducer"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI. A nil cfg is loaded
// from the --config directory before any command runs.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio Tracker - allocation and budget engine",
		Long: `Portfolio Tracker applies actions to a portfolio state document and
reports valuations, budgets and reconciliation diffs.

State, actions, extracted rows and live prices are read from JSON files
(use - for stdin). Nothing is persisted; apply and prices write the
resulting state to stdout or to --out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				dir, _ := cmd.Flags().GetString("config")
				loaded, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = loaded
				app.Logger = logging.NewLoggerWithConfig(loaded.LogConfig())
			}
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			app.Logger = logging.WithOperation(app.Logger, cmd.Name())
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/portfolio-tracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Portfolio Tracker v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app)
			path := app.Config.Path
			if path == "" {
				path = config.TemplatePath(config.DefaultConfigDir())
			}
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Engine")
	output.Printf("  Cache capacity:   %d\n", cfg.Engine.CacheCapacity)
	output.Printf("  Currency:         %s\n", cfg.Engine.DefaultCurrency)
	output.Printf("  Portfolio name:   %s\n", cfg.Engine.DefaultPortfolioName)
	output.Printf("  Cash buffer name: %s\n", cfg.Engine.CashBufferName)
	output.Println()

	output.Bold("Live Prices")
	output.Printf("  Enabled:          %v\n", cfg.LivePrices.Enabled)
	output.Printf("  Interval:         %d min\n", cfg.LivePrices.UpdateIntervalMinutes)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:            %s\n", cfg.Logging.Level)
	output.Printf("  Console:          %v\n", cfg.Logging.Console)
	output.Printf("  File:             %v\n", cfg.Logging.File)
	if cfg.Logging.File {
		output.Printf("  File path:        %s\n", cfg.Logging.FilePath)
	}
}

// newEngine builds an engine over state, or over a fresh state shaped by
// the configuration when state is nil.
func (a *App) newEngine(state *models.AppState) *engine.Engine {
	f := factory.New()
	f.Currency = a.Config.Engine.DefaultCurrency
	f.CashBufferName = a.Config.Engine.CashBufferName

	if state == nil {
		state = f.NewAppState(a.Config.Engine.DefaultPortfolioName)
		settings := &state.Portfolios[0].Settings
		settings.EnableLivePricing = a.Config.LivePrices.Enabled
		settings.LivePriceUpdateInterval = a.Config.LivePrices.UpdateIntervalMinutes
	}

	return engine.New(state, engine.Options{
		CacheCapacity: a.Config.Engine.CacheCapacity,
		PortfolioName: a.Config.Engine.DefaultPortfolioName,
		Factory:       f,
		Logger:        a.Logger,
	})
}

// readInput returns the contents of path, or of stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func readJSON(cmd *cobra.Command, path string, target interface{}) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", apperrors.ErrInputValidation, path, err)
	}
	return nil
}

// loadState reads a state document. An empty path yields nil so that a
// fresh state is created.
func loadState(cmd *cobra.Command, path string) (*models.AppState, error) {
	if path == "" {
		return nil, nil
	}
	var state models.AppState
	if err := readJSON(cmd, path, &state); err != nil {
		return nil, err
	}
	if _, err := models.FindActivePortfolio(&state); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &state, nil
}

func loadActions(cmd *cobra.Command, path string) ([]reducer.Action, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	actions, err := reducer.DecodeActions(data)
	if err != nil {
		index := -1
		var derr *reducer.DecodeError
		if apperrors.As(err, &derr) {
			index = derr.Index
		}
		logging.LogDecodeError(*logging.FromContext(cmd.Context()), index, err)
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return actions, nil
}

// selectPortfolio returns the portfolio with id, or the active portfolio
// when id is empty.
func selectPortfolio(eng *engine.Engine, id string) (*models.Portfolio, error) {
	if id == "" {
		return eng.Active()
	}
	return models.LookupPortfolio(eng.State(), id)
}

// writeState writes state as indented JSON to out, or to the command
// output when out is empty.
func writeState(cmd *cobra.Command, out string, state *models.AppState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
