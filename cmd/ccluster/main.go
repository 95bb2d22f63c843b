package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ccluster/internal/config"
	"ccluster/internal/logging"
	"ccluster/internal/predictor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes returned by predict.
const (
	exitValidation = 2
	exitService    = 3
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string
	timeout    time.Duration

	// Resolved at startup
	cfg    *config.Config
	logger *zap.Logger
)

// exitError carries a process exit code. The message, if any, has already
// been shown to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ccluster",
	Short: "ccluster - credit card cluster predictor",
	Long: `ccluster classifies a credit card customer into a behavioral cluster
using a remote clustering service.

Run without arguments to open the interactive predictor form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		// The popup owns the terminal; it only logs to a file.
		if !cmd.HasParent() {
			logger, err = logging.NewForTUI(cfg.Logging, verbose)
		} else {
			logger, err = logging.New(cfg.Logging, verbose)
		}
		if err != nil {
			return err
		}
		return nil
	},
	RunE: runPopup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.ccluster/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Clustering service base URL (or set CCLUSTER_API_URL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 = no timeout)")

	predictCmd.Flags().StringVar(&balanceFlag, "balance", "", "Account balance")
	predictCmd.Flags().StringVar(&purchasesFlag, "purchases", "", "Purchases amount")
	predictCmd.Flags().StringVar(&creditLimitFlag, "credit-limit", "", "Credit limit")

	for _, c := range []*cobra.Command{statusCmd, clustersCmd, summaryCmd} {
		c.Flags().BoolVar(&plainOutput, "plain", false, "Print raw markdown instead of rendering it")
	}

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(summaryCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command tree and returns the process exit code. The
// logger is flushed on every path, including failed commands.
func execute(ctx context.Context, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)
	if logger != nil {
		_ = logger.Sync()
	}
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(stderr, exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintln(stderr, err)
	return 1
}

// loadConfig reads the config file and applies flag overrides on top of the
// file and environment.
func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}

	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// resolveConfigPath returns --config or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func applyFlagOverrides(c *config.Config) {
	if apiURL != "" {
		c.API.BaseURL = apiURL
	}
	if timeout > 0 {
		c.API.Timeout = timeout.String()
	}
}

// newClient builds a service client from the resolved config.
func newClient(c *config.Config) *predictor.Client {
	return predictor.NewClientWithConfig(predictor.ClientConfig{
		BaseURL:     c.API.BaseURL,
		PredictPath: c.API.PredictPath,
		Timeout:     c.GetTimeout(),
		Logger:      logging.Get(logger, logging.CategoryAPI),
	})
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
