package main

import (
	"errors"
	"fmt"

	"ccluster/cmd/ccluster/popup"
	"ccluster/cmd/ccluster/ui"
	"ccluster/internal/logging"
	"ccluster/internal/predictor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	balanceFlag     string
	purchasesFlag   string
	creditLimitFlag string
)

// predictCmd runs a single prediction without the form
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify one customer",
	Long: `Sends one prediction request and prints the result.

Exit codes:
  0  classified
  2  an input is empty or not a number
  3  the service could not be reached or replied badly

Example:
  ccluster predict --balance 1500 --purchases 300 --credit-limit 5000`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	log := logging.Get(logger, logging.CategoryCLI)
	client := newClient(cfg)

	out := predictor.Run(commandContext(cmd), client, predictor.Inputs{
		Balance:     balanceFlag,
		Purchases:   purchasesFlag,
		CreditLimit: creditLimitFlag,
	})

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	fmt.Fprintln(cmd.OutOrStdout(), popup.RenderOutcome(styles, out, 0))

	if out.IsSuccess() {
		log.Debug("Prediction succeeded", zap.String("endpoint", client.PredictURL()))
		return nil
	}

	var vErr *predictor.ValidationError
	if errors.As(out.Err, &vErr) {
		log.Debug("Invalid input", zap.Error(out.Err))
		return &exitError{code: exitValidation}
	}
	log.Warn("Prediction failed", zap.String("endpoint", client.PredictURL()), zap.Error(out.Err))
	return &exitError{code: exitService}
}
