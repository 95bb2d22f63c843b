package main

import (
	"fmt"
	"sort"
	"strings"

	"ccluster/internal/logging"
	"ccluster/internal/predictor"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var plainOutput bool

// statusCmd shows the service state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show clustering service status, clusters and training data summary",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// clustersCmd shows the cluster centers
var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Show the cluster sizes and centers",
	Args:  cobra.NoArgs,
	RunE:  runClusters,
}

// summaryCmd shows the training data summary
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the training data summary",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := logging.Get(logger, logging.CategoryCLI)
	client := newClient(cfg)

	var (
		health  *predictor.Health
		info    predictor.ClusterInfo
		summary *predictor.DataSummary
	)

	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.Go(func() error {
		h, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("health: %w", err)
		}
		health = h
		return nil
	})
	g.Go(func() error {
		ci, err := client.ClusterInfo(ctx)
		if err != nil {
			return fmt.Errorf("cluster info: %w", err)
		}
		info = ci
		return nil
	})
	g.Go(func() error {
		s, err := client.DataSummary(ctx)
		if err != nil {
			return fmt.Errorf("data summary: %w", err)
		}
		summary = s
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("Status fetch failed", zap.Error(err))
		return err
	}

	var sb strings.Builder
	sb.WriteString("# Credit Card Clustering Service\n\n")
	fmt.Fprintf(&sb, "- **Endpoint:** `%s`\n", cfg.API.BaseURL)
	fmt.Fprintf(&sb, "- **Health:** %s\n\n", health.Message)
	sb.WriteString(clustersMarkdown(info))
	sb.WriteString("\n")
	sb.WriteString(summaryMarkdown(summary))

	return printMarkdown(cmd, sb.String())
}

func runClusters(cmd *cobra.Command, args []string) error {
	info, err := newClient(cfg).ClusterInfo(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("cluster info: %w", err)
	}
	return printMarkdown(cmd, clustersMarkdown(info))
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := newClient(cfg).DataSummary(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("data summary: %w", err)
	}
	return printMarkdown(cmd, summaryMarkdown(s))
}

// clustersMarkdown renders cluster stats as a table ordered by cluster name.
func clustersMarkdown(info predictor.ClusterInfo) string {
	names := make([]string, 0, len(info))
	for name := range info {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("## Clusters\n\n")
	if len(names) == 0 {
		sb.WriteString("_No clusters reported._\n")
		return sb.String()
	}

	sb.WriteString("| Cluster | Size | Balance | Purchases | Credit Limit |\n")
	sb.WriteString("|---|---:|---:|---:|---:|\n")
	for _, name := range names {
		c := info[name]
		fmt.Fprintf(&sb, "| %s | %d | %.3f | %.3f | %.3f |\n",
			name, c.Size, c.CenterBalance, c.CenterPurchases, c.CenterCreditLimit)
	}
	sb.WriteString("\nCenters are in standardized units.\n")
	return sb.String()
}

func summaryMarkdown(s *predictor.DataSummary) string {
	var sb strings.Builder
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|---|---:|\n")
	fmt.Fprintf(&sb, "| Customers | %d |\n", s.TotalCustomers)
	fmt.Fprintf(&sb, "| Average balance | %.2f |\n", s.AverageBalance)
	fmt.Fprintf(&sb, "| Average purchases | %.2f |\n", s.AveragePurchases)
	fmt.Fprintf(&sb, "| Average credit limit | %.2f |\n", s.AverageCreditLimit)

	missing := s.MissingValues
	if missing.Balance+missing.Purchases+missing.CreditLimit > 0 {
		fmt.Fprintf(&sb, "\nMissing values: balance %d, purchases %d, credit limit %d\n",
			missing.Balance, missing.Purchases, missing.CreditLimit)
	}
	return sb.String()
}

// printMarkdown renders md through glamour unless --plain is set. Rendering
// failures fall back to the raw text.
func printMarkdown(cmd *cobra.Command, md string) error {
	out := cmd.OutOrStdout()
	if plainOutput {
		_, err := fmt.Fprint(out, md)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if rendered, rerr := renderer.Render(md); rerr == nil {
			md = rendered
		}
	}
	_, err = fmt.Fprint(out, md)
	return err
}
