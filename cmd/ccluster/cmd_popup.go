package main

import (
	"context"
	"fmt"

	"ccluster/cmd/ccluster/popup"
	"ccluster/cmd/ccluster/ui"
	"ccluster/internal/config"
	"ccluster/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runPopup launches the interactive predictor form.
func runPopup(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	log := logging.Get(logger, logging.CategoryUI)

	model := popup.NewModel(popup.Options{
		Classifier: newClient(cfg),
		Endpoint:   cfg.PredictURL(),
		Styles:     ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
		Logger:     log,
		Context:    ctx,
	})
	defer model.Shutdown()

	p := tea.NewProgram(model, tea.WithContext(ctx))

	if w := startConfigWatcher(ctx, p); w != nil {
		defer w.Close()
	}

	log.Info("Popup started", zap.String("endpoint", cfg.PredictURL()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("popup: %w", err)
	}
	return nil
}

// startConfigWatcher forwards config edits to the running popup. The config
// directory is created on start, so a config written later during the session
// is still picked up. Any watcher failure only disables live reload.
func startConfigWatcher(ctx context.Context, p *tea.Program) *config.Watcher {
	log := logging.Get(logger, logging.CategoryConfig)

	path, err := resolveConfigPath()
	if err != nil {
		log.Warn("Config reload disabled", zap.Error(err))
		return nil
	}

	w, err := config.NewWatcher(path, func(c *config.Config) {
		applyFlagOverrides(c)
		p.Send(popup.ClassifierChangedMsg{
			Classifier: newClient(c),
			Endpoint:   c.PredictURL(),
		})
	}, log)
	if err != nil {
		log.Warn("Config reload disabled", zap.Error(err))
		return nil
	}

	if err := w.Start(ctx); err != nil {
		log.Warn("Config reload disabled", zap.String("path", path), zap.Error(err))
		_ = w.Close()
		return nil
	}
	return w
}
