// Package popup implements the interactive predictor form: three numeric
// fields, one trigger and a result region that always shows the latest
// outcome.
package popup

import (
	"context"
	"errors"

	"ccluster/cmd/ccluster/ui"
	"ccluster/internal/predictor"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Focus positions. The trigger sits after the three inputs.
const (
	fieldBalance = iota
	fieldPurchases
	fieldCreditLimit
	focusButton

	focusCount
)

var (
	fieldLabels       = []string{"Balance", "Purchases", "Credit Limit"}
	fieldPlaceholders = []string{"e.g. 1500.00", "e.g. 300.00", "e.g. 5000.00"}
)

var errNoClassifier = errors.New("no classifier configured")

// predictionDoneMsg carries the result of one dispatched request.
type predictionDoneMsg struct {
	outcome predictor.Outcome
}

// ClassifierChangedMsg swaps the classifier used by later actions, e.g.
// after the config file was edited.
type ClassifierChangedMsg struct {
	Classifier predictor.Classifier
	Endpoint   string
}

// Options configures a new Model.
type Options struct {
	Classifier predictor.Classifier
	Endpoint   string
	Styles     ui.Styles
	Logger     *zap.Logger
	// Context bounds in-flight requests. Quitting cancels it.
	Context context.Context
}

// Model is the bubbletea model of the popup.
type Model struct {
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	styles  ui.Styles
	logger  *zap.Logger

	classifier predictor.Classifier
	endpoint   string

	ctx    context.Context
	cancel context.CancelFunc

	// busy is set while a request is outstanding; the trigger is disabled.
	busy    bool
	outcome *predictor.Outcome
	sent    int

	width    int
	quitting bool
}

// NewModel creates the popup model. Call once per process.
func NewModel(opts Options) Model {
	inputs := make([]textinput.Model, len(fieldLabels))
	for i, placeholder := range fieldPlaceholders {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = "> "
		ti.CharLimit = 32
		ti.Width = 24
		inputs[i] = ti
	}
	inputs[fieldBalance].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Spinner

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	return Model{
		inputs:     inputs,
		focus:      fieldBalance,
		spinner:    sp,
		styles:     opts.Styles,
		logger:     logger,
		classifier: opts.Classifier,
		endpoint:   opts.Endpoint,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case predictionDoneMsg:
		m.busy = false
		out := msg.outcome
		m.outcome = &out
		if out.Err != nil {
			m.logger.Warn("Prediction failed", zap.Error(out.Err))
		} else {
			m.logger.Info("Prediction rendered")
		}
		return m, nil

	case ClassifierChangedMsg:
		m.classifier = msg.Classifier
		m.endpoint = msg.Endpoint
		m.logger.Info("Endpoint updated", zap.String("endpoint", msg.Endpoint))
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyTab, tea.KeyDown:
		return m.setFocus((m.focus + 1) % focusCount), nil

	case tea.KeyShiftTab, tea.KeyUp:
		return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
	}

	return m.updateFocusedInput(msg)
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) setFocus(focus int) Model {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

// submit runs the trigger. It is ignored while a request is outstanding.
// Invalid input is reported immediately without dispatching anything.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		m.logger.Debug("Trigger ignored: request outstanding")
		return m, nil
	}

	req, err := predictor.ParseInputs(m.currentInputs())
	if err != nil {
		out := predictor.FailureOutcome(err)
		m.outcome = &out
		m.logger.Debug("Validation failed", zap.Error(err))
		return m, nil
	}

	if m.classifier == nil {
		out := predictor.FailureOutcome(errNoClassifier)
		m.outcome = &out
		return m, nil
	}

	m.busy = true
	m.sent++
	m.logger.Info("Prediction dispatched",
		zap.Float64("balance", req.Balance),
		zap.Float64("purchases", req.Purchases),
		zap.Float64("credit_limit", req.CreditLimit),
	)

	return m, tea.Batch(m.spinner.Tick, predictCmd(m.ctx, m.classifier, req))
}

func (m Model) currentInputs() predictor.Inputs {
	return predictor.Inputs{
		Balance:     m.inputs[fieldBalance].Value(),
		Purchases:   m.inputs[fieldPurchases].Value(),
		CreditLimit: m.inputs[fieldCreditLimit].Value(),
	}
}

// predictCmd performs the request off the update loop and reports back once.
func predictCmd(ctx context.Context, c predictor.Classifier, req predictor.PredictionRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Predict(ctx, req)
		if err != nil {
			return predictionDoneMsg{outcome: predictor.FailureOutcome(err)}
		}
		return predictionDoneMsg{outcome: predictor.SuccessOutcome(result)}
	}
}

// Outcome returns the outcome currently displayed, nil before the first action.
func (m Model) Outcome() *predictor.Outcome {
	return m.outcome
}

// Busy reports whether a request is outstanding.
func (m Model) Busy() bool {
	return m.busy
}

// Shutdown cancels any in-flight request. Safe to call more than once.
func (m Model) Shutdown() {
	m.cancel()
}
