package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
)

// DispatchOutcome classifies how a piece of text was handled.
type DispatchOutcome string

const (
	OutcomeExecuted     DispatchOutcome = "executed"
	OutcomePassthrough  DispatchOutcome = "passthrough"
	OutcomeParseError   DispatchOutcome = "parse_error"
	OutcomeHandlerError DispatchOutcome = "handler_error"
)

// DispatchResult is always displayable; Reply is never empty unless the input was.
type DispatchResult struct {
	Reply   string          `json:"reply"`
	Action  string          `json:"action,omitempty"`
	Outcome DispatchOutcome `json:"outcome"`
}

// Dispatcher runs the command embedded in text, if any, through the registry.
type Dispatcher struct {
	registry  *ActionRegistry
	extractor *CommandExtractor
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewDispatcher constructs a Dispatcher. The extractor scans for the registry's action names.
func NewDispatcher(registry *ActionRegistry, quoteAware bool, metrics *MetricsService, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		registry:  registry,
		extractor: NewCommandExtractor(registry.Names(), quoteAware),
		metrics:   metrics,
		logger:    logger,
	}
}

// Registry exposes the action registry.
func (d *Dispatcher) Registry() *ActionRegistry {
	return d.registry
}

// Dispatch executes the first recognised command. A successful handler reply replaces the whole
// text; an unparsable command keeps the text and appends a diagnostic; no command leaves the text
// untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) DispatchResult {
	cmd, err := d.extractor.Extract(text)
	if err != nil {
		var parseErr *ParseError
		action := ""
		if errors.As(err, &parseErr) {
			action = parseErr.Action
		}
		d.logger.Warn("command parse failed", zap.String("action", action), zap.Error(err))
		return d.finish(DispatchResult{
			Reply:   text + "\n\n❌ Erreur JSON: " + err.Error(),
			Action:  action,
			Outcome: OutcomeParseError,
		})
	}
	if cmd == nil {
		return d.finish(DispatchResult{Reply: text, Outcome: OutcomePassthrough})
	}

	def, ok := d.registry.Lookup(cmd.Action)
	if !ok {
		err := appErrors.Clone(appErrors.ErrUnknownAction, fmt.Sprintf("action %s inconnue", cmd.Action))
		return d.finish(DispatchResult{Reply: "❌ Erreur: " + err.Error(), Action: cmd.Action, Outcome: OutcomeHandlerError})
	}

	reply, err := def.Handler.Handle(ctx, cmd.Payload)
	if err != nil {
		d.logger.Warn("action failed", zap.String("action", cmd.Action), zap.Error(err))
		return d.finish(DispatchResult{Reply: "❌ Erreur: " + err.Error(), Action: cmd.Action, Outcome: OutcomeHandlerError})
	}

	d.logger.Info("action executed", zap.String("action", cmd.Action), zap.String("kind", string(def.Kind)))
	return d.finish(DispatchResult{Reply: reply, Action: cmd.Action, Outcome: OutcomeExecuted})
}

func (d *Dispatcher) finish(result DispatchResult) DispatchResult {
	d.metrics.RecordDispatch(result.Action, result.Outcome)
	return result
}
