package rule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmartins/centsible/internal/transaction"
)

//go:generate mockgen -source=engine.go -destination=repository_mock.go -package=rule
type Repository interface {
	// ListActiveRules returns active rules ordered by priority ascending,
	// with the rule id as a stable tie-break.
	ListActiveRules(ctx context.Context) ([]*Rule, error)
}

// Engine applies the active rule set to transactions, first match wins.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// Apply evaluates active rules in priority order and returns the action of
// the first rule whose condition matches, or nil when nothing matches.
//
// A rule whose condition cannot be evaluated (malformed regex, excessive
// nesting) is logged and skipped; one bad rule never aborts the pass.
func (e *Engine) Apply(ctx context.Context, tx *transaction.Transaction) (*Action, error) {
	rules, err := e.repo.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active rules: %w", err)
	}

	slog.Debug("evaluating rules",
		"count", len(rules),
		"transaction_id", tx.ID,
		"descriptor", tx.RawDescriptor)

	for _, r := range rules {
		matched, err := Evaluate(tx, r.Condition)
		if err != nil {
			slog.Error("skipping rule after evaluation error",
				"rule_id", r.ID,
				"transaction_id", tx.ID,
				"error", err)

			continue
		}

		if matched {
			slog.Info("rule matched",
				"rule_id", r.ID,
				"priority", r.Priority,
				"transaction_id", tx.ID,
				"category", r.Action.Category)

			action := r.Action

			return &action, nil
		}
	}

	return nil, nil
}
