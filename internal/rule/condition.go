package rule

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/mmartins/centsible/internal/transaction"
)

// maxConditionDepth bounds recursion over the condition tree. Stored rules
// never get close; this guards programmatically built trees.
const maxConditionDepth = 32

// ConditionError reports a condition that cannot be evaluated, such as a
// malformed regex pattern. It is propagated, not swallowed; the rule engine
// decides what to do with the affected rule.
type ConditionError struct {
	Kind Kind
	Err  error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition %q: %v", e.Kind, e.Err)
}

func (e *ConditionError) Unwrap() error { return e.Err }

// Evaluate reports whether the condition tree matches the transaction.
func Evaluate(tx *transaction.Transaction, cond Condition) (bool, error) {
	return evaluate(tx, cond, 0)
}

func evaluate(tx *transaction.Transaction, cond Condition, depth int) (bool, error) {
	if depth > maxConditionDepth {
		return false, &ConditionError{Kind: cond.Kind, Err: fmt.Errorf("nesting exceeds %d levels", maxConditionDepth)}
	}

	switch cond.Kind {
	case KindAnd:
		// Vacuous truth: an empty conjunction matches.
		for _, child := range cond.Children {
			ok, err := evaluate(tx, child, depth+1)
			if err != nil {
				return false, err
			}

			if !ok {
				return false, nil
			}
		}

		return true, nil

	case KindOr:
		for _, child := range cond.Children {
			ok, err := evaluate(tx, child, depth+1)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil

	case KindContains:
		return strings.Contains(
			strings.ToLower(tx.RawDescriptor),
			strings.ToLower(cond.Value),
		), nil

	case KindRegex:
		// Search semantics, case-insensitive, same as the stored rules expect.
		re, err := regexp.Compile("(?i)" + cond.Value)
		if err != nil {
			return false, &ConditionError{Kind: KindRegex, Err: err}
		}

		return re.MatchString(tx.RawDescriptor), nil

	case KindMCC:
		if tx.MCC == "" {
			return false, nil
		}

		return tx.MCC == cond.Value, nil

	case KindMCCIn:
		if tx.MCC == "" {
			return false, nil
		}

		return slices.Contains(cond.Values, tx.MCC), nil

	case KindAmountRange:
		return cond.Min <= tx.AmountCents && tx.AmountCents <= cond.Max, nil

	case KindAccount:
		return tx.SourceAccount == cond.Value, nil

	case KindDirection:
		return string(tx.Direction) == cond.Value, nil

	default:
		// Permissive miss: unknown conditions never match and never fail.
		slog.Warn("unknown condition type", "key", cond.rawKey)
		return false, nil
	}
}
