package rule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Rule is a deterministic categorization rule. Rules are append-only;
// activation is toggled outside this service.
type Rule struct {
	ID        int64
	Priority  int // lower evaluates first
	Condition Condition
	Action    Action
	Active    bool
	CreatedAt time.Time
}

// Action is what a matching rule applies to a transaction.
type Action struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
}

// Kind discriminates the condition variants. Modeling the stored JSON maps
// as a closed union keeps key typos from silently matching nothing.
type Kind string

const (
	KindAnd         Kind = "and"
	KindOr          Kind = "or"
	KindContains    Kind = "contains"
	KindRegex       Kind = "regex"
	KindMCC         Kind = "mcc"
	KindMCCIn       Kind = "mcc_in"
	KindAmountRange Kind = "amount_range"
	KindAccount     Kind = "account"
	KindDirection   Kind = "direction"
	KindUnknown     Kind = "unknown"
)

// Condition is one node of a rule's boolean expression tree.
//
// Exactly one variant is populated, selected by Kind. The stored form is a
// single-key JSON mapping ({"contains": "NETFLIX"}, {"and": [...]}, ...);
// a mapping with several recognized keys is an input error and resolves to
// the first key in evaluation order.
type Condition struct {
	Kind     Kind
	Children []Condition // and, or
	Value    string      // contains, regex, mcc, account, direction
	Values   []string    // mcc_in
	Min, Max int64       // amount_range, inclusive bounds in minor units

	rawKey string // original key of an unknown condition, kept for logging
}

// conditionKeys maps every recognized storage key to its variant, in
// evaluation order. "all" and "any" are aliases for "and" and "or".
var conditionKeys = []struct {
	key  string
	kind Kind
}{
	{"and", KindAnd},
	{"all", KindAnd},
	{"or", KindOr},
	{"any", KindOr},
	{"contains", KindContains},
	{"regex", KindRegex},
	{"mcc", KindMCC},
	{"mcc_in", KindMCCIn},
	{"amount_range", KindAmountRange},
	{"account", KindAccount},
	{"direction", KindDirection},
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("condition must be an object: %w", err)
	}

	for _, entry := range conditionKeys {
		payload, ok := raw[entry.key]
		if !ok {
			continue
		}

		return c.decodeVariant(entry.kind, entry.key, payload)
	}

	// Unrecognized conditions are preserved and evaluate to false.
	c.Kind = KindUnknown
	for key := range raw {
		c.rawKey = key
		break
	}

	return nil
}

func (c *Condition) decodeVariant(kind Kind, key string, payload json.RawMessage) error {
	c.Kind = kind

	switch kind {
	case KindAnd, KindOr:
		if err := json.Unmarshal(payload, &c.Children); err != nil {
			return fmt.Errorf("decoding %q sub-conditions: %w", key, err)
		}

	case KindContains, KindRegex, KindMCC, KindAccount, KindDirection:
		if err := json.Unmarshal(payload, &c.Value); err != nil {
			return fmt.Errorf("decoding %q value: %w", key, err)
		}

	case KindMCCIn:
		if err := json.Unmarshal(payload, &c.Values); err != nil {
			return fmt.Errorf("decoding %q list: %w", key, err)
		}

	case KindAmountRange:
		var bounds []int64
		if err := json.Unmarshal(payload, &bounds); err != nil {
			return fmt.Errorf("decoding %q bounds: %w", key, err)
		}

		if len(bounds) != 2 {
			return fmt.Errorf("%q requires exactly [min, max], got %d elements", key, len(bounds))
		}

		c.Min, c.Max = bounds[0], bounds[1]
	}

	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindAnd, KindOr:
		children := c.Children
		if children == nil {
			children = []Condition{}
		}

		return json.Marshal(map[string][]Condition{string(c.Kind): children})
	case KindContains, KindRegex, KindMCC, KindAccount, KindDirection:
		return json.Marshal(map[string]string{string(c.Kind): c.Value})
	case KindMCCIn:
		return json.Marshal(map[string][]string{string(c.Kind): c.Values})
	case KindAmountRange:
		return json.Marshal(map[string][2]int64{string(c.Kind): {c.Min, c.Max}})
	default:
		return json.Marshal(map[string]any{c.rawKey: nil})
	}
}

// And builds a conjunction node. Empty input is vacuously true.
func And(children ...Condition) Condition {
	return Condition{Kind: KindAnd, Children: children}
}

// Or builds a disjunction node. Empty input is false.
func Or(children ...Condition) Condition {
	return Condition{Kind: KindOr, Children: children}
}

func Contains(substring string) Condition {
	return Condition{Kind: KindContains, Value: substring}
}

func Regex(pattern string) Condition {
	return Condition{Kind: KindRegex, Value: pattern}
}

func MCC(code string) Condition {
	return Condition{Kind: KindMCC, Value: code}
}

func MCCIn(codes ...string) Condition {
	return Condition{Kind: KindMCCIn, Values: codes}
}

func AmountRange(minCents, maxCents int64) Condition {
	return Condition{Kind: KindAmountRange, Min: minCents, Max: maxCents}
}

func Account(account string) Condition {
	return Condition{Kind: KindAccount, Value: account}
}

func Direction(direction string) Condition {
	return Condition{Kind: KindDirection, Value: direction}
}
