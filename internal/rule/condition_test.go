package rule_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmartins/centsible/internal/rule"
	"github.com/mmartins/centsible/internal/transaction"
)

func sampleTx() *transaction.Transaction {
	return &transaction.Transaction{
		ID:            1,
		AmountCents:   784,
		Direction:     transaction.DirectionDebit,
		RawDescriptor: "TST* STARBUCKS 1234",
		MCC:           "5814",
		SourceAccount: "amex",
	}
}

func TestEvaluate_Leaves(t *testing.T) {
	type testCase struct {
		name string
		tx   *transaction.Transaction
		cond rule.Condition
		want bool
	}

	noMCC := sampleTx()
	noMCC.MCC = ""

	tests := []testCase{
		{"ContainsMatch", sampleTx(), rule.Contains("starbucks"), true},
		{"ContainsCaseInsensitive", sampleTx(), rule.Contains("StArBuCkS"), true},
		{"ContainsMiss", sampleTx(), rule.Contains("NETFLIX"), false},
		{"RegexSearchNotFullMatch", sampleTx(), rule.Regex("STARBUCKS"), true},
		{"RegexCaseInsensitive", sampleTx(), rule.Regex("^tst\\*"), true},
		{"RegexMiss", sampleTx(), rule.Regex("^STARBUCKS"), false},
		{"MCCMatch", sampleTx(), rule.MCC("5814"), true},
		{"MCCMiss", sampleTx(), rule.MCC("5411"), false},
		{"MCCAbsent", noMCC, rule.MCC("5814"), false},
		{"MCCInMatch", sampleTx(), rule.MCCIn("5411", "5814"), true},
		{"MCCInMiss", sampleTx(), rule.MCCIn("5411", "5422"), false},
		{"MCCInAbsent", noMCC, rule.MCCIn("5814"), false},
		{"AmountRangeInside", sampleTx(), rule.AmountRange(100, 1000), true},
		{"AmountRangeAtMin", sampleTx(), rule.AmountRange(784, 1000), true},
		{"AmountRangeAtMax", sampleTx(), rule.AmountRange(100, 784), true},
		{"AmountRangeBelow", sampleTx(), rule.AmountRange(785, 1000), false},
		{"AmountRangeAbove", sampleTx(), rule.AmountRange(100, 783), false},
		{"AccountMatch", sampleTx(), rule.Account("amex"), true},
		{"AccountMiss", sampleTx(), rule.Account("checking"), false},
		{"DirectionMatch", sampleTx(), rule.Direction("debit"), true},
		{"DirectionMiss", sampleTx(), rule.Direction("credit"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rule.Evaluate(tt.tx, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Logical(t *testing.T) {
	tx := sampleTx()

	matching := rule.Contains("STARBUCKS")
	missing := rule.Contains("NETFLIX")

	// and/or compose like the boolean operators they name.
	for _, c1 := range []rule.Condition{matching, missing} {
		for _, c2 := range []rule.Condition{matching, missing} {
			r1, err := rule.Evaluate(tx, c1)
			require.NoError(t, err)
			r2, err := rule.Evaluate(tx, c2)
			require.NoError(t, err)

			andGot, err := rule.Evaluate(tx, rule.And(c1, c2))
			require.NoError(t, err)
			assert.Equal(t, r1 && r2, andGot)

			orGot, err := rule.Evaluate(tx, rule.Or(c1, c2))
			require.NoError(t, err)
			assert.Equal(t, r1 || r2, orGot)
		}
	}
}

func TestEvaluate_EmptyOperands(t *testing.T) {
	tx := sampleTx()

	got, err := rule.Evaluate(tx, rule.And())
	require.NoError(t, err)
	assert.True(t, got, "empty conjunction is vacuously true")

	got, err = rule.Evaluate(tx, rule.Or())
	require.NoError(t, err)
	assert.False(t, got, "empty disjunction is false")
}

func TestEvaluate_Nested(t *testing.T) {
	tx := sampleTx()

	cond := rule.And(
		rule.Or(rule.MCC("5814"), rule.MCC("5411")),
		rule.AmountRange(0, 1000),
		rule.Direction("debit"),
	)

	got, err := rule.Evaluate(tx, cond)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvaluate_MalformedRegex(t *testing.T) {
	_, err := rule.Evaluate(sampleTx(), rule.Regex("[unclosed"))
	require.Error(t, err)

	var condErr *rule.ConditionError
	assert.ErrorAs(t, err, &condErr)
	assert.Equal(t, rule.KindRegex, condErr.Kind)
}

func TestEvaluate_UnknownKindIsFalse(t *testing.T) {
	var cond rule.Condition
	require.NoError(t, json.Unmarshal([]byte(`{"vendor_id": 12}`), &cond))
	assert.Equal(t, rule.KindUnknown, cond.Kind)

	got, err := rule.Evaluate(sampleTx(), cond)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvaluate_DepthLimit(t *testing.T) {
	cond := rule.Contains("STARBUCKS")
	for range 40 {
		cond = rule.And(cond)
	}

	_, err := rule.Evaluate(sampleTx(), cond)
	require.Error(t, err)

	var condErr *rule.ConditionError
	assert.ErrorAs(t, err, &condErr)
}

func TestCondition_UnmarshalJSON(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  rule.Condition
	}

	tests := []testCase{
		{"Contains", `{"contains": "NETFLIX"}`, rule.Contains("NETFLIX")},
		{"Regex", `{"regex": "^STARBUCKS.*"}`, rule.Regex("^STARBUCKS.*")},
		{"MCC", `{"mcc": "5411"}`, rule.MCC("5411")},
		{"MCCIn", `{"mcc_in": ["5411", "5422"]}`, rule.MCCIn("5411", "5422")},
		{"AmountRange", `{"amount_range": [1000, 50000]}`, rule.AmountRange(1000, 50000)},
		{"Account", `{"account": "amex_blue_cash"}`, rule.Account("amex_blue_cash")},
		{"Direction", `{"direction": "debit"}`, rule.Direction("debit")},
		{
			"Nested",
			`{"and": [{"contains": "UBER"}, {"or": [{"mcc": "4121"}, {"mcc": "4111"}]}]}`,
			rule.And(rule.Contains("UBER"), rule.Or(rule.MCC("4121"), rule.MCC("4111"))),
		},
		{"AllAlias", `{"all": [{"contains": "A"}]}`, rule.And(rule.Contains("A"))},
		{"AnyAlias", `{"any": [{"contains": "A"}]}`, rule.Or(rule.Contains("A"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got rule.Condition
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCondition_UnmarshalJSON_Invalid(t *testing.T) {
	var cond rule.Condition

	assert.Error(t, json.Unmarshal([]byte(`{"amount_range": [100]}`), &cond),
		"amount_range needs both bounds")
	assert.Error(t, json.Unmarshal([]byte(`"contains"`), &cond),
		"conditions must be objects")
}

func TestCondition_JSONRoundTrip(t *testing.T) {
	orig := rule.And(
		rule.Contains("UBER"),
		rule.Or(rule.MCCIn("4121", "4111"), rule.AmountRange(500, 2500)),
		rule.Direction("debit"),
	)

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var back rule.Condition
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, orig, back)
}
