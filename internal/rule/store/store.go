package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mmartins/centsible/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListActiveRules(ctx context.Context) ([]*rule.Rule, error) {
	query := `
		SELECT id, priority, condition, action, active, created_at
		FROM rules
		WHERE active = TRUE
		ORDER BY priority ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active rules: %w", err)
	}
	defer rows.Close()

	var rules []*rule.Rule

	for rows.Next() {
		var (
			r             rule.Rule
			conditionJSON []byte
			actionJSON    []byte
		)

		if err := rows.Scan(&r.ID, &r.Priority, &conditionJSON, &actionJSON, &r.Active, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		if err := json.Unmarshal(conditionJSON, &r.Condition); err != nil {
			return nil, fmt.Errorf("decoding condition of rule %d: %w", r.ID, err)
		}

		if err := json.Unmarshal(actionJSON, &r.Action); err != nil {
			return nil, fmt.Errorf("decoding action of rule %d: %w", r.ID, err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rule rows: %w", err)
	}

	return rules, nil
}

// CreateRule appends a rule. Rules are never updated in place; deactivation
// happens outside this service.
func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	conditionJSON, err := json.Marshal(r.Condition)
	if err != nil {
		return fmt.Errorf("encoding condition: %w", err)
	}

	actionJSON, err := json.Marshal(r.Action)
	if err != nil {
		return fmt.Errorf("encoding action: %w", err)
	}

	query := `
		INSERT INTO rules (priority, condition, action, active, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, r.Priority, conditionJSON, actionJSON, r.Active).
		Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
