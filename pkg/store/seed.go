package store

import (
	"context"
	"fmt"
	"time"
)

// Seed inserts starter rows for a local demo: one supervisor, one customer and
// one knowledge entry. Each table is only seeded when it is empty, so calling
// Seed on every startup is safe.
func (s *Store) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM supervisors").Scan(&count); err != nil {
		return fmt.Errorf("failed to count supervisors: %w", err)
	}
	if count == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO supervisors (name, email) VALUES (?, ?)",
			"Alice Supervisor", "alice@example.com",
		); err != nil {
			return fmt.Errorf("failed to seed supervisor: %w", err)
		}
	}

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if count == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO customers (name, phone, created_at) VALUES (?, ?, ?)",
			"Demo Customer", "+15550001", now,
		); err != nil {
			return fmt.Errorf("failed to seed customer: %w", err)
		}
	}

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM knowledge_base").Scan(&count); err != nil {
		return fmt.Errorf("failed to count knowledge entries: %w", err)
	}
	if count == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO knowledge_base (question_text, answer_text, created_by, created_at) VALUES (?, ?, ?, ?)",
			"What are your hours?", "We are open Mon-Sat 9am-7pm", "seed", now,
		); err != nil {
			return fmt.Errorf("failed to seed knowledge entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	s.log.Info("Seed complete")
	return nil
}
