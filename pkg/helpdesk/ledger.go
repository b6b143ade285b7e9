package helpdesk

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Ledger is the durable record of every escalation. It exclusively owns
// help-request lifecycle transitions; every mutating operation runs in a
// single transaction so partial updates are never observable.
type Ledger struct {
	db  *sql.DB
	ttl time.Duration
	log *zap.SugaredLogger
}

// NewLedger creates a request ledger. ttl is the fixed pending-request
// time-to-live for the whole system.
func NewLedger(db *sql.DB, ttl time.Duration, log *zap.SugaredLogger) *Ledger {
	return &Ledger{db: db, ttl: ttl, log: log.Named("ledger")}
}

// TTL returns the configured pending-request time-to-live.
func (l *Ledger) TTL() time.Duration {
	return l.ttl
}

// Create allocates a new pending request for an existing customer with
// timeoutAt = now + TTL.
func (l *Ledger) Create(ctx context.Context, customerID int64, questionText string) (*HelpRequest, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := l.insertRequest(ctx, tx, customerID, questionText)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit help request: %w", err)
	}
	return req, nil
}

// Escalate resolves or creates the customer identified by caller.Phone and
// creates a pending request for it, all in one transaction. The phone lookup
// takes the first match when duplicates exist.
func (l *Ledger) Escalate(ctx context.Context, caller Caller, questionText string) (*HelpRequest, *Customer, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	customer := &Customer{}
	err = tx.QueryRowContext(ctx,
		"SELECT id, name, phone, created_at FROM customers WHERE phone = ? ORDER BY id LIMIT 1",
		caller.Phone,
	).Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.CreatedAt)
	switch err {
	case nil:
	case sql.ErrNoRows:
		now := time.Now().UTC()
		res, insertErr := tx.ExecContext(ctx,
			"INSERT INTO customers (name, phone, created_at) VALUES (?, ?, ?)",
			caller.Name, caller.Phone, now,
		)
		if insertErr != nil {
			return nil, nil, fmt.Errorf("failed to create customer: %w", insertErr)
		}
		id, insertErr := res.LastInsertId()
		if insertErr != nil {
			return nil, nil, fmt.Errorf("failed to read customer id: %w", insertErr)
		}
		customer = &Customer{ID: id, Name: caller.Name, Phone: caller.Phone, CreatedAt: now}
	default:
		return nil, nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	req, err := l.insertRequest(ctx, tx, customer.ID, questionText)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit escalation: %w", err)
	}

	l.log.Infow("Help request created", "requestID", req.ID, "customerID", customer.ID)
	return req, customer, nil
}

func (l *Ledger) insertRequest(ctx context.Context, tx *sql.Tx, customerID int64, questionText string) (*HelpRequest, error) {
	now := time.Now().UTC()
	timeoutAt := now.Add(l.ttl)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO help_requests (customer_id, question_text, created_at, state, timeout_at)
		VALUES (?, ?, ?, ?, ?)`,
		customerID, questionText, now, StatePending, timeoutAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create help request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read help request id: %w", err)
	}

	return &HelpRequest{
		ID:           id,
		CustomerID:   customerID,
		QuestionText: questionText,
		CreatedAt:    now,
		State:        StatePending,
		TimeoutAt:    timeoutAt,
	}, nil
}

// Get retrieves a request by id. Returns ErrNotFound for unknown ids.
func (l *Ledger) Get(ctx context.Context, id int64) (*HelpRequest, error) {
	req, err := scanRequest(l.db.QueryRowContext(ctx,
		selectRequestColumns+" FROM help_requests WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get help request: %w", err)
	}
	return req, nil
}

// List returns requests newest first, optionally restricted to one state.
func (l *Ledger) List(ctx context.Context, stateFilter State) ([]HelpRequest, error) {
	query := selectRequestColumns + " FROM help_requests"
	args := []any{}
	if stateFilter != "" {
		query += " WHERE state = ?"
		args = append(args, stateFilter)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list help requests: %w", err)
	}
	defer rows.Close()

	var requests []HelpRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate help requests: %w", err)
	}
	return requests, nil
}

// LearnFunc runs inside the resolve transaction, after the request row is
// updated and before the commit. An error aborts the whole resolution.
type LearnFunc func(ctx context.Context, tx *sql.Tx, req *HelpRequest) error

// Resolve transitions a request to resolved and records the supervisor
// answer. The transition is unconditional: a request already expired to
// unresolved still becomes resolved, because a late human answer always wins
// over a timeout. Returns ErrNotFound for unknown ids. A non-nil learn runs
// in the same transaction, so the resolution and whatever learn writes commit
// as one unit.
func (l *Ledger) Resolve(ctx context.Context, id int64, responseText string, supervisorID *int64, learn LearnFunc) (*HelpRequest, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := scanRequest(tx.QueryRowContext(ctx,
		selectRequestColumns+" FROM help_requests WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get help request: %w", err)
	}

	now := time.Now().UTC()
	var assigned sql.NullInt64
	if supervisorID != nil {
		assigned = sql.NullInt64{Int64: *supervisorID, Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE help_requests
		SET state = ?, response_text = ?, response_at = ?, assigned_supervisor_id = ?
		WHERE id = ?`,
		StateResolved, responseText, now, assigned, id,
	); err != nil {
		return nil, fmt.Errorf("failed to resolve help request: %w", err)
	}
	if learn != nil {
		if err := learn(ctx, tx, req); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}

	req.State = StateResolved
	req.ResponseText = responseText
	req.ResponseAt = &now
	req.AssignedSupervisorID = supervisorID

	l.log.Infow("Help request resolved", "requestID", id)
	return req, nil
}

// SweepExpired transitions every pending request whose timeout has elapsed to
// unresolved and returns exactly that set. Requests expired by an earlier
// sweep are not reported again.
func (l *Ledger) SweepExpired(ctx context.Context) ([]HelpRequest, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	rows, err := tx.QueryContext(ctx,
		selectRequestColumns+" FROM help_requests WHERE state = ? AND timeout_at < ?",
		StatePending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending requests: %w", err)
	}

	var expired []HelpRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		expired = append(expired, *req)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate pending requests: %w", err)
	}
	rows.Close()

	if len(expired) == 0 {
		return nil, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE help_requests SET state = ? WHERE state = ? AND timeout_at < ?",
		StateUnresolved, StatePending, now,
	); err != nil {
		return nil, fmt.Errorf("failed to expire pending requests: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sweep: %w", err)
	}

	for i := range expired {
		expired[i].State = StateUnresolved
	}
	return expired, nil
}

// CustomerByID returns the customer or (nil, nil) when the row is gone.
func (l *Ledger) CustomerByID(ctx context.Context, id int64) (*Customer, error) {
	customer := &Customer{}
	err := l.db.QueryRowContext(ctx,
		"SELECT id, name, phone, created_at FROM customers WHERE id = ?", id,
	).Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// SupervisorByID returns the supervisor or (nil, nil) when unknown.
func (l *Ledger) SupervisorByID(ctx context.Context, id int64) (*Supervisor, error) {
	supervisor := &Supervisor{}
	var name, email sql.NullString
	err := l.db.QueryRowContext(ctx,
		"SELECT id, name, email FROM supervisors WHERE id = ?", id,
	).Scan(&supervisor.ID, &name, &email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supervisor: %w", err)
	}
	supervisor.Name = name.String
	supervisor.Email = email.String
	return supervisor, nil
}

// DefaultSupervisor returns the oldest supervisor row, or (nil, nil) when the
// table is empty. Escalation mail goes to this supervisor unless a fallback
// address is configured.
func (l *Ledger) DefaultSupervisor(ctx context.Context) (*Supervisor, error) {
	supervisor := &Supervisor{}
	var name, email sql.NullString
	err := l.db.QueryRowContext(ctx,
		"SELECT id, name, email FROM supervisors ORDER BY id ASC LIMIT 1",
	).Scan(&supervisor.ID, &name, &email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default supervisor: %w", err)
	}
	supervisor.Name = name.String
	supervisor.Email = email.String
	return supervisor, nil
}

const selectRequestColumns = "SELECT id, customer_id, question_text, created_at, state, assigned_supervisor_id, response_text, response_at, timeout_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*HelpRequest, error) {
	var (
		req          HelpRequest
		assigned     sql.NullInt64
		responseText sql.NullString
		responseAt   sql.NullTime
	)
	err := row.Scan(&req.ID, &req.CustomerID, &req.QuestionText, &req.CreatedAt, &req.State,
		&assigned, &responseText, &responseAt, &req.TimeoutAt)
	if err != nil {
		return nil, err
	}
	if assigned.Valid {
		req.AssignedSupervisorID = &assigned.Int64
	}
	req.ResponseText = responseText.String
	if responseAt.Valid {
		utc := responseAt.Time.UTC()
		req.ResponseAt = &utc
	}
	return &req, nil
}
