// Package knowledge implements the question/answer knowledge base: append-only
// entry creation and lookup with an exact match first, then the best fuzzy
// candidate gated by a similarity threshold.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Entry is a single learned question/answer pair. Entries are immutable once
// created; Version is reserved for future edit tracking and stays at 1.
type Entry struct {
	ID              int64     `json:"id"`
	QuestionText    string    `json:"question_text"`
	AnswerText      string    `json:"answer_text"`
	SourceRequestID *int64    `json:"source_request_id,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Version         int       `json:"version"`
	Tags            string    `json:"tags,omitempty"`
	Confidence      string    `json:"confidence,omitempty"`
}

// CreateParams carries the optional provenance fields alongside the pair
// itself. QuestionText is stored as-is, empty included; validation belongs to
// the boundary that accepts caller input.
type CreateParams struct {
	QuestionText    string
	AnswerText      string
	SourceRequestID *int64
	CreatedBy       string
	Tags            string
	Confidence      string
}

const defaultListLimit = 100

// querier is satisfied by *sql.DB and *sql.Tx so entry creation can run
// either standalone or inside a caller's transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the knowledge base service. Lookup scans every stored question,
// which is fine at the expected scale (hundreds to low thousands of entries).
type Store struct {
	db        *sql.DB
	threshold float64
	log       *zap.SugaredLogger
}

func NewStore(db *sql.DB, threshold float64, log *zap.SugaredLogger) *Store {
	return &Store{db: db, threshold: threshold, log: log.Named("knowledge")}
}

// Lookup finds the entry answering questionText. Exact matches win outright,
// with the most recently created entry shadowing older duplicates. Otherwise
// the highest-scoring stored question is returned when its similarity ratio
// reaches the configured threshold. Returns (nil, nil) on a miss.
func (s *Store) Lookup(ctx context.Context, questionText string) (*Entry, error) {
	entry, err := s.entryByExactQuestion(ctx, questionText)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, question_text FROM knowledge_base")
	if err != nil {
		return nil, fmt.Errorf("failed to scan knowledge base: %w", err)
	}
	defer rows.Close()

	var (
		bestID    int64
		bestScore float64
		found     bool
	)
	for rows.Next() {
		var (
			id       int64
			question string
		)
		if err := rows.Scan(&id, &question); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge row: %w", err)
		}
		score := Similarity(questionText, question)
		if !found || score > bestScore {
			bestID, bestScore, found = id, score, true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate knowledge rows: %w", err)
	}

	if !found || bestScore < s.threshold {
		return nil, nil
	}
	s.log.Debugw("Fuzzy match accepted", "entryID", bestID, "score", bestScore)
	return s.entryByID(ctx, bestID)
}

// Create appends a new entry. There is no uniqueness constraint on question
// text; a newer duplicate shadows older ones for exact lookups.
func (s *Store) Create(ctx context.Context, p CreateParams) (*Entry, error) {
	return s.createIn(ctx, s.db, p)
}

// CreateTx appends a new entry inside the caller's transaction, so learning
// an answer commits or rolls back together with the operation that produced
// it.
func (s *Store) CreateTx(ctx context.Context, tx *sql.Tx, p CreateParams) (*Entry, error) {
	return s.createIn(ctx, tx, p)
}

func (s *Store) createIn(ctx context.Context, q querier, p CreateParams) (*Entry, error) {
	now := time.Now().UTC()

	var sourceRequestID sql.NullInt64
	if p.SourceRequestID != nil {
		sourceRequestID = sql.NullInt64{Int64: *p.SourceRequestID, Valid: true}
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO knowledge_base (question_text, answer_text, source_request_id, created_by, created_at, tags, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.QuestionText, p.AnswerText, sourceRequestID, nullString(p.CreatedBy), now,
		nullString(p.Tags), nullString(p.Confidence),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge entry id: %w", err)
	}

	s.log.Infow("Knowledge entry created", "entryID", id, "createdBy", p.CreatedBy)
	return s.entryIn(ctx, q, id)
}

// List returns up to limit entries, newest first. A non-positive limit falls
// back to the default of 100.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		selectEntryColumns+" FROM knowledge_base ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate knowledge entries: %w", err)
	}
	return entries, nil
}

const selectEntryColumns = "SELECT id, question_text, answer_text, source_request_id, created_by, created_at, version, tags, confidence"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry           Entry
		sourceRequestID sql.NullInt64
		createdBy       sql.NullString
		tags            sql.NullString
		confidence      sql.NullString
	)
	err := row.Scan(&entry.ID, &entry.QuestionText, &entry.AnswerText, &sourceRequestID,
		&createdBy, &entry.CreatedAt, &entry.Version, &tags, &confidence)
	if err != nil {
		return nil, err
	}
	if sourceRequestID.Valid {
		entry.SourceRequestID = &sourceRequestID.Int64
	}
	entry.CreatedBy = createdBy.String
	entry.Tags = tags.String
	entry.Confidence = confidence.String
	return &entry, nil
}

func (s *Store) entryByID(ctx context.Context, id int64) (*Entry, error) {
	return s.entryIn(ctx, s.db, id)
}

func (s *Store) entryIn(ctx context.Context, q querier, id int64) (*Entry, error) {
	entry, err := scanEntry(q.QueryRowContext(ctx,
		selectEntryColumns+" FROM knowledge_base WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get knowledge entry: %w", err)
	}
	return entry, nil
}

func (s *Store) entryByExactQuestion(ctx context.Context, questionText string) (*Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx,
		selectEntryColumns+" FROM knowledge_base WHERE question_text = ? ORDER BY id DESC LIMIT 1", questionText))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up exact match: %w", err)
	}
	return entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
