package helpdesk

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk/pkg/store"
	"github.com/frontdesk/frontdesk/pkg/system"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(store.SchemaSQL)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestLedger(t *testing.T, ttl time.Duration) *Ledger {
	t.Helper()
	return NewLedger(setupTestDB(t), ttl, system.NewTestLogger())
}

func TestEscalateCreatesPendingRequest(t *testing.T) {
	l := newTestLedger(t, 30*time.Minute)
	ctx := context.Background()

	req, customer, err := l.Escalate(ctx, Caller{Name: "Ana", Phone: "+15550001"}, "Do you do balayage?")
	require.NoError(t, err)
	require.NotNil(t, req)
	require.NotNil(t, customer)

	assert.Equal(t, StatePending, req.State)
	assert.Equal(t, "Do you do balayage?", req.QuestionText)
	assert.Equal(t, customer.ID, req.CustomerID)
	assert.Nil(t, req.AssignedSupervisorID)
	assert.Empty(t, req.ResponseText)

	// The deadline is derived from the creation time, not a second clock read.
	assert.Equal(t, req.CreatedAt.Add(30*time.Minute), req.TimeoutAt)
}

func TestEscalateReusesCustomerByPhone(t *testing.T) {
	l := newTestLedger(t, time.Minute)
	ctx := context.Background()

	_, first, err := l.Escalate(ctx, Caller{Name: "Ana", Phone: "+15550001"}, "q1")
	require.NoError(t, err)
	_, second, err := l.Escalate(ctx, Caller{Name: "Ana again", Phone: "+15550001"}, "q2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestGetUnknownRequestReturnsNotFound(t *testing.T) {
	l := newTestLedger(t, time.Minute)

	_, err := l.Get(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByState(t *testing.T) {
	l := newTestLedger(t, time.Minute)
	ctx := context.Background()

	req1, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "q1")
	require.NoError(t, err)
	_, _, err = l.Escalate(ctx, Caller{Phone: "+15550002"}, "q2")
	require.NoError(t, err)

	_, err = l.Resolve(ctx, req1.ID, "answer", nil, nil)
	require.NoError(t, err)

	pending, err := l.List(ctx, StatePending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "q2", pending[0].QuestionText)

	all, err := l.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestResolveSetsResponseFields(t *testing.T) {
	l := newTestLedger(t, time.Minute)
	ctx := context.Background()

	req, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "q1")
	require.NoError(t, err)

	supervisorID := int64(7)
	resolved, err := l.Resolve(ctx, req.ID, "the answer", &supervisorID, nil)
	require.NoError(t, err)

	assert.Equal(t, StateResolved, resolved.State)
	assert.Equal(t, "the answer", resolved.ResponseText)
	require.NotNil(t, resolved.AssignedSupervisorID)
	assert.Equal(t, supervisorID, *resolved.AssignedSupervisorID)
	require.NotNil(t, resolved.ResponseAt)
}

func TestResolveUnknownRequestMutatesNothing(t *testing.T) {
	l := newTestLedger(t, time.Minute)
	ctx := context.Background()

	_, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "q1")
	require.NoError(t, err)

	_, err = l.Resolve(ctx, 4242, "answer", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := l.List(ctx, StatePending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSweepExpiredReportsEachRequestOnce(t *testing.T) {
	l := newTestLedger(t, 0)
	ctx := context.Background()

	req, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "q1")
	require.NoError(t, err)

	expired, err := l.SweepExpired(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, req.ID, expired[0].ID)
	assert.Equal(t, StateUnresolved, expired[0].State)

	// A second sweep finds nothing; the request is no longer pending.
	again, err := l.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestSweepIgnoresRequestsWithinTTL(t *testing.T) {
	l := newTestLedger(t, time.Hour)
	ctx := context.Background()

	_, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "q1")
	require.NoError(t, err)

	expired, err := l.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestResolveAbortsWhenLearnFails(t *testing.T) {
	l := newTestLedger(t, time.Minute)
	ctx := context.Background()

	req, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "Do you do balayage?")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = l.Resolve(ctx, req.ID, "Yes, $30", nil, func(context.Context, *sql.Tx, *HelpRequest) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := l.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatePending, got.State)
	assert.Empty(t, got.ResponseText)
	assert.Nil(t, got.ResponseAt)
}

func TestDefaultSupervisorReturnsOldestRow(t *testing.T) {
	db := setupTestDB(t)
	l := NewLedger(db, time.Minute, system.NewTestLogger())
	ctx := context.Background()

	got, err := l.DefaultSupervisor(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = db.Exec("INSERT INTO supervisors (name, email) VALUES (?, ?)", "Sam", "sam@example.com")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO supervisors (name, email) VALUES (?, ?)", "Kim", "kim@example.com")
	require.NoError(t, err)

	got, err = l.DefaultSupervisor(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, "sam@example.com", got.Email)
}

func TestResolveWinsAfterExpiry(t *testing.T) {
	l := newTestLedger(t, 0)
	ctx := context.Background()

	req, _, err := l.Escalate(ctx, Caller{Phone: "+15550001"}, "q1")
	require.NoError(t, err)

	expired, err := l.SweepExpired(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)

	// A late supervisor answer still lands; resolved is terminal.
	resolved, err := l.Resolve(ctx, req.ID, "late answer", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StateResolved, resolved.State)

	got, err := l.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StateResolved, got.State)
	assert.Equal(t, "late answer", got.ResponseText)
}
