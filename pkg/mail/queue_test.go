package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk/pkg/system"
)

// MockSender simulates a mail sender with configurable behavior.
type MockSender struct {
	mu            sync.Mutex
	failAlways    bool
	attempts      int
	lastReceivers []string
	lastSubject   string
}

func (m *MockSender) Send(receivers []string, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	m.lastReceivers = receivers
	m.lastSubject = subject
	if m.failAlways {
		return errors.New("simulated send failure")
	}
	return nil
}

func (m *MockSender) GetHost() string { return "test.example.com" }
func (m *MockSender) GetPort() int    { return 25 }

func (m *MockSender) sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func TestQueueDeliversEnqueuedMail(t *testing.T) {
	sender := &MockSender{}
	queue := NewQueue(sender, system.NewTestLogger(), 10)
	queue.Start()
	defer func() {
		require.NoError(t, queue.Stop(context.Background()))
	}()

	require.NoError(t, queue.Enqueue("req-1", []string{"alice@example.com"}, "Help needed", "body"))

	assert.Eventually(t, func() bool { return sender.sent() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"alice@example.com"}, sender.lastReceivers)
	assert.Equal(t, "Help needed", sender.lastSubject)
}

func TestQueueRejectsEmptyReceivers(t *testing.T) {
	queue := NewQueue(&MockSender{}, system.NewTestLogger(), 10)

	err := queue.Enqueue("req-2", nil, "Subject", "body")
	assert.Error(t, err)
}

func TestQueueDropsUndeliverableMail(t *testing.T) {
	sender := &MockSender{failAlways: true}
	queue := NewQueue(sender, system.NewTestLogger(), 10)
	queue.Start()

	require.NoError(t, queue.Enqueue("req-3", []string{"alice@example.com"}, "Subject", "body"))

	// The worker keeps running after a failed send.
	assert.Eventually(t, func() bool { return sender.sent() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, queue.Enqueue("req-4", []string{"alice@example.com"}, "Subject", "body"))
	assert.Eventually(t, func() bool { return sender.sent() >= 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, queue.Stop(context.Background()))
}

func TestQueueFullReturnsError(t *testing.T) {
	// Never started, so nothing drains the channel.
	queue := NewQueue(&MockSender{}, system.NewTestLogger(), 1)

	require.NoError(t, queue.Enqueue("req-5", []string{"a@example.com"}, "s", "b"))
	assert.Error(t, queue.Enqueue("req-6", []string{"a@example.com"}, "s", "b"))
}

func TestRenderEscalationMail(t *testing.T) {
	subject, body, err := RenderEscalationMail(EscalationMailParams{
		RequestID:     7,
		Question:      "Do you do haircuts?",
		CustomerName:  "Jo",
		CustomerPhone: "+1555",
		CreatedAt:     "2026-08-31T10:00:00Z",
		TimeoutAt:     "2026-08-31T10:30:00Z",
	})
	require.NoError(t, err)

	assert.Contains(t, subject, "#7")
	assert.Contains(t, body, "Do you do haircuts?")
	assert.Contains(t, body, "+1555")
	assert.Contains(t, body, "Frontdesk")
}

func TestRenderEscalationMailEscapesHTML(t *testing.T) {
	_, body, err := RenderEscalationMail(EscalationMailParams{
		RequestID: 8,
		Question:  "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
