package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk/pkg/config"
	"github.com/frontdesk/frontdesk/pkg/helpdesk"
	"github.com/frontdesk/frontdesk/pkg/system"
)

func TestNotifyCustomerPostsWebhook(t *testing.T) {
	received := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookURL = srv.URL
	s := NewService(cfg, nil, nil, system.NewTestLogger())

	s.NotifyCustomer(context.Background(), helpdesk.Caller{Name: "Ana", Phone: "+15550001"}, "your answer")

	select {
	case body := <-received:
		assert.Equal(t, "+15550001", body["to"])
		assert.Equal(t, "Ana", body["name"])
		assert.Equal(t, "your answer", body["message"])
	case <-time.After(time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestNotifySupervisorIncludesQuestionAndID(t *testing.T) {
	received := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookURL = srv.URL
	s := NewService(cfg, nil, nil, system.NewTestLogger())

	s.NotifySupervisor(context.Background(), helpdesk.HelpRequest{
		ID:           12,
		QuestionText: "Do you do balayage?",
	})

	select {
	case body := <-received:
		assert.Contains(t, body["message"], "Do you do balayage?")
		assert.Contains(t, body["message"], "request_id=12")
	case <-time.After(time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestWebhookFailureIsSwallowed(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.WebhookURL = "http://127.0.0.1:1"
	cfg.Notifications.WebhookTimeoutSeconds = 1
	s := NewService(cfg, nil, nil, system.NewTestLogger())

	// Must not panic or block beyond the timeout.
	s.NotifyCustomer(context.Background(), helpdesk.Caller{Phone: "+15550001"}, "message")
}

func TestNoWebhookConfiguredOnlyLogs(t *testing.T) {
	s := NewService(config.Default(), nil, nil, system.NewTestLogger())
	s.NotifyCustomer(context.Background(), helpdesk.Caller{Phone: "+15550001"}, "message")
	s.NotifySupervisor(context.Background(), helpdesk.HelpRequest{ID: 1, QuestionText: "q"})
}

type stubDirectory struct {
	supervisor *helpdesk.Supervisor
	err        error
}

func (d *stubDirectory) DefaultSupervisor(context.Context) (*helpdesk.Supervisor, error) {
	return d.supervisor, d.err
}

func TestSupervisorAddressPrefersDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.SupervisorEmail = "fallback@example.com"

	dir := &stubDirectory{supervisor: &helpdesk.Supervisor{ID: 1, Name: "Sam", Email: "sam@example.com"}}
	s := NewService(cfg, nil, dir, system.NewTestLogger())
	assert.Equal(t, "sam@example.com", s.supervisorAddress(context.Background()))
}

func TestSupervisorAddressFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.SupervisorEmail = "fallback@example.com"

	tests := []struct {
		name string
		dir  SupervisorDirectory
	}{
		{name: "no directory", dir: nil},
		{name: "empty table", dir: &stubDirectory{}},
		{name: "row without email", dir: &stubDirectory{supervisor: &helpdesk.Supervisor{ID: 1, Name: "Sam"}}},
		{name: "lookup error", dir: &stubDirectory{err: context.DeadlineExceeded}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(cfg, nil, tt.dir, system.NewTestLogger())
			assert.Equal(t, "fallback@example.com", s.supervisorAddress(context.Background()))
		})
	}
}
