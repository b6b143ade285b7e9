package helpdesk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk/pkg/system"
)

func newTestRouter(t *testing.T, ttl time.Duration) (*gin.Engine, *Agent, *mockNotifier) {
	t.Helper()

	agent, ledger, _, notifier, _ := newTestAgent(t, ttl)
	sweeper := &ExpiryRoutine{
		Ledger:   ledger,
		Notifier: notifier,
		Log:      system.NewTestLogger(),
		Interval: time.Second,
		Backoff:  time.Second,
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := NewAPI(agent, ledger, sweeper, system.NewTestLogger())
	require.NoError(t, api.Register(engine.Group("api")))
	return engine, agent, notifier
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIncomingCallRequiresPhoneAndQuestion(t *testing.T) {
	engine, _, _ := newTestRouter(t, time.Minute)

	w := doJSON(t, engine, http.MethodPost, "/api/call/incoming", `{"caller":{"name":"Ana"},"question":"q"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/call/incoming", `{"caller":{"phone":"+15550001"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncomingCallEscalatesAndRespondCreatesKBEntry(t *testing.T) {
	engine, _, _ := newTestRouter(t, time.Minute)

	w := doJSON(t, engine, http.MethodPost, "/api/call/incoming",
		`{"caller":{"name":"Ana","phone":"+15550001"},"question":"Do you do balayage?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var outcome Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, ActionEscalated, outcome.Action)
	require.NotZero(t, outcome.RequestID)

	w = doJSON(t, engine, http.MethodPost,
		"/api/requests/"+itoa(outcome.RequestID)+"/respond",
		`{"answer":"Yes we do.","supervisor_id":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var respond struct {
		Status string `json:"status"`
		KBID   int64  `json:"kb_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respond))
	assert.Equal(t, "ok", respond.Status)
	assert.NotZero(t, respond.KBID)
}

func TestRespondValidation(t *testing.T) {
	engine, _, _ := newTestRouter(t, time.Minute)

	w := doJSON(t, engine, http.MethodPost, "/api/requests/4242/respond", `{"answer":"late"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/requests/abc/respond", `{"answer":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondRejectsEmptyAnswer(t *testing.T) {
	engine, agent, _ := newTestRouter(t, time.Minute)

	outcome, err := agent.HandleIncoming(context.Background(), Caller{Phone: "+15550001"}, "q")
	require.NoError(t, err)

	w := doJSON(t, engine, http.MethodPost, "/api/requests/"+itoa(outcome.RequestID)+"/respond", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRequestsValidatesStateFilter(t *testing.T) {
	engine, _, _ := newTestRouter(t, time.Minute)

	w := doJSON(t, engine, http.MethodGet, "/api/requests?state=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/requests?state=pending", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetRequestNotFound(t *testing.T) {
	engine, _, _ := newTestRouter(t, time.Minute)

	w := doJSON(t, engine, http.MethodGet, "/api/requests/4242", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimulateTimeoutExpiresOverdueRequests(t *testing.T) {
	engine, agent, notifier := newTestRouter(t, 0)

	outcome, err := agent.HandleIncoming(context.Background(), Caller{Phone: "+15550001"}, "q")
	require.NoError(t, err)

	w := doJSON(t, engine, http.MethodPost, "/api/simulate/timeout", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Expired []int64 `json:"expired"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []int64{outcome.RequestID}, result.Expired)

	messages := notifier.customerMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, ApologyMessage, messages[0].Message)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
