package helpdesk

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/system"
)

// API exposes the call intake and help request lifecycle endpoints.
type API struct {
	agent   *Agent
	ledger  *Ledger
	sweeper *ExpiryRoutine
	log     *zap.SugaredLogger
}

func NewAPI(agent *Agent, ledger *Ledger, sweeper *ExpiryRoutine, log *zap.SugaredLogger) *API {
	return &API{agent: agent, ledger: ledger, sweeper: sweeper, log: log.Named("helpdesk-api")}
}

func (a *API) BasePath() string { return "" }

func (a *API) Handlers() []gin.HandlerFunc { return nil }

func (a *API) Register(rg *gin.RouterGroup) error {
	rg.POST("call/incoming", a.incomingCall)
	rg.GET("requests", a.listRequests)
	rg.GET("requests/:id", a.getRequest)
	rg.POST("requests/:id/respond", a.respond)
	rg.POST("simulate/timeout", a.simulateTimeout)
	return nil
}

type incomingCallRequest struct {
	Caller   Caller `json:"caller"`
	Question string `json:"question"`
}

func (a *API) incomingCall(c *gin.Context) {
	var req incomingCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
		return
	}
	if req.Caller.Phone == "" || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	outcome, err := a.agent.HandleIncoming(c.Request.Context(), req.Caller, req.Question)
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Failed to handle incoming call", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (a *API) listRequests(c *gin.Context) {
	stateFilter := c.Query("state")
	if stateFilter != "" && !State(stateFilter).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown state"})
		return
	}

	requests, err := a.ledger.List(c.Request.Context(), State(stateFilter))
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Failed to list requests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if requests == nil {
		requests = []HelpRequest{}
	}
	c.JSON(http.StatusOK, requests)
}

func (a *API) getRequest(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	req, err := a.ledger.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Failed to get request", "requestID", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, req)
}

type respondRequest struct {
	Answer       string `json:"answer"`
	SupervisorID *int64 `json:"supervisor_id"`
}

func (a *API) respond(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
		return
	}
	if req.Answer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer is required"})
		return
	}

	result, err := a.agent.Resolve(c.Request.Context(), id, req.Answer, req.SupervisorID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Failed to resolve request", "requestID", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "kb_id": result.KnowledgeEntryID})
}

// simulateTimeout triggers one sweep immediately instead of waiting for the
// background routine. Useful for demos and operational testing.
func (a *API) simulateTimeout(c *gin.Context) {
	expired, err := a.sweeper.SweepOnce(c.Request.Context())
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Manual sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ids := make([]int64, 0, len(expired))
	for _, req := range expired {
		ids = append(ids, req.ID)
	}
	c.JSON(http.StatusOK, gin.H{"expired": ids})
}

func requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request id"})
		return 0, false
	}
	return id, true
}
