package knowledge

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/system"
)

// API exposes knowledge base listing and manual entry creation.
type API struct {
	store     *Store
	listLimit int
	log       *zap.SugaredLogger
}

func NewAPI(store *Store, listLimit int, log *zap.SugaredLogger) *API {
	return &API{store: store, listLimit: listLimit, log: log.Named("kb-api")}
}

func (a *API) BasePath() string { return "kb" }

func (a *API) Handlers() []gin.HandlerFunc { return nil }

func (a *API) Register(rg *gin.RouterGroup) error {
	rg.GET("", a.list)
	rg.POST("", a.create)
	return nil
}

func (a *API) list(c *gin.Context) {
	entries, err := a.store.List(c.Request.Context(), a.listLimit)
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Failed to list knowledge entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

type createEntryRequest struct {
	QuestionText string `json:"question_text"`
	AnswerText   string `json:"answer_text"`
	CreatedBy    string `json:"created_by"`
}

func (a *API) create(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
		return
	}

	entry, err := a.store.Create(c.Request.Context(), CreateParams{
		QuestionText: req.QuestionText,
		AnswerText:   req.AnswerText,
		CreatedBy:    req.CreatedBy,
	})
	if err != nil {
		system.GetReqLogger(c, a.log).Errorw("Failed to create knowledge entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "id": entry.ID})
}
