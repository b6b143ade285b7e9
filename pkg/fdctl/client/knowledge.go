package client

import (
	"context"
	"net/http"

	"github.com/frontdesk/frontdesk/pkg/knowledge"
)

type KnowledgeService struct {
	client *Client
}

func (c *Client) Knowledge() *KnowledgeService {
	return &KnowledgeService{client: c}
}

func (s *KnowledgeService) List(ctx context.Context) ([]knowledge.Entry, error) {
	var entries []knowledge.Entry
	if err := s.client.do(ctx, http.MethodGet, "api/kb", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

type AddEntryRequest struct {
	QuestionText string `json:"question_text"`
	AnswerText   string `json:"answer_text"`
	CreatedBy    string `json:"created_by,omitempty"`
}

type AddEntryResult struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

func (s *KnowledgeService) Add(ctx context.Context, body AddEntryRequest) (*AddEntryResult, error) {
	var result AddEntryResult
	if err := s.client.do(ctx, http.MethodPost, "api/kb", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
