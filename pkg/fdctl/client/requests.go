package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/frontdesk/frontdesk/pkg/helpdesk"
)

type RequestService struct {
	client *Client
}

func (c *Client) Requests() *RequestService {
	return &RequestService{client: c}
}

type RequestListOptions struct {
	State string
}

func (s *RequestService) List(ctx context.Context, opts RequestListOptions) ([]helpdesk.HelpRequest, error) {
	endpoint := "api/requests"
	if opts.State != "" {
		endpoint += "?" + url.Values{"state": []string{opts.State}}.Encode()
	}

	var requests []helpdesk.HelpRequest
	if err := s.client.do(ctx, http.MethodGet, endpoint, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *RequestService) Get(ctx context.Context, id int64) (*helpdesk.HelpRequest, error) {
	var req helpdesk.HelpRequest
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("api/requests/%d", id), nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

type RespondRequest struct {
	Answer       string `json:"answer"`
	SupervisorID *int64 `json:"supervisor_id,omitempty"`
}

type RespondResult struct {
	Status string `json:"status"`
	KBID   int64  `json:"kb_id"`
}

func (s *RequestService) Resolve(ctx context.Context, id int64, body RespondRequest) (*RespondResult, error) {
	var result RespondResult
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("api/requests/%d/respond", id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type AskRequest struct {
	Caller   helpdesk.Caller `json:"caller"`
	Question string          `json:"question"`
}

// Ask submits a question the way an incoming call would.
func (c *Client) Ask(ctx context.Context, body AskRequest) (*helpdesk.Outcome, error) {
	var outcome helpdesk.Outcome
	if err := c.do(ctx, http.MethodPost, "api/call/incoming", body, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

type SweepResult struct {
	Expired []int64 `json:"expired"`
}

// Sweep triggers one expiry pass immediately.
func (c *Client) Sweep(ctx context.Context) (*SweepResult, error) {
	var result SweepResult
	if err := c.do(ctx, http.MethodPost, "api/simulate/timeout", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
