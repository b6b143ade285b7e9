package helpdesk

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/audit"
	"github.com/frontdesk/frontdesk/pkg/knowledge"
	"github.com/frontdesk/frontdesk/pkg/metrics"
	"github.com/frontdesk/frontdesk/pkg/system"
)

const (
	// ActionResponded means the question was answered from the knowledge base.
	ActionResponded = "responded"
	// ActionEscalated means a pending help request was created for a supervisor.
	ActionEscalated = "escalated"
)

// Outcome describes how an incoming question was handled.
type Outcome struct {
	Action    string `json:"action"`
	Answer    string `json:"answer,omitempty"`
	RequestID int64  `json:"request_id,omitempty"`
}

// ResolveResult carries the updated request together with the knowledge base
// entry learned from the supervisor's answer.
type ResolveResult struct {
	Request          *HelpRequest
	KnowledgeEntryID int64
}

// Agent decides whether an incoming question can be answered from the
// knowledge base or has to be escalated, and applies supervisor answers.
type Agent struct {
	knowledge *knowledge.Store
	ledger    *Ledger
	notifier  NotificationPort
	audit     *audit.Service
	log       *zap.SugaredLogger
}

func NewAgent(kb *knowledge.Store, ledger *Ledger, notifier NotificationPort, auditSvc *audit.Service, log *zap.SugaredLogger) *Agent {
	return &Agent{
		knowledge: kb,
		ledger:    ledger,
		notifier:  notifier,
		audit:     auditSvc,
		log:       log.Named("agent"),
	}
}

// HandleIncoming looks the question up in the knowledge base. On a hit the
// caller is answered directly; on a miss a pending help request is created
// and the supervisor is notified.
func (a *Agent) HandleIncoming(ctx context.Context, caller Caller, question string) (*Outcome, error) {
	entry, err := a.knowledge.Lookup(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("knowledge lookup: %w", err)
	}

	if entry != nil {
		a.log.Infow("Answered from knowledge base", "kbID", entry.ID, "question", question)
		a.notifier.NotifyCustomer(ctx, caller, entry.AnswerText)
		metrics.QuestionsHandled.WithLabelValues("answered").Inc()
		return &Outcome{Action: ActionResponded, Answer: entry.AnswerText}, nil
	}

	req, _, err := a.ledger.Escalate(ctx, caller, question)
	if err != nil {
		return nil, fmt.Errorf("escalate: %w", err)
	}

	a.log.Infow("Escalated to supervisor", RequestFieldsFor(req)...)
	a.notifier.NotifySupervisor(ctx, *req)
	metrics.QuestionsHandled.WithLabelValues("escalated").Inc()
	metrics.RequestsCreated.Inc()
	a.emitAudit(audit.EventRequestCreated, "customer:"+caller.Phone, req.ID, map[string]any{
		"question":   req.QuestionText,
		"timeout_at": req.TimeoutAt,
	})

	return &Outcome{Action: ActionEscalated, RequestID: req.ID}, nil
}

// Resolve applies a supervisor answer to a request. The request transitions
// to resolved even when it previously expired, the answer is learned into the
// knowledge base in the same transaction, and the customer is notified.
func (a *Agent) Resolve(ctx context.Context, id int64, answer string, supervisorID *int64) (*ResolveResult, error) {
	createdBy := "supervisor"
	if supervisorID != nil {
		createdBy = fmt.Sprintf("supervisor:%d", *supervisorID)
	}

	var entry *knowledge.Entry
	req, err := a.ledger.Resolve(ctx, id, answer, supervisorID, func(ctx context.Context, tx *sql.Tx, req *HelpRequest) error {
		created, learnErr := a.knowledge.CreateTx(ctx, tx, knowledge.CreateParams{
			QuestionText:    req.QuestionText,
			AnswerText:      answer,
			SourceRequestID: &req.ID,
			CreatedBy:       createdBy,
		})
		if learnErr != nil {
			return fmt.Errorf("learn answer: %w", learnErr)
		}
		entry = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if supervisorID != nil {
		if sup, supErr := a.ledger.SupervisorByID(ctx, *supervisorID); supErr == nil && sup != nil {
			a.log.Infow("Answer attributed", "requestID", req.ID, "supervisor", sup.Name)
		}
	}

	customer, err := a.ledger.CustomerByID(ctx, req.CustomerID)
	if err != nil {
		a.log.Errorw("Failed to load customer for notification", "requestID", req.ID, "error", err)
	} else if customer != nil {
		a.notifier.NotifyCustomer(ctx, Caller{Name: customer.Name, Phone: customer.Phone}, answer)
	}

	a.log.Infow("Request resolved", RequestFieldsFor(req)...)
	metrics.RequestsResolved.Inc()
	a.emitAudit(audit.EventRequestResolved, createdBy, req.ID, map[string]any{
		"answer": answer,
	})
	a.emitAudit(audit.EventKnowledgeCreated, createdBy, req.ID, map[string]any{
		"kb_id":    entry.ID,
		"question": entry.QuestionText,
	})

	return &ResolveResult{Request: req, KnowledgeEntryID: entry.ID}, nil
}

func (a *Agent) emitAudit(eventType audit.EventType, actor string, requestID int64, details map[string]any) {
	if a.audit == nil {
		return
	}
	ev := audit.NewEvent(eventType)
	ev.Actor = actor
	ev.RequestID = requestID
	ev.Details = details
	a.audit.Emit(ev)
}

// RequestFieldsFor builds the standard log fields for a help request.
func RequestFieldsFor(req *HelpRequest) []interface{} {
	return system.RequestFields(req.ID, string(req.State))
}
