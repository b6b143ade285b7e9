package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/frontdesk/frontdesk/pkg/helpdesk"
	"github.com/frontdesk/frontdesk/pkg/knowledge"
)

func WriteRequestTable(w io.Writer, requests []helpdesk.HelpRequest) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATE\tQUESTION\tCREATED\tTIMEOUT")
	for _, r := range requests {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.State, truncate(r.QuestionText, 60), formatTime(r.CreatedAt), formatTime(r.TimeoutAt))
	}
	_ = tw.Flush()
}

func WriteRequestDetail(w io.Writer, r *helpdesk.HelpRequest) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID:\t%d\n", r.ID)
	_, _ = fmt.Fprintf(tw, "State:\t%s\n", r.State)
	_, _ = fmt.Fprintf(tw, "Customer:\t%d\n", r.CustomerID)
	_, _ = fmt.Fprintf(tw, "Question:\t%s\n", r.QuestionText)
	_, _ = fmt.Fprintf(tw, "Created:\t%s\n", formatTime(r.CreatedAt))
	_, _ = fmt.Fprintf(tw, "Timeout:\t%s\n", formatTime(r.TimeoutAt))
	if r.ResponseText != "" {
		_, _ = fmt.Fprintf(tw, "Response:\t%s\n", r.ResponseText)
	}
	if r.ResponseAt != nil {
		_, _ = fmt.Fprintf(tw, "Responded:\t%s\n", formatTime(*r.ResponseAt))
	}
	if r.AssignedSupervisorID != nil {
		_, _ = fmt.Fprintf(tw, "Supervisor:\t%d\n", *r.AssignedSupervisorID)
	}
	_ = tw.Flush()
}

func WriteKnowledgeTable(w io.Writer, entries []knowledge.Entry) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tQUESTION\tANSWER\tCREATED_BY\tCREATED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, truncate(e.QuestionText, 40), truncate(e.AnswerText, 40), e.CreatedBy, formatTime(e.CreatedAt))
	}
	_ = tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
