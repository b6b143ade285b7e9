package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// EscalationMailParams feeds the supervisor escalation email.
type EscalationMailParams struct {
	RequestID     int64
	Question      string
	CustomerName  string
	CustomerPhone string
	CreatedAt     string
	TimeoutAt     string
	BrandingName  string
}

const escalationMailTemplate = `<html>
<body>
<p>A customer question could not be answered automatically and needs your help.</p>
<table>
<tr><td><b>Request</b></td><td>#{{.RequestID}}</td></tr>
<tr><td><b>Question</b></td><td>{{.Question}}</td></tr>
{{if .CustomerPhone}}<tr><td><b>Customer</b></td><td>{{.CustomerName}} ({{.CustomerPhone}})</td></tr>
{{end}}<tr><td><b>Received</b></td><td>{{.CreatedAt}}</td></tr>
<tr><td><b>Expires</b></td><td>{{.TimeoutAt}}</td></tr>
</table>
<p>{{.BrandingName}}</p>
</body>
</html>`

var escalationTemplate = template.Must(template.New("escalation").Parse(escalationMailTemplate))

// RenderEscalationMail produces the subject and HTML body for a supervisor
// escalation notification.
func RenderEscalationMail(params EscalationMailParams) (subject, body string, err error) {
	if params.BrandingName == "" {
		params.BrandingName = "Frontdesk"
	}

	var buf bytes.Buffer
	if err := escalationTemplate.Execute(&buf, params); err != nil {
		return "", "", fmt.Errorf("failed to render escalation mail: %w", err)
	}
	subject = fmt.Sprintf("[%s] Help needed with request #%d", params.BrandingName, params.RequestID)
	return subject, buf.String(), nil
}
