package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/saspirant/notifier/internal/domain"
)

// deadlineSoonWindow controls when the application deadline is highlighted.
const deadlineSoonWindow = 7 * 24 * time.Hour

var alertTemplate = template.Must(template.New("alert").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #1a5276;">New opportunity: {{.Title}}</h2>
  <p>Hi {{.UserName}},</p>
  <p>A new notification matching your preferences was published by <strong>{{.Organization}}</strong>.</p>
  <table cellpadding="6">
    <tr><td><strong>Category</strong></td><td>{{.Category}}</td></tr>
    <tr><td><strong>Age limit</strong></td><td>{{.AgeLimit}}</td></tr>
    <tr><td><strong>Qualification</strong></td><td>{{.Qualification}}</td></tr>
    {{if .Deadline}}
    <tr><td><strong>Last date to apply</strong></td>
        <td{{if .DeadlineSoon}} style="color: #c0392b; font-weight: bold;"{{end}}>{{.Deadline}}{{if .DeadlineSoon}} (closing soon){{end}}</td></tr>
    {{end}}
  </table>
  {{if .PDFURL}}<p><a href="{{.PDFURL}}">Official notification (PDF)</a></p>{{end}}
  <p><a href="{{.SourceURL}}">View on the portal</a></p>
  <p style="color: #888; font-size: 12px;">You receive this because of your saved preferences on Saspirant.</p>
</body>
</html>`))

var digestTemplate = template.Must(template.New("digest").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #1a5276;">You have several new opportunities today</h2>
  <p>Hi {{.UserName}},</p>
  <p>More than {{.Threshold}} notifications matched your preferences today.
  To keep your inbox calm we have bundled them; the full list is waiting on your dashboard.</p>
  <p style="color: #888; font-size: 12px;">Further matches today will be added to this digest automatically.</p>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #1a5276;">Welcome to Saspirant, {{.UserName}}!</h2>
  <p>Your account is active. We will email you when an exam or job notification
  matches your category, age, qualification, and location preferences.</p>
</body>
</html>`))

type alertTemplateData struct {
	UserName      string
	Title         string
	Organization  string
	Category      string
	AgeLimit      string
	Qualification string
	Deadline      string
	DeadlineSoon  bool
	PDFURL        string
	SourceURL     string
}

// renderAlert fills the alert template from a notification. Empty fields show
// the standard placeholder.
func renderAlert(userName string, n *domain.Notification, now time.Time) (string, error) {
	data := alertTemplateData{
		UserName:      userName,
		Title:         n.Title,
		Organization:  orPlaceholder(n.Organization),
		Category:      orPlaceholder(n.Category),
		AgeLimit:      orPlaceholder(n.AgeLimit),
		Qualification: orPlaceholder(n.Qualification),
		SourceURL:     n.SourceURL,
	}
	if n.PDFURL != nil {
		data.PDFURL = *n.PDFURL
	}
	if n.LastDateToApply != nil {
		data.Deadline = n.LastDateToApply.Format("2 January 2006")
		data.DeadlineSoon = n.LastDateToApply.Sub(now) <= deadlineSoonWindow
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render alert template: %w", err)
	}
	return buf.String(), nil
}

func renderDigest(userName string, threshold int) (string, error) {
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		UserName  string
		Threshold int
	}{userName, threshold})
	if err != nil {
		return "", fmt.Errorf("failed to render digest template: %w", err)
	}
	return buf.String(), nil
}

func renderWelcome(userName string) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, struct{ UserName string }{userName}); err != nil {
		return "", fmt.Errorf("failed to render welcome template: %w", err)
	}
	return buf.String(), nil
}

func orPlaceholder(value string) string {
	if value == "" {
		return domain.NotSpecified
	}
	return value
}
