package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04 PM"

	defaultLocation = "Location TBA"
	defaultHost     = "Campus Admin"
)

// NewEventContent is the data rendered into a new-event announcement
type NewEventContent struct {
	Title       string
	Category    string
	Date        string
	Time        string
	Location    string
	Host        string
	Tags        string
	Description string
	Link        string
}

// Rendered holds a rendered announcement shared by every recipient
type Rendered struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// For addresses the rendered content to one recipient
func (r Rendered) For(to, name string) Message {
	return Message{
		To:       to,
		ToName:   name,
		Subject:  r.Subject,
		HTMLBody: r.HTMLBody,
		TextBody: r.TextBody,
	}
}

// TemplateRenderer renders new-event announcements
type TemplateRenderer struct {
	frontendURL string
	loc         *time.Location
	html        *htmltemplate.Template
	text        *texttemplate.Template
}

// NewTemplateRenderer parses the announcement templates. Dates are shown in
// loc, or UTC when loc is nil.
func NewTemplateRenderer(frontendURL string, loc *time.Location) *TemplateRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &TemplateRenderer{
		frontendURL: strings.TrimRight(frontendURL, "/"),
		loc:         loc,
		html:        htmltemplate.Must(htmltemplate.New("new_event.html").Parse(newEventHTML)),
		text:        texttemplate.Must(texttemplate.New("new_event.txt").Parse(newEventText)),
	}
}

// Content builds the template data for event
func (r *TemplateRenderer) Content(event *models.Event) NewEventContent {
	when := event.Date.In(r.loc)

	location := strings.TrimSpace(event.Location)
	if location == "" {
		location = defaultLocation
	}

	host := defaultHost
	if event.Creator != nil && strings.TrimSpace(event.Creator.FullName) != "" {
		host = event.Creator.FullName
	}

	tags := make([]string, 0, len(event.Tags))
	for _, tag := range event.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, "#"+tag)
		}
	}

	return NewEventContent{
		Title:       event.Title,
		Category:    string(event.Category),
		Date:        when.Format(dateLayout),
		Time:        when.Format(timeLayout),
		Location:    location,
		Host:        host,
		Tags:        strings.Join(tags, ", "),
		Description: event.Summary(),
		Link:        fmt.Sprintf("%s/event/%s", r.frontendURL, event.ID),
	}
}

// RenderNewEvent renders the subject and both bodies for event
func (r *TemplateRenderer) RenderNewEvent(event *models.Event) (Rendered, error) {
	content := r.Content(event)

	var html bytes.Buffer
	if err := r.html.Execute(&html, content); err != nil {
		return Rendered{}, fmt.Errorf("failed to render html body: %w", err)
	}

	var text bytes.Buffer
	if err := r.text.Execute(&text, content); err != nil {
		return Rendered{}, fmt.Errorf("failed to render text body: %w", err)
	}

	return Rendered{
		Subject:  "New Event: " + content.Title,
		HTMLBody: html.String(),
		TextBody: strings.TrimSpace(text.String()),
	}, nil
}

const newEventHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Event: {{.Title}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: #ffffff; border-radius: 12px; padding: 40px;">
    <div style="text-align: center; margin-bottom: 30px; padding-bottom: 20px; border-bottom: 3px solid #2563eb;">
      <h1 style="color: #2563eb; margin: 0 0 10px 0;">New Event Alert!</h1>
      <span style="display: inline-block; padding: 6px 12px; background-color: #dbeafe; color: #1e40af; border-radius: 20px; font-weight: 600;">{{.Category}}</span>
    </div>

    <h2 style="font-size: 24px; color: #1f2937;">{{.Title}}</h2>

    <div style="background-color: #f9fafb; border-radius: 8px; padding: 20px;">
      <p><strong style="color: #2563eb;">Date:</strong> {{.Date}}</p>
      <p><strong style="color: #2563eb;">Time:</strong> {{.Time}}</p>
      <p><strong style="color: #2563eb;">Location:</strong> {{.Location}}</p>
      <p><strong style="color: #2563eb;">Hosted by:</strong> {{.Host}}</p>
      {{- if .Tags}}
      <p><strong style="color: #2563eb;">Tags:</strong> {{.Tags}}</p>
      {{- end}}
    </div>
    {{if .Description}}
    <div style="margin: 20px 0; padding: 20px; background-color: #f0f9ff; border-left: 4px solid #2563eb;">
      <h3 style="margin-top: 0; color: #1e40af;">About This Event</h3>
      <p>{{.Description}}</p>
    </div>
    {{end}}
    <div style="text-align: center;">
      <a href="{{.Link}}" style="display: inline-block; padding: 14px 32px; background-color: #2563eb; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600;">View Event Details &amp; RSVP</a>
    </div>

    <div style="text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #e5e7eb; color: #6b7280; font-size: 14px;">
      <p>Don't miss out on this event! Click the button above to RSVP.</p>
      <p style="font-size: 12px; color: #9ca3af;">You're receiving this email because you're registered as a student in Campus Connect.</p>
    </div>
  </div>
</body>
</html>
`

const newEventText = `
New Event Alert: {{.Title}}

Category: {{.Category}}
Date: {{.Date}}
Time: {{.Time}}
Location: {{.Location}}
Hosted by: {{.Host}}
{{- if .Tags}}
Tags: {{.Tags}}
{{- end}}
{{if .Description}}
{{.Description}}
{{end}}
View full event details and RSVP at: {{.Link}}
`
