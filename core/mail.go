package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/progress-uz/backend/fs"
)

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplInitErr   error
)

type (
	EmailMessage struct {
		To      []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently.
		SendMessages(messages ...*EmailMessage)
	}
)

func loadTemplates() {
	tmplInit.Do(func() {
		var err error
		if textTemplates, err = texttmpl.ParseFS(appfs.FS, "templates/email/*.txt"); err != nil {
			tmplInitErr = errors.Wrap(err, "parsing text email templates")
			return
		}
		if htmlTemplates, err = htmltmpl.ParseFS(appfs.FS, "templates/email/*.html"); err != nil {
			tmplInitErr = errors.Wrap(err, "parsing html email templates")
		}
	})
}

// Render resolves the message's final text and HTML contents, executing the
// embedded templates when TemplateName is set.
func (m *EmailMessage) Render(frontendBaseURL string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	loadTemplates()
	if tmplInitErr != nil {
		return tmplInitErr
	}
	data := ContextData{FrontendBaseURL: frontendBaseURL, Data: m.TemplateData}

	var txt bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&txt, m.TemplateName+".txt", data); err != nil {
		return errors.Wrapf(err, "rendering %s.txt", m.TemplateName)
	}
	m.TextContent = txt.String()

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, m.TemplateName+".html", data); err != nil {
		return errors.Wrapf(err, "rendering %s.html", m.TemplateName)
	}
	m.HTMLContent = html.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != ""
}
