package mailer

import (
	"bytes"
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ResetEmailSubject is the subject line of the password reset mail.
const ResetEmailSubject = "Smart Notes - Password Reset"

// ResetEmailData fills the password reset template.
type ResetEmailData struct {
	Name     string
	ResetURL string
	ValidFor time.Duration
	Year     int
}

// Minutes is used by the template to print the link lifetime.
func (d ResetEmailData) Minutes() int {
	return int(d.ValidFor / time.Minute)
}

// RenderResetEmail renders the HTML body of the password reset mail. Values
// are escaped by html/template.
func RenderResetEmail(data ResetEmailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "reset_password.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
