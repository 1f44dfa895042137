package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names understood by the email worker.
const (
	VerifyEmail = "verify_email"
)

var verifyEmailHTML = template.Must(template.New(VerifyEmail).Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Confirm your email address</h2>
    <p>Thanks for registering{{if .Email}} with <b>{{.Email}}</b>{{end}}.
       Click the link below to verify your account:</p>
    <p><a href="{{.VerifyLink}}" target="_blank">Verify email</a></p>
    <p>If the button does not work, copy this address into your browser:</p>
    <p>{{.VerifyLink}}</p>
    <p style="color: #888;">If you did not create an account, you can ignore this message.</p>
  </body>
</html>`))

// Render produces subject, plain-text, and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case VerifyEmail:
		var buf bytes.Buffer
		if err = verifyEmailHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		link, _ := data["VerifyLink"].(string)
		subject = "Verify your email address"
		text = "Follow this link to verify your email: " + link
		html = buf.String()
		return subject, text, html, nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
