// Package template renders outreach message templates. Placeholders use the
// {token} form; recognized tokens are replaced everywhere they occur and
// unknown tokens are left verbatim so a typo never breaks a send.
package template

import (
	"fmt"
	"strings"
)

// Render substitutes every occurrence of each known {token} in tmpl with its
// value from data. Pure function of its inputs.
func Render(tmpl string, data map[string]string) string {
	out := tmpl
	for key, value := range data {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

// LeadData builds the token map for one lead. An empty lead name falls back
// to a neutral greeting.
func LeadData(name, trainerName, businessName, phoneNumber, websiteURL string) map[string]string {
	if name == "" {
		name = "there"
	}
	return map[string]string{
		"name":          name,
		"trainer_name":  trainerName,
		"business_name": businessName,
		"phone_number":  phoneNumber,
		"website_url":   websiteURL,
	}
}

// SplitSubject extracts the subject from an email template. The subject
// lives on a leading "Subject:" line; everything after it is the body.
// Templates without a Subject: line yield an empty subject.
func SplitSubject(tmpl string) (subject, body string) {
	lines := strings.Split(strings.TrimSpace(tmpl), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "Subject:") {
			subject = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "Subject:"))
			body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return subject, body
		}
	}
	return "", strings.TrimSpace(tmpl)
}

// ToHTML converts a plain-text body into a minimal HTML document. Lines
// beginning with the ✓ glyph become <li> items; consecutive items share
// one <ul>.
func ToHTML(text string) string {
	var b strings.Builder
	inList := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "✓") {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(strings.TrimSpace(strings.TrimPrefix(trimmed, "✓")))
			b.WriteString("</li>")
			continue
		}
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		b.WriteString(line)
		b.WriteString("<br>")
	}
	if inList {
		b.WriteString("</ul>")
	}

	return fmt.Sprintf(
		`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">%s</body></html>`,
		b.String(),
	)
}
