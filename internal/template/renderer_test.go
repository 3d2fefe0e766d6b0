package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderReplacesKnownTokens(t *testing.T) {
	out := Render("Hi {name}, from {trainer_name}", map[string]string{
		"name":         "Sam",
		"trainer_name": "Alex",
	})

	assert.Equal(t, "Hi Sam, from Alex", out)
}

func TestRenderReplacesEveryOccurrence(t *testing.T) {
	out := Render("{name} {name} {name}", map[string]string{"name": "Sam"})

	assert.Equal(t, "Sam Sam Sam", out)
}

func TestRenderLeavesUnknownTokensVerbatim(t *testing.T) {
	out := Render("Hi {name}, see {promo_code}", map[string]string{"name": "Sam"})

	assert.Equal(t, "Hi Sam, see {promo_code}", out)
}

func TestLeadDataFallsBackWhenNameMissing(t *testing.T) {
	data := LeadData("", "Alex", "Bay Club", "+14155550100", "https://bayclubs.com")

	assert.Equal(t, "there", data["name"])
	assert.Equal(t, "Bay Club", data["business_name"])
}

func TestSplitSubject(t *testing.T) {
	subject, body := SplitSubject("Subject: Free Consultation\n\nHi {name},\nsee you soon")

	assert.Equal(t, "Free Consultation", subject)
	assert.Equal(t, "Hi {name},\nsee you soon", body)
}

func TestSplitSubjectWithoutSubjectLine(t *testing.T) {
	subject, body := SplitSubject("just a body")

	assert.Empty(t, subject)
	assert.Equal(t, "just a body", body)
}

func TestToHTMLWrapsChecklistItems(t *testing.T) {
	html := ToHTML("Here's what I offer:\n✓ Workout plans\n✓ Nutrition guidance\nBest,\nAlex")

	assert.Contains(t, html, "<ul><li>Workout plans</li><li>Nutrition guidance</li></ul>")
	assert.Contains(t, html, "Here's what I offer:<br>")
	assert.Equal(t, 1, strings.Count(html, "<ul>"))
	assert.Contains(t, html, "<html>")
}

func TestToHTMLPlainTextHasNoList(t *testing.T) {
	html := ToHTML("Hi Sam,\nsee you soon")

	assert.NotContains(t, html, "<ul>")
	assert.Contains(t, html, "Hi Sam,<br>see you soon<br>")
}
