package document

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

// md converts plan markdown. Raw HTML in model output is not passed through.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithXHTML(),
	),
)

var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, Helvetica, sans-serif; color: #222; line-height: 1.5; max-width: 720px; margin: 0 auto;">
<p>Hello,</p>
<p>Your personalized Ayurvedic diet plan{{if .Day}} generated on {{.Day}}{{end}} is below. The full plan is also attached as a PDF.</p>
<div class="plan">
{{.Body}}
</div>
<p style="color: #777; font-size: 12px;">This plan is generated automatically and is not a substitute for medical advice.</p>
</body>
</html>
`))

// HTML renders the plan as a complete HTML e-mail body.
func HTML(plan domain.GeneratedPlan) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(plan.RawText), &body); err != nil {
		return "", fmt.Errorf("convert plan markdown: %w", err)
	}

	var out bytes.Buffer
	err := emailTmpl.Execute(&out, struct {
		Title string
		Day   string
		Body  template.HTML
	}{
		Title: "Personalized Ayurvedic Diet Plan",
		Day:   plan.GenerationDay,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return out.String(), nil
}

// PlainText renders the plain-text alternative of the e-mail body.
func PlainText(plan domain.GeneratedPlan) string {
	var b bytes.Buffer
	b.WriteString("Hello,\n\nYour personalized Ayurvedic diet plan")
	if plan.GenerationDay != "" {
		b.WriteString(" generated on " + plan.GenerationDay)
	}
	b.WriteString(" is attached as a PDF.\n\n")
	for _, blk := range Parse(plan.RawText) {
		switch blk.Kind {
		case KindSpacer:
			b.WriteString("\n")
		case KindBullet:
			b.WriteString("  - " + blk.Text + "\n")
		case KindHeading1, KindHeading2:
			b.WriteString("\n" + blk.Text + "\n")
		default:
			b.WriteString(blk.Text + "\n")
		}
	}
	return b.String()
}
