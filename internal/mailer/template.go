package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

var htmlTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #4A90E2; color: white; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
  .title { font-size: 24px; font-weight: bold; margin-bottom: 10px; }
  .date { font-size: 14px; opacity: 0.9; }
  .content { background-color: #f9f9f9; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
  .summary { white-space: pre-wrap; margin: 15px 0; }
  .link-button { display: inline-block; background-color: #4A90E2; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; font-weight: bold; }
  .footer { text-align: center; font-size: 12px; color: #888; margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd; }
</style>
</head>
<body>
  <div class="header">
    <div class="title">📚 Your Daily Reading</div>
    <div class="date">{{.Date.Format "January 2, 2006"}}</div>
  </div>
  <div class="content">
    <h2>{{.Title}}</h2>
    <div class="summary">{{.Summary}}</div>
    <p><a href="{{.URL}}" class="link-button">Read Full Article</a></p>
  </div>
  <div class="footer">
    <p>This is your automated daily reading digest.</p>
    <p>Article automatically selected from your reading list.</p>
  </div>
</body>
</html>
`))

func renderHTML(d Digest) (string, error) {
	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// renderPlain is the fallback body for clients that skip the HTML part.
func renderPlain(d Digest) string {
	return fmt.Sprintf(`Your Daily Reading - %s

%s

%s

Read the full article: %s

---
This is your automated daily reading digest.
`, d.Date.Format("January 2, 2006"), d.Title, d.Summary, d.URL)
}
