package documents

import (
	"bytes"
	"fmt"
	"html/template"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, 'Times New Roman', serif; color: #1a1a2e; margin: 0; padding: 24px; }
  h1, h2, h3 { color: #16213e; }
  table { width: 100%; border-collapse: collapse; margin: 16px 0; }
  th, td { border: 1px solid #cbd2dc; padding: 8px 12px; text-align: left; }
  th { background: #f0f3f8; width: 35%; }
  .document-footer { margin-top: 32px; font-size: 12px; color: #5a6170; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// PrintableHTML wraps a rendered document fragment into a standalone page
// ready for the PDF printer. Body must already be trusted html from Render.
func PrintableHTML(title, body string) (string, error) {
	var buf bytes.Buffer
	err := printTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)})
	if err != nil {
		return "", fmt.Errorf("failed to build printable page: %w", err)
	}
	return buf.String(), nil
}
