package documents

import (
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/wizard"
)

// fallbackTemplate emits every submitted value once under its label. It is the
// deterministic stand-in when the model cannot draft the body.
var fallbackTemplate = template.Must(template.New("document").Parse(`<div class="document">
  <h2>{{.Title}}</h2>
  <p class="document-meta">Prepared on {{.Date}}</p>
  <table class="document-fields">
    <tbody>
{{- range .Rows}}
      <tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
    </tbody>
  </table>
  <p class="document-footer">Generated by Finacco Assistant. Please review before sharing.</p>
</div>`))

type fallbackRow struct {
	Label string
	Value string
}

type fallbackData struct {
	Title string
	Date  string
	Rows  []fallbackRow
}

// FallbackHTML renders the fixed template the way the form was laid out:
// defined fields first in order, then any extra submitted values.
func FallbackHTML(documentType string, fields []wizard.FieldDef, values map[string]string) string {
	rows := make([]fallbackRow, 0, len(values))
	used := map[string]bool{}

	for _, f := range fields {
		if v := strings.TrimSpace(values[f.ID]); v != "" {
			rows = append(rows, fallbackRow{Label: f.Label, Value: v})
			used[f.ID] = true
		}
	}

	// values submitted without a matching field definition still show up
	extras := make([]string, 0)
	for id, v := range values {
		if !used[id] && strings.TrimSpace(v) != "" {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		rows = append(rows, fallbackRow{Label: labelFromID(id), Value: strings.TrimSpace(values[id])})
	}

	var b strings.Builder
	err := fallbackTemplate.Execute(&b, fallbackData{
		Title: Title(documentType),
		Date:  time.Now().Format("2 January 2006"),
		Rows:  rows,
	})
	if err != nil {
		// template is static, this cannot happen outside of development
		return "<div class=\"document\"><h2>" + template.HTMLEscapeString(Title(documentType)) + "</h2></div>"
	}
	return b.String()
}

func labelFromID(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "-", "_"), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
