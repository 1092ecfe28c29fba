package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/prompts"
	"github.com/finaccosolutions/finacco-backend/internal/assistant/wizard"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/metrics"
	"github.com/finaccosolutions/finacco-backend/internal/models"

	"go.uber.org/zap"
)

// Rendered is a finished document body ready for the chat transcript or export
type Rendered struct {
	Title    string `json:"title"`
	HTML     string `json:"html"`
	Fallback bool   `json:"fallback"`
}

// Render asks the model to draft the document and falls back to the fixed
// template when the reply is unusable. The wizard validates values before this
// point, so rendering always produces a document.
func Render(ctx context.Context, client llmHandlers.Client, documentType string, fields []wizard.FieldDef, values map[string]string) Rendered {
	title := Title(documentType)

	if client != nil {
		payload := renderPayload(fields, values)
		start := time.Now()
		raw, err := client.Chat(ctx, "", []llmHandlers.Message{
			{Role: models.RoleUser, Content: fmt.Sprintf(prompts.RENDER_PROMPT, documentType, payload)},
		})
		metrics.ObserveLLM("document_render", start, err)
		if err == nil {
			html := llmHandlers.CleanModelOutput(raw)
			if looksLikeHTML(html) {
				return Rendered{Title: title, HTML: html}
			}
			logger.Warn("unusable document body from model", zap.String("document_type", documentType))
		} else {
			logger.Warn("document render failed", zap.String("document_type", documentType), zap.Error(err))
		}
	}

	metrics.DocumentFallbacks.WithLabelValues("body").Inc()
	return Rendered{
		Title:    title,
		HTML:     FallbackHTML(documentType, fields, values),
		Fallback: true,
	}
}

// renderPayload lays out labels and values in field order for the prompt
func renderPayload(fields []wizard.FieldDef, values map[string]string) string {
	type row struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	rows := make([]row, 0, len(values))
	for _, f := range fields {
		if v := strings.TrimSpace(values[f.ID]); v != "" {
			rows = append(rows, row{Label: f.Label, Value: v})
		}
	}

	out, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(out)
}

func looksLikeHTML(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

// Title turns a document type into a heading, e.g. "invoice" -> "Invoice"
func Title(documentType string) string {
	documentType = strings.TrimSpace(documentType)
	if documentType == "" {
		return "Document"
	}
	return strings.ToUpper(documentType[:1]) + strings.ToLower(documentType[1:])
}
