package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/prompts"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/logger"
	"github.com/finaccosolutions/finacco-backend/internal/metrics"
	"github.com/finaccosolutions/finacco-backend/internal/models"

	"go.uber.org/zap"
)

// FieldDef describes one input collected before drafting a document
type FieldDef struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"` // text | email | phone | date | number | textarea
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
}

// Schema is the field set presented to the user for a document type
type Schema struct {
	DocumentType string     `json:"document_type"`
	Fields       []FieldDef `json:"fields"`
	Steps        int        `json:"steps"`
	Fallback     bool       `json:"fallback"`
}

const fieldsPerStep = 4
const maxProposedFields = 12

var allowedFieldTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"phone":    true,
	"date":     true,
	"number":   true,
	"textarea": true,
}

// ProposeFields asks the model for a field schema and falls back to the fixed
// set for the type when the reply cannot be used.
func ProposeFields(ctx context.Context, client llmHandlers.Client, documentType string) Schema {
	documentType = normalizeDocumentType(documentType)

	if client != nil {
		start := time.Now()
		raw, err := client.Chat(ctx, "", []llmHandlers.Message{
			{Role: models.RoleUser, Content: fmt.Sprintf(prompts.SCHEMA_PROMPT, documentType)},
		})
		metrics.ObserveLLM("field_schema", start, err)
		if err == nil {
			if fields, ok := parseProposedFields(raw); ok {
				return Schema{
					DocumentType: documentType,
					Fields:       fields,
					Steps:        stepCount(len(fields)),
				}
			}
			logger.Warn("unusable field schema from model", zap.String("document_type", documentType))
		} else {
			logger.Warn("field schema request failed", zap.String("document_type", documentType), zap.Error(err))
		}
	}

	metrics.DocumentFallbacks.WithLabelValues("schema").Inc()
	fields := DefaultFields(documentType)
	return Schema{
		DocumentType: documentType,
		Fields:       fields,
		Steps:        stepCount(len(fields)),
		Fallback:     true,
	}
}

func parseProposedFields(raw string) ([]FieldDef, bool) {
	cleaned := llmHandlers.CleanModelOutput(raw)

	var fields []FieldDef
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, false
	}
	if len(fields) == 0 {
		return nil, false
	}
	if len(fields) > maxProposedFields {
		fields = fields[:maxProposedFields]
	}

	seen := map[string]bool{}
	out := make([]FieldDef, 0, len(fields))
	for _, f := range fields {
		f.ID = normalizeFieldID(f.ID)
		if f.ID == "" || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		if f.Label == "" {
			f.Label = labelFromID(f.ID)
		}
		if !allowedFieldTypes[f.Type] {
			f.Type = "text"
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, false
	}

	return out, true
}

func normalizeFieldID(id string) string {
	id = strings.TrimSpace(strings.ToLower(id))
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")

	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

func labelFromID(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func normalizeDocumentType(documentType string) string {
	documentType = strings.TrimSpace(strings.ToLower(documentType))
	if documentType == "" {
		return "document"
	}
	return documentType
}

func stepCount(fieldCount int) int {
	steps := (fieldCount + fieldsPerStep - 1) / fieldsPerStep
	if steps < 1 {
		steps = 1
	}
	return steps
}
