package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/prompts"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"
	"github.com/finaccosolutions/finacco-backend/internal/models"
)

type Kind string

const (
	KindDocument Kind = "document"
	KindFAQ      Kind = "faq"
	KindGeneral  Kind = "general"
)

// Intent is the classified outcome for one user message
type Intent struct {
	Kind         Kind
	DocumentType string // set for KindDocument
	Answer       string // canned HTML, set for KindFAQ
}

// docRequestPattern is the authoritative trigger for the document wizard.
var docRequestPattern = regexp.MustCompile(`(?i)^(draft|create|generate|write)\s+an?\s+`)

var documentTypes = []string{"invoice", "receipt", "quotation", "contract"}

var typeAliases = map[string]string{
	"quote":     "quotation",
	"estimate":  "quotation",
	"agreement": "contract",
	"bill":      "invoice",
}

// Classify runs the intent pipeline: document regex first, then the canned FAQ
// sets, then the model label as a recall backstop. The first two never touch
// the network. client may be nil, in which case unmatched messages fall through
// to a general query.
func Classify(ctx context.Context, client llmHandlers.Client, message string) Intent {
	if docRequestPattern.MatchString(message) {
		return Intent{Kind: KindDocument, DocumentType: ExtractDocumentType(message)}
	}

	if topic := matchFAQ(message); topic != nil {
		return Intent{Kind: KindFAQ, Answer: topic.answer}
	}

	if client != nil {
		if intent, ok := classifyWithModel(ctx, client, message); ok {
			return intent
		}
	}

	return Intent{Kind: KindGeneral}
}

// ExtractDocumentType finds the requested document type inside the message,
// falling back to a generic type when none of the known ones appear.
func ExtractDocumentType(message string) string {
	lower := strings.ToLower(message)
	for _, t := range documentTypes {
		if strings.Contains(lower, t) {
			return t
		}
	}
	for alias, canonical := range typeAliases {
		if strings.Contains(lower, alias) {
			return canonical
		}
	}
	return "document"
}

func classifyWithModel(ctx context.Context, client llmHandlers.Client, message string) (Intent, bool) {
	reply, err := client.Chat(ctx, prompts.CLASSIFY_PROMPT, []llmHandlers.Message{
		{Role: models.RoleUser, Content: message},
	})
	if err != nil {
		// label failures degrade to a general query, never to an error
		return Intent{}, false
	}

	label := strings.ToUpper(strings.TrimSpace(reply))
	if strings.HasPrefix(label, "DOCUMENT") {
		docType := "document"
		if _, rest, ok := strings.Cut(label, ":"); ok {
			docType = ExtractDocumentType(rest)
		}
		return Intent{Kind: KindDocument, DocumentType: docType}, true
	}
	if strings.HasPrefix(label, "GENERAL") {
		return Intent{Kind: KindGeneral}, true
	}

	// unparseable label
	return Intent{}, false
}
