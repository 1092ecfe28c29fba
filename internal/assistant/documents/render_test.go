package documents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finaccosolutions/finacco-backend/internal/assistant/wizard"
	llmHandlers "github.com/finaccosolutions/finacco-backend/internal/llm_handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply string
	err   error
}

func (f *fakeClient) Chat(ctx context.Context, system string, messages []llmHandlers.Message) (string, error) {
	return f.reply, f.err
}

func invoiceForm() ([]wizard.FieldDef, map[string]string) {
	fields := []wizard.FieldDef{
		{ID: "business_name", Label: "Your Business Name", Type: "text", Required: true},
		{ID: "client_name", Label: "Client Name", Type: "text", Required: true},
		{ID: "invoice_number", Label: "Invoice Number", Type: "text", Required: true},
		{ID: "amount", Label: "Amount", Type: "number", Required: true},
	}
	values := map[string]string{
		"business_name":  "Finacco Solutions",
		"client_name":    "Acme Traders",
		"invoice_number": "INV-0042",
		"amount":         "15750.00",
	}
	return fields, values
}

func TestRenderUsesModelBody(t *testing.T) {
	client := &fakeClient{reply: "```html\n<h2>Invoice</h2><p>Acme Traders owes 15750.00</p>\n```"}
	fields, values := invoiceForm()

	got := Render(context.Background(), client, "invoice", fields, values)

	assert.False(t, got.Fallback)
	assert.Equal(t, "Invoice", got.Title)
	assert.Equal(t, "<h2>Invoice</h2><p>Acme Traders owes 15750.00</p>", got.HTML)
}

func TestRenderFallbackContainsEveryValueExactlyOnce(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}
	fields, values := invoiceForm()

	got := Render(context.Background(), client, "invoice", fields, values)

	require.True(t, got.Fallback)
	for id, value := range values {
		assert.Equal(t, 1, strings.Count(got.HTML, value), "value for %s should appear exactly once", id)
	}
}

func TestRenderFallbackOnNonHTMLReply(t *testing.T) {
	client := &fakeClient{reply: "I'm sorry, I cannot draft that document."}
	fields, values := invoiceForm()

	got := Render(context.Background(), client, "invoice", fields, values)
	assert.True(t, got.Fallback)
}

func TestFallbackKeepsFieldOrderAndExtras(t *testing.T) {
	fields := []wizard.FieldDef{
		{ID: "party_one", Label: "First Party", Type: "text"},
		{ID: "party_two", Label: "Second Party", Type: "text"},
	}
	values := map[string]string{
		"party_two":    "Beta LLP",
		"party_one":    "Alpha Pvt Ltd",
		"extra_clause": "Payment within 30 days",
	}

	html := FallbackHTML("contract", fields, values)

	first := strings.Index(html, "Alpha Pvt Ltd")
	second := strings.Index(html, "Beta LLP")
	extra := strings.Index(html, "Payment within 30 days")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, extra)
	assert.Less(t, first, second, "field order should be preserved")
	assert.Less(t, second, extra, "extras come after defined fields")
	assert.Contains(t, html, "Extra Clause")
}

func TestFallbackEscapesValues(t *testing.T) {
	fields := []wizard.FieldDef{{ID: "notes", Label: "Notes", Type: "textarea"}}
	values := map[string]string{"notes": `<script>alert("x")</script>`}

	html := FallbackHTML("document", fields, values)
	assert.NotContains(t, html, "<script>")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Invoice", Title("invoice"))
	assert.Equal(t, "Quotation", Title("QUOTATION"))
	assert.Equal(t, "Document", Title(""))
}
