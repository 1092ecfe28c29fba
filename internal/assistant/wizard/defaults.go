package wizard

// DefaultFields is the fixed field set used when the model cannot propose one.
// Every supported document type has a curated set; unknown types get the
// generic one.
func DefaultFields(documentType string) []FieldDef {
	switch documentType {
	case "invoice":
		return []FieldDef{
			{ID: "business_name", Label: "Your Business Name", Type: "text", Required: true},
			{ID: "business_email", Label: "Your Business Email", Type: "email", Required: true},
			{ID: "client_name", Label: "Client Name", Type: "text", Required: true},
			{ID: "client_email", Label: "Client Email", Type: "email", Required: false},
			{ID: "invoice_number", Label: "Invoice Number", Type: "text", Required: true},
			{ID: "invoice_date", Label: "Invoice Date", Type: "date", Required: true},
			{ID: "due_date", Label: "Due Date", Type: "date", Required: false},
			{ID: "item_description", Label: "Description of Goods / Services", Type: "textarea", Required: true},
			{ID: "amount", Label: "Amount", Type: "number", Required: true},
			{ID: "tax_rate", Label: "GST Rate (%)", Type: "number", Required: false},
		}
	case "receipt":
		return []FieldDef{
			{ID: "business_name", Label: "Your Business Name", Type: "text", Required: true},
			{ID: "payer_name", Label: "Received From", Type: "text", Required: true},
			{ID: "receipt_number", Label: "Receipt Number", Type: "text", Required: true},
			{ID: "payment_date", Label: "Payment Date", Type: "date", Required: true},
			{ID: "amount", Label: "Amount Received", Type: "number", Required: true},
			{ID: "payment_method", Label: "Payment Method", Type: "text", Required: false},
			{ID: "payment_purpose", Label: "Payment Towards", Type: "textarea", Required: false},
		}
	case "quotation":
		return []FieldDef{
			{ID: "business_name", Label: "Your Business Name", Type: "text", Required: true},
			{ID: "business_phone", Label: "Your Phone", Type: "phone", Required: false},
			{ID: "client_name", Label: "Prepared For", Type: "text", Required: true},
			{ID: "quotation_number", Label: "Quotation Number", Type: "text", Required: true},
			{ID: "quotation_date", Label: "Date", Type: "date", Required: true},
			{ID: "valid_until", Label: "Valid Until", Type: "date", Required: false},
			{ID: "scope", Label: "Scope of Work / Items", Type: "textarea", Required: true},
			{ID: "estimated_amount", Label: "Estimated Amount", Type: "number", Required: true},
		}
	case "contract":
		return []FieldDef{
			{ID: "party_one", Label: "First Party", Type: "text", Required: true},
			{ID: "party_two", Label: "Second Party", Type: "text", Required: true},
			{ID: "party_two_email", Label: "Second Party Email", Type: "email", Required: false},
			{ID: "effective_date", Label: "Effective Date", Type: "date", Required: true},
			{ID: "term", Label: "Term / Duration", Type: "text", Required: false},
			{ID: "scope", Label: "Scope of Agreement", Type: "textarea", Required: true},
			{ID: "consideration", Label: "Consideration / Fees", Type: "number", Required: false},
			{ID: "jurisdiction", Label: "Governing Jurisdiction", Type: "text", Required: false},
		}
	default:
		return []FieldDef{
			{ID: "title", Label: "Document Title", Type: "text", Required: true},
			{ID: "prepared_for", Label: "Prepared For", Type: "text", Required: true},
			{ID: "document_date", Label: "Date", Type: "date", Required: true},
			{ID: "body", Label: "Details", Type: "textarea", Required: true},
		}
	}
}
