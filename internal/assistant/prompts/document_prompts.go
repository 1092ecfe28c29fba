package prompts

// CLASSIFY_PROMPT labels a message as a document request or a general query.
// The reply must be a single line so it can be parsed without a JSON decoder.
var CLASSIFY_PROMPT = `
You label chat messages for a business assistant.
If the message asks you to produce a business document (invoice, receipt, quotation, contract or similar),
answer exactly:
DOCUMENT: <document type in lowercase>
Otherwise answer exactly:
GENERAL
Answer with that single line and nothing else.
`

// SCHEMA_PROMPT asks for the input fields needed to draft a document type.
// %s is the document type.
var SCHEMA_PROMPT = `
List the form fields needed to draft a %s for a small Indian business.
Reply with ONLY a JSON array, no prose, no code fences. Each element:
{"id": "snake_case_id", "label": "Human label", "type": "text|email|phone|date|number|textarea", "required": true|false, "placeholder": "optional hint"}
Between 4 and 12 fields. Put identifying parties first, amounts and dates after, free-text notes last.
`

// RENDER_PROMPT asks for the finished document body.
// First %s is the document type, second %s is the submitted field data as JSON.
var RENDER_PROMPT = `
Draft a complete, professional %s using the data below.
Reply with ONLY an HTML fragment, no code fences, no explanations.
Use h2, h3, p, table, tr, td, th and strong tags. Inline styles are allowed, scripts are not.
Include every provided value. Do not invent values that were not provided.

Data:
%s
`
