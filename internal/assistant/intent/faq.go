package intent

import "strings"

// faqTopic is a canned answer served without calling the model
type faqTopic struct {
	name     string
	keywords []string
	answer   string
}

var faqTopics = []faqTopic{
	{
		name:     "company",
		keywords: []string{"about finacco", "about the company", "about your company", "who are you", "what is finacco", "tell me about finacco"},
		answer: "<p><b>Finacco Solutions</b> is a financial and technology consultancy based in Kerala, India. " +
			"We combine accounting expertise with software to keep businesses compliant and running smoothly.</p>" +
			"<p>Ask me about our services, our products, or how to reach the team.</p>",
	},
	{
		name:     "contact",
		keywords: []string{"contact", "phone number", "email address", "reach you", "talk to someone", "office address", "where are you located"},
		answer: "<p>You can reach Finacco Solutions at:</p>" +
			"<ul><li>Email: <b>info@finaccosolutions.com</b></li>" +
			"<li>Phone: <b>+91 85939 00666</b></li>" +
			"<li>Office: Thrissur, Kerala, India</li></ul>" +
			"<p>The team usually replies within one business day.</p>",
	},
	{
		name:     "services",
		keywords: []string{"services", "gst registration", "tax filing", "company registration", "bookkeeping", "what do you offer", "what can you do for my business"},
		answer: "<p>Finacco Solutions offers:</p>" +
			"<ul><li>GST registration and monthly filing</li>" +
			"<li>Income tax returns for individuals and businesses</li>" +
			"<li>Company and LLP incorporation</li>" +
			"<li>Bookkeeping and payroll</li>" +
			"<li>Custom accounting software and integrations</li></ul>",
	},
	{
		name:     "products",
		keywords: []string{"products", "software", "your app", "erp", "billing software", "tally"},
		answer: "<p>Our product line covers:</p>" +
			"<ul><li><b>Finacco Books</b>: GST-ready billing and accounting</li>" +
			"<li><b>Finacco Connect</b>: bank reconciliation and Tally import utilities</li>" +
			"<li>Custom ERP modules built to order</li></ul>" +
			"<p>Ask for a demo and the team will set one up.</p>",
	},
}

// matchFAQ returns the first topic whose keyword list hits the message.
func matchFAQ(message string) *faqTopic {
	lower := strings.ToLower(message)
	for i := range faqTopics {
		for _, kw := range faqTopics[i].keywords {
			if strings.Contains(lower, kw) {
				return &faqTopics[i]
			}
		}
	}
	return nil
}
