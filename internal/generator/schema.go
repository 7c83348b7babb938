package generator

// Property is one string field of the requested output object.
type Property struct {
	Name        string
	Description string
}

// Schema describes the object the generation service must return. Every
// property is a required string and no other properties are allowed.
type Schema struct {
	Name       string
	Properties []Property
}

// JSONSchema renders the schema as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	required := make([]any, 0, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		required = append(required, p.Name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// Names lists the property names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Properties))
	for i, p := range s.Properties {
		names[i] = p.Name
	}
	return names
}

// BidLetterSchema is the structure requested for a bid letter.
var BidLetterSchema = &Schema{
	Name: "bid_letter_response",
	Properties: []Property{
		{"date", "Today's date, formatted as 'Month Day, Year'. Example: August 8, 2025."},
		{"recipientName", "The name of the primary recipient, usually the agency or client contact. Formatted as 'To: [Client Name] & [Agency Name]' or just 'To: [Client Name]' if agency is not provided."},
		{"subjectLine", "A clear subject line including the project name and the words 'Bid Proposal' or 'Production Bid'."},
		{"salutation", "A professional salutation. Example: 'Dear Team at [Client/Agency Name],' or 'Hello,'."},
		{"openingParagraph", "1-2 sentences expressing enthusiasm for the project and confirming receipt of the bid materials. Must mention the project name."},
		{"projectUnderstandingParagraph", "2-3 sentences summarizing the creative vision from the synopsis. This demonstrates comprehension."},
		{"methodologyTeaser", "1-2 sentences about the logistical approach, mentioning shoot days and locations."},
		{"budgetSummary", "A sentence that clearly states the total budget for the project."},
		{"keyAssumptions", "A multi-line string containing the key assumptions, with each assumption on a new line. Start each line with a bullet point (•) or hyphen (-)."},
		{"keyDeliverables", "A multi-line string containing the key deliverables, with each deliverable on a new line. Start each line with a bullet point (•) or hyphen (-)."},
		{"closingParagraph", "A concluding paragraph that reiterates enthusiasm, states the bid's validity period until the due date, and invites further discussion."},
		{"signOff", "A professional closing. Example: 'Sincerely,' or 'Best regards,'."},
		{"senderName", "The name of the person sending the bid."},
		{"senderRole", "The job title of the person sending the bid."},
		{"senderCompany", "The name of the production company."},
	},
}
