package generator

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"bid_letter/internal/models/bids"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLetter() bids.BidLetterResult {
	return bids.BidLetterResult{
		Date:                          "August 8, 2025",
		RecipientName:                 "To: Nike & Wieden+Kennedy",
		SubjectLine:                   "Production Bid: Future Run",
		Salutation:                    "Dear Team at Wieden+Kennedy,",
		OpeningParagraph:              "Thank you for the Future Run materials.",
		ProjectUnderstandingParagraph: "A runner races the sunrise.",
		MethodologyTeaser:             "Three days across Los Angeles.",
		BudgetSummary:                 "The total budget is $500,000.",
		KeyAssumptions:                "- Non-union talent\n- Two company moves",
		KeyDeliverables:               "• 1 x 60s TVC\n• 2 x 15s cutdowns",
		ClosingParagraph:              "This bid is valid until August 30, 2025.",
		SignOff:                       "Best regards,",
		SenderName:                    "Jane Doe",
		SenderRole:                    "Executive Producer",
		SenderCompany:                 "RadicalMedia",
	}
}

func TestBidLetterSchema_MatchesResultFields(t *testing.T) {
	typ := reflect.TypeOf(bids.BidLetterResult{})
	tags := make([]string, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tags[i] = strings.SplitN(typ.Field(i).Tag.Get("json"), ",", 2)[0]
	}

	assert.Equal(t, tags, BidLetterSchema.Names())
}

func TestJSONSchema(t *testing.T) {
	doc := BidLetterSchema.JSONSchema()

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Len(t, doc["required"], 15)

	props := doc["properties"].(map[string]any)
	date := props["date"].(map[string]any)
	assert.Equal(t, "string", date["type"])
	assert.Contains(t, date["description"], "Month Day, Year")
}

func TestConform_Valid(t *testing.T) {
	raw, err := json.Marshal(sampleLetter())
	require.NoError(t, err)

	letter, err := Conform(BidLetterSchema, string(raw))
	require.NoError(t, err)
	assert.Equal(t, sampleLetter(), letter)
}

func TestConform_Failures(t *testing.T) {
	full, err := json.Marshal(sampleLetter())
	require.NoError(t, err)

	var missing map[string]any
	require.NoError(t, json.Unmarshal(full, &missing))
	delete(missing, "signOff")
	missingRaw, _ := json.Marshal(missing)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(full, &extra))
	extra["postscript"] = "P.S."
	extraRaw, _ := json.Marshal(extra)

	var wrongType map[string]any
	require.NoError(t, json.Unmarshal(full, &wrongType))
	wrongType["budgetSummary"] = 500000
	wrongTypeRaw, _ := json.Marshal(wrongType)

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "  ", ErrEmptyResponse},
		{"truncated", string(full[:len(full)/2]), ErrSchemaMismatch},
		{"missing field", string(missingRaw), ErrSchemaMismatch},
		{"extra field", string(extraRaw), ErrSchemaMismatch},
		{"wrong type", string(wrongTypeRaw), ErrSchemaMismatch},
		{"array", "[]", ErrSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Conform(BidLetterSchema, tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
