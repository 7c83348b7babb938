package bids

import "time"

// Form field names. They double as the json keys of BidRequest and the keys
// of FormViewState.Errors.
const (
	FieldClientName       = "clientName"
	FieldProjectName      = "projectName"
	FieldAgencyName       = "agencyName"
	FieldCreativeSynopsis = "creativeSynopsis"
	FieldShootDays        = "shootDays"
	FieldShootLocations   = "shootLocations"
	FieldKeyDeliverables  = "keyDeliverables"
	FieldTotalBudget      = "totalBudget"
	FieldBidDueDate       = "bidDueDate"
	FieldAssumptions      = "assumptions"
	FieldContactName      = "contactName"
	FieldContactRole      = "contactRole"
	FieldCompanyName      = "companyName"
)

// Fields lists every BidRequest field in form order.
var Fields = []string{
	FieldClientName,
	FieldProjectName,
	FieldAgencyName,
	FieldContactName,
	FieldContactRole,
	FieldCompanyName,
	FieldCreativeSynopsis,
	FieldShootDays,
	FieldShootLocations,
	FieldKeyDeliverables,
	FieldTotalBudget,
	FieldBidDueDate,
	FieldAssumptions,
}

type BidRequest struct {
	ClientName       string    `json:"clientName" validate:"min=2"`
	ProjectName      string    `json:"projectName" validate:"min=2"`
	AgencyName       string    `json:"agencyName,omitempty"`
	CreativeSynopsis string    `json:"creativeSynopsis" validate:"min=20"`
	ShootDays        int64     `json:"shootDays" validate:"gt=0"`
	ShootLocations   string    `json:"shootLocations" validate:"min=3"`
	KeyDeliverables  string    `json:"keyDeliverables" validate:"min=10"`
	TotalBudget      float64   `json:"totalBudget" validate:"gt=0"`
	BidDueDate       time.Time `json:"bidDueDate" validate:"required"`
	Assumptions      string    `json:"assumptions" validate:"min=10"`
	ContactName      string    `json:"contactName" validate:"min=2"`
	ContactRole      string    `json:"contactRole" validate:"min=2"`
	CompanyName      string    `json:"companyName" validate:"min=2"`
}

// BidLetterResult is the structured letter returned by the generation
// service. It is never modified locally.
type BidLetterResult struct {
	Date                          string `json:"date"`
	RecipientName                 string `json:"recipientName"`
	SubjectLine                   string `json:"subjectLine"`
	Salutation                    string `json:"salutation"`
	OpeningParagraph              string `json:"openingParagraph"`
	ProjectUnderstandingParagraph string `json:"projectUnderstandingParagraph"`
	MethodologyTeaser             string `json:"methodologyTeaser"`
	BudgetSummary                 string `json:"budgetSummary"`
	KeyAssumptions                string `json:"keyAssumptions"`
	KeyDeliverables               string `json:"keyDeliverables"`
	ClosingParagraph              string `json:"closingParagraph"`
	SignOff                       string `json:"signOff"`
	SenderName                    string `json:"senderName"`
	SenderRole                    string `json:"senderRole"`
	SenderCompany                 string `json:"senderCompany"`
}

// FieldErrors maps a BidRequest field name to its error messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Names returns the failing field names in form order.
func (e FieldErrors) Names() []string {
	names := make([]string, 0, len(e))
	for _, f := range Fields {
		if _, ok := e[f]; ok {
			names = append(names, f)
		}
	}
	return names
}

// FormViewState is the outcome of one submission. A new value is built for
// every submission.
type FormViewState struct {
	Message       string            `json:"message"`
	Errors        FieldErrors       `json:"errors"`
	Letter        *BidLetterResult  `json:"generatedLetter,omitempty"`
	SubmittedData map[string]string `json:"submittedData,omitempty"`
}

func (s FormViewState) Succeeded() bool {
	return s.Letter != nil
}

// LetterRecord is an archived generation.
type LetterRecord struct {
	Id          string          `json:"id"`
	ClientName  string          `json:"clientName"`
	ProjectName string          `json:"projectName"`
	Request     BidRequest      `json:"request"`
	Letter      BidLetterResult `json:"letter"`
	CreatedAt   time.Time       `json:"createdAt"`
}
