package orchestrator

import (
	"bytes"
	_ "embed"
	"strconv"
	"text/template"
	"time"

	"bid_letter/internal/models/bids"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateLayout renders dates as "August 8, 2025".
const DateLayout = "January 2, 2006"

//go:embed prompts/system.tmpl
var systemTemplate string

//go:embed prompts/user.tmpl
var userTemplate string

var (
	systemPrompt = template.Must(template.New("system").Parse(systemTemplate))
	userPrompt   = template.Must(template.New("user").Parse(userTemplate))
	enUS         = message.NewPrinter(language.AmericanEnglish)
)

type userPromptData struct {
	ClientName       string
	AgencyName       string
	ProjectName      string
	CreativeSynopsis string
	ShootDays        string
	ShootLocations   string
	KeyDeliverables  string
	TotalBudget      string
	BidDueDate       string
	Assumptions      string
	ContactName      string
	ContactRole      string
	CompanyName      string
}

// SystemPrompt builds the fixed role instruction for the given day.
func SystemPrompt(today time.Time) (string, error) {
	var buf bytes.Buffer
	err := systemPrompt.Execute(&buf, struct{ Today string }{today.Format(DateLayout)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UserPrompt lists every request field under its section heading.
func UserPrompt(req bids.BidRequest) (string, error) {
	agency := req.AgencyName
	if agency == "" {
		agency = "Not provided"
	}

	data := userPromptData{
		ClientName:       req.ClientName,
		AgencyName:       agency,
		ProjectName:      req.ProjectName,
		CreativeSynopsis: req.CreativeSynopsis,
		ShootDays:        strconv.FormatInt(req.ShootDays, 10),
		ShootLocations:   req.ShootLocations,
		KeyDeliverables:  req.KeyDeliverables,
		TotalBudget:      FormatBudget(req.TotalBudget),
		BidDueDate:       req.BidDueDate.Format(DateLayout),
		Assumptions:      req.Assumptions,
		ContactName:      req.ContactName,
		ContactRole:      req.ContactRole,
		CompanyName:      req.CompanyName,
	}

	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatBudget groups thousands en-US style and keeps up to three decimals.
func FormatBudget(amount float64) string {
	return enUS.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
}
