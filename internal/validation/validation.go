// Package validation turns raw form values into a typed bids.BidRequest.
package validation

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"bid_letter/internal/models/bids"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired     = "Required"
	MsgNotANumber   = "Expected number, received nan"
	MsgNotAnInteger = "Expected integer, received float"
	MsgInvalidDate  = "Invalid date"
	MsgTooManyDays  = "Number must be less than or equal to 9007199254740991"
)

// maxShootDays is the largest day count a float64 holds exactly.
const maxShootDays = 1<<53 - 1

// Messages holds the rule failure message for every validated field.
var Messages = map[string]string{
	bids.FieldClientName:       "Client name is required.",
	bids.FieldProjectName:      "Project name is required.",
	bids.FieldCreativeSynopsis: "Synopsis must be at least 20 characters.",
	bids.FieldShootDays:        "Must be a positive number.",
	bids.FieldShootLocations:   "Locations are required.",
	bids.FieldKeyDeliverables:  "Deliverables are required.",
	bids.FieldTotalBudget:      "Budget must be a positive number.",
	bids.FieldBidDueDate:       "A bid due date is required.",
	bids.FieldAssumptions:      "Please list at least one assumption.",
	bids.FieldContactName:      "Your name is required.",
	bids.FieldContactRole:      "Your role is required.",
	bids.FieldCompanyName:      "Your company name is required.",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse coerces and validates raw form values. Either a complete request or
// a non-empty set of field errors is returned, never both.
func Parse(raw map[string]string) (bids.BidRequest, bids.FieldErrors) {
	errs := bids.FieldErrors{}
	var req bids.BidRequest

	text := func(field string, dst *string) {
		v, ok := raw[field]
		if !ok {
			errs.Add(field, MsgRequired)
			return
		}
		*dst = v
	}

	text(bids.FieldClientName, &req.ClientName)
	text(bids.FieldProjectName, &req.ProjectName)
	req.AgencyName = raw[bids.FieldAgencyName]
	text(bids.FieldCreativeSynopsis, &req.CreativeSynopsis)
	text(bids.FieldShootLocations, &req.ShootLocations)
	text(bids.FieldKeyDeliverables, &req.KeyDeliverables)
	text(bids.FieldAssumptions, &req.Assumptions)
	text(bids.FieldContactName, &req.ContactName)
	text(bids.FieldContactRole, &req.ContactRole)
	text(bids.FieldCompanyName, &req.CompanyName)

	if days, ok := raw[bids.FieldShootDays]; !ok {
		errs.Add(bids.FieldShootDays, MsgNotANumber)
	} else if n, ok := coerceNumber(days); !ok {
		errs.Add(bids.FieldShootDays, MsgNotANumber)
	} else if n != math.Trunc(n) {
		errs.Add(bids.FieldShootDays, MsgNotAnInteger)
		if n <= 0 {
			errs.Add(bids.FieldShootDays, Messages[bids.FieldShootDays])
		}
	} else if n > maxShootDays {
		errs.Add(bids.FieldShootDays, MsgTooManyDays)
	} else {
		req.ShootDays = int64(n)
	}

	if budget, ok := raw[bids.FieldTotalBudget]; !ok {
		errs.Add(bids.FieldTotalBudget, MsgNotANumber)
	} else if n, ok := coerceNumber(budget); !ok {
		errs.Add(bids.FieldTotalBudget, MsgNotANumber)
	} else {
		req.TotalBudget = n
	}

	if due := raw[bids.FieldBidDueDate]; due == "" {
		errs.Add(bids.FieldBidDueDate, Messages[bids.FieldBidDueDate])
	} else if t, err := ParseDate(due); err != nil {
		errs.Add(bids.FieldBidDueDate, MsgInvalidDate)
	} else {
		req.BidDueDate = t
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		errors.As(err, &verrs)
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			errs.Add(fe.Field(), Messages[fe.Field()])
		}
	}

	if len(errs) > 0 {
		return bids.BidRequest{}, errs
	}
	return req, nil
}

// ParseDate reads a date input value. Plain dates are taken as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// coerceNumber follows form semantics: surrounding whitespace is ignored and
// a blank value is zero.
func coerceNumber(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
