// Package checkout validates the customer details and rental window
// collected before a payment is initiated.
package checkout

import (
	"regexp"
	"time"

	"lensbox/models"
)

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	zipRe   = regexp.MustCompile(`^\d{6}$`)
)

// ValidateDetails checks the shipping address step. It returns a map of
// field name to message for every failing field; an empty map means the
// details are acceptable.
func ValidateDetails(d models.CustomerDetails) map[string]string {
	errs := make(map[string]string)

	required := map[string]string{
		"fullName":     d.FullName,
		"phone":        d.Phone,
		"addressLine1": d.AddressLine1,
		"city":         d.City,
		"state":        d.State,
		"country":      d.Country,
		"zipCode":      d.ZipCode,
	}
	for field, value := range required {
		if value == "" {
			errs[field] = "This field is required"
		}
	}

	if d.Phone != "" && !phoneRe.MatchString(d.Phone) {
		errs["phone"] = "Please enter a valid 10-digit phone number"
	}
	if d.ZipCode != "" && !zipRe.MatchString(d.ZipCode) {
		errs["zipCode"] = "Please enter a valid 6-digit PIN code"
	}

	return errs
}

// ValidateDates checks the rental window step.
func ValidateDates(start, end time.Time) map[string]string {
	errs := make(map[string]string)
	if start.IsZero() {
		errs["startDate"] = "Start date is required"
	}
	if end.IsZero() {
		errs["endDate"] = "End date is required"
	}
	if len(errs) == 0 && end.Before(start) {
		errs["endDate"] = "End date cannot be before start date"
	}
	return errs
}
