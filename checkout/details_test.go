package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lensbox/models"
)

func validDetails() models.CustomerDetails {
	return models.CustomerDetails{
		FullName:     "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Country:      "India",
		ZipCode:      "560001",
	}
}

func TestValidateDetailsAccepts(t *testing.T) {
	assert.Empty(t, ValidateDetails(validDetails()))
}

func TestValidateDetailsRequiredFields(t *testing.T) {
	errs := ValidateDetails(models.CustomerDetails{})

	for _, field := range []string{"fullName", "phone", "addressLine1", "city", "state", "country", "zipCode"} {
		assert.Contains(t, errs, field)
	}
	// addressLine2 is optional
	assert.NotContains(t, errs, "addressLine2")
}

func TestValidateDetailsPhone(t *testing.T) {
	bad := []string{"12345", "98765432101", "987654321a", "98765 4321", "+919876543210"}
	for _, phone := range bad {
		d := validDetails()
		d.Phone = phone
		errs := ValidateDetails(d)
		assert.Contains(t, errs, "phone", "phone %q should be rejected", phone)
	}
}

func TestValidateDetailsZipCode(t *testing.T) {
	bad := []string{"5600", "5600011", "56000a", "56 001"}
	for _, zip := range bad {
		d := validDetails()
		d.ZipCode = zip
		errs := ValidateDetails(d)
		assert.Contains(t, errs, "zipCode", "zip %q should be rejected", zip)
	}
}

func TestValidateDates(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, ValidateDates(start, end))
	assert.Empty(t, ValidateDates(start, start))

	errs := ValidateDates(end, start)
	assert.Contains(t, errs, "endDate")

	errs = ValidateDates(time.Time{}, end)
	assert.Contains(t, errs, "startDate")
}
