package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// DNI validation (Peruvian national ID)
func IsValidDNI(dni string) bool {
	return len(dni) == 8 && IsNumeric(dni)
}

// Phone number validation: 9-digit mobile starting with 9, optional +51/51 prefix.
func IsValidPhoneNumber(phone string) bool {
	// Remove spaces and dashes
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	phone = strings.TrimPrefix(phone, "+")
	if len(phone) == 11 && strings.HasPrefix(phone, "51") {
		phone = phone[2:]
	}

	return len(phone) == 9 && strings.HasPrefix(phone, "9") && IsNumeric(phone)
}

// Company code: 2-20 chars, A-Z, a-z, 0-9, -
// Underscores are excluded because the code is embedded in EMP_<code>_<id>.
var companyCodeRegex = regexp.MustCompile(`^[A-Za-z0-9-]{2,20}$`)

func IsValidCompanyCode(code string) bool {
	return companyCodeRegex.MatchString(code)
}

// Time of day validation, "HH:MM" or "HH:MM:SS".
func IsValidTimeOfDay(s string) bool {
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

// IsValidMonth reports whether month is within 1..12.
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
