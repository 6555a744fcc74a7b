package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	nonDigit     = regexp.MustCompile(`\D`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	visitorIDMax = 128
)

func isValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// reject "Name <a@b>" forms; we only accept bare addresses
	return err == nil && addr.Address == strings.TrimSpace(email)
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}

func isValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func requireField(errs []ValidationError, field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{field, "is required"})
	}
	return errs
}

func requireEmail(errs []ValidationError, field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{field, "is required"})
	}
	if !isValidEmail(value) {
		return append(errs, ValidationError{field, "is invalid"})
	}
	return errs
}

func maxLen(errs []ValidationError, field, value string, n int) []ValidationError {
	if len(value) > n {
		return append(errs, ValidationError{field, fmt.Sprintf("must not exceed %d characters", n)})
	}
	return errs
}

// noControl rejects ASCII control characters. Multiline fields may still
// carry CR, LF and TAB.
func noControl(errs []ValidationError, field, value string, multiline bool) []ValidationError {
	for _, r := range value {
		if multiline && (r == '\n' || r == '\r' || r == '\t') {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return append(errs, ValidationError{field, "must not contain control characters"})
		}
	}
	return errs
}

func parseRFC3339(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
