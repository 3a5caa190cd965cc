package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/blogpost/internal/domain"
)

const (
	maxStringLength   = 255
	minPasswordLength = 8
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

func requiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

// checkString validates a required string limited to max characters.
// A max of 0 means unbounded.
func checkString(verr *domain.ValidationError, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, requiredMessage(field))
		return
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		verr.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", field, max))
	}
}

func checkEmail(verr *domain.ValidationError, email string) {
	checkString(verr, "email", email, maxStringLength)
	if verr.Has("email") {
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		verr.Add("email", "The email field must be a valid email address.")
	}
}

func checkNewPassword(verr *domain.ValidationError, password, confirmation string) {
	if password == "" {
		verr.Add("password", requiredMessage("password"))
		return
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLength))
		return
	}
	if len(password) > maxPasswordBytes {
		verr.Add("password", fmt.Sprintf("The password field must not be greater than %d bytes.", maxPasswordBytes))
		return
	}
	if password != confirmation {
		verr.Add("password", "The password field confirmation does not match.")
	}
}

const emailTakenMessage = "The email has already been taken."
