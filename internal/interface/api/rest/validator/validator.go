package validator

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"socialmedia-api/internal/interface/api/rest/dto/auth"
	"socialmedia-api/internal/interface/api/rest/dto/user"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateRegister(r user.Request) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(r.Name)

	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)

	if name == "" {
		errs["name"] = "name is required"
	} else if l := utf8.RuneCountInString(name); l < 2 || l > 64 {
		errs["name"] = "name length must be 2-64 characters"
	} else if !isHumanName(name) {
		errs["name"] = "allowed characters: letters, space, '-', '''"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmail(errs map[string]string, raw string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}
}

// passwords are not trimmed
func validatePassword(errs map[string]string, password string) {
	if strings.TrimSpace(password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8-72 characters"
	}
}

func isHumanName(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || r == ' ' || r == '-' || r == '\'' {
			continue
		}
		return false
	}
	return true
}
