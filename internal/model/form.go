package model

import (
	"regexp"
	"strings"
)

// FormState is everything the form holds for one run of the program.
// Fields change independently; IsLoading is only true while one
// submission is in flight.
type FormState struct {
	Name        string
	Email       string
	APIEndpoint string
	DarkMode    bool
	IsLoading   bool
}

// Payload is the JSON body posted to the endpoint.
type Payload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payload snapshots the fields that get sent. The email is trimmed the
// same way ValidEmail sees it.
func (s FormState) Payload() Payload {
	return Payload{Name: s.Name, Email: strings.TrimSpace(s.Email)}
}

// Field names used when reporting constraint violations.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// Constraint messages, worded as browsers word them.
const (
	MsgRequired     = "Please fill out this field."
	MsgInvalidEmail = "Please enter an email address."
)

// FieldError is a native constraint failure on a single input.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// HTML living standard "valid email address" grammar.
var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// ValidEmail reports whether s passes the email input constraint.
// Surrounding whitespace is ignored the way browsers sanitize the value.
func ValidEmail(s string) bool {
	return emailRegexp.MatchString(strings.TrimSpace(s))
}

// CheckConstraints applies the required/email checks a browser runs
// before letting a form submit. It returns the first failing field.
func (s FormState) CheckConstraints() *FieldError {
	if s.Name == "" {
		return &FieldError{Field: FieldName, Message: MsgRequired}
	}
	if strings.TrimSpace(s.Email) == "" {
		return &FieldError{Field: FieldEmail, Message: MsgRequired}
	}
	if !ValidEmail(s.Email) {
		return &FieldError{Field: FieldEmail, Message: MsgInvalidEmail}
	}
	return nil
}
