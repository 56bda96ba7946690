// Package model defines the record types served by the API and the
// validated input shapes for mutating operations.
package model

import (
	"net/mail"
	"strings"
)

// User is a directory record. The ID is assigned by the store on create
// and never changes afterwards.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateUserInput is the payload for POST /v1/users.
type CreateUserInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate checks the create payload and returns field-level errors,
// or nil when the input is acceptable.
func (in CreateUserInput) Validate() *ValidationError {
	ve := &ValidationError{}
	if err := checkEmail(in.Email); err != "" {
		ve.Add("email", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "must not be empty")
	}
	return ve.OrNil()
}

// UpdateUserInput is the payload for PATCH /v1/users/{id}. Every field is
// optional; a nil field leaves the stored value untouched.
type UpdateUserInput struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

// Validate checks only the fields that were supplied. An empty patch is
// valid and results in no change.
func (in UpdateUserInput) Validate() *ValidationError {
	ve := &ValidationError{}
	if in.Email != nil {
		if err := checkEmail(*in.Email); err != "" {
			ve.Add("email", err)
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		ve.Add("name", "must not be empty")
	}
	return ve.OrNil()
}

// IsEmpty reports whether the patch carries no fields at all.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Email == nil && in.Name == nil
}

// Apply merges the supplied fields into u, leaving the rest untouched.
func (in UpdateUserInput) Apply(u User) User {
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	return u
}

// checkEmail returns an empty string for a syntactically valid address,
// or a message describing the problem. mail.ParseAddress accepts bare
// local parts like "a@b", so a dot in the domain is required on top.
func checkEmail(s string) string {
	if strings.TrimSpace(s) == "" {
		return "must not be empty"
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "must be a valid email address"
	}
	at := strings.LastIndex(s, "@")
	if at < 0 || !strings.Contains(s[at+1:], ".") {
		return "must be a valid email address"
	}
	return ""
}
