// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule.
type FieldError struct {
	field   string
	tag     string
	message string
}

// Field returns the field or parameter name that failed.
func (e FieldError) Field() string { return e.field }

// Tag returns the rule that failed, e.g. "pathid" or "oneof".
func (e FieldError) Tag() string { return e.tag }

func (e FieldError) Error() string { return e.message }

// RequestValidationError collects every failed rule of one input. The API
// answers it with 400 bad_request and Error() as the message.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual failures.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the shared validator with the pathid rule registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("pathid", validatePathID)
	})
	return validate
}

// ValidateStruct validates s against its validate tags.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{field: fe.Field(), tag: fe.Tag(), message: translateError(fe)}
	}
	return &RequestValidationError{errors: out}
}

// messages for rules without a parameter; %s is the field name.
var messages = map[string]string{
	"required": "%s is required",
	"ip":       "%s must be a valid IP address",
	"pathid":   "%s must be 1-64 characters of letters, digits, '-' or '_'",
}

// paramMessages for rules with a parameter; the second %s is the parameter.
var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gt":    "%s must be greater than %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

func translateError(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

const maxPathIDLen = 64

func validatePathID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > maxPathIDLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// PathParam is a single identifier read from a route segment.
type PathParam struct {
	Value string `validate:"pathid"`
}

// ValidatePathParam checks a route identifier such as {playerId}. The
// error names the route parameter.
func ValidatePathParam(name, value string) *RequestValidationError {
	verr := ValidateStruct(&PathParam{Value: value})
	if verr == nil {
		return nil
	}
	for i := range verr.errors {
		verr.errors[i].field = name
		verr.errors[i].message = fmt.Sprintf(messages["pathid"], name)
	}
	return verr
}

// LookupIPParam is the query of the geolocation debug endpoint.
type LookupIPParam struct {
	IP string `validate:"required,ip"`
}
