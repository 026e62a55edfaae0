// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance.
//
// Request DTOs carry `validate` tags; handlers call ValidateStruct before any
// processing so malformed input is rejected with no side effects:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vitrine-labs/persona-engine/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes a single failed validation constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error returns the human-readable message for this field.
func (e FieldError) Error() string {
	return e.Message
}

// RequestError is a collection of validation failures for one request.
type RequestError struct {
	fields []FieldError
}

// Fields returns the individual field errors.
func (re *RequestError) Fields() []FieldError {
	return re.fields
}

// Error implements the error interface with all messages joined.
func (re *RequestError) Error() string {
	if len(re.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(re.fields))
	for i, fe := range re.fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// ToAPIError converts the validation failures to the API error envelope with
// the stable VALIDATION_ERROR code.
func (re *RequestError) ToAPIError() *models.APIError {
	if len(re.fields) == 0 {
		return &models.APIError{Code: models.CodeValidation, Message: "validation failed"}
	}

	if len(re.fields) == 1 {
		fe := re.fields[0]
		return &models.APIError{
			Code:    models.CodeValidation,
			Message: fe.Message,
			Details: map[string]interface{}{"field": fe.Field, "tag": fe.Tag},
		}
	}

	details := make([]map[string]interface{}, len(re.fields))
	for i, fe := range re.fields {
		details[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
	}
	return &models.APIError{
		Code:    models.CodeValidation,
		Message: re.Error(),
		Details: map[string]interface{}{"fields": details},
	}
}

// Validator returns the singleton validator instance. The built-in tags
// cover everything the engine needs, including eth_addr for wallet
// addresses and numeric for decimal money strings.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct using the singleton validator. Returns
// nil when validation passes.
func ValidateStruct(s interface{}) *RequestError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
	}
	return &RequestError{fields: fields}
}

// messageTemplates maps validation tags to message templates taking only the
// field name.
var messageTemplates = map[string]string{
	"required": "%s is required",
	"eth_addr": "%s must be a valid Ethereum address",
	"numeric":  "%s must be a decimal number",
	"url":      "%s must be a valid URL",
	"gte":      "%s must be non-negative",
}

// translate converts a validator.FieldError to a human-readable message.
func translate(fe validator.FieldError) string {
	field := fe.Field()

	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}

	switch fe.Tag() {
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
