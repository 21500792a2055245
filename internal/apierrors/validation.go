package apierrors

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestParams maps bound struct fields to the parameter names callers send.
var requestParams = map[string]string{
	"UUID":    "uuid",
	"CallSid": "CallSid",
	"Query":   "q",
}

// callIDParams identify the call a webhook is about.
var callIDParams = map[string]bool{
	"uuid":    true,
	"CallSid": true,
}

func paramName(fieldErr validator.FieldError) string {
	if param, ok := requestParams[fieldErr.Field()]; ok {
		return param
	}
	return fieldErr.Field()
}

// validationCode reports a missing call id separately so webhook
// misconfiguration stands out from bad balance API queries.
func validationCode(validationErrs validator.ValidationErrors) string {
	for _, fieldErr := range validationErrs {
		if callIDParams[paramName(fieldErr)] && fieldErr.Tag() == "required" {
			return CodeMissingCallID
		}
	}
	return CodeInvalidInput
}

func buildValidationMessage(validationErrs validator.ValidationErrors) string {
	if len(validationErrs) == 0 {
		return "Invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, getValidationMessage(fieldErr))
	}
	return strings.Join(messages, "; ")
}

func getValidationMessage(fieldErr validator.FieldError) string {
	param := paramName(fieldErr)
	if fieldErr.Tag() != "required" {
		return fmt.Sprintf("%s failed validation (%s)", param, fieldErr.Tag())
	}

	switch param {
	case "uuid":
		return "uuid is required: the answer webhook must carry the Vonage call leg id"
	case "CallSid":
		return "CallSid is required: the answer webhook must carry the Twilio call sid"
	case "q":
		return "q is required: pass the category name to resolve"
	default:
		return fmt.Sprintf("%s is required", param)
	}
}
