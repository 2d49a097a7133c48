package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type StartInterviewRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Role       string `json:"role" validate:"required,max=200"`
	Mode       string `json:"mode" validate:"required,oneof=turns time"`
	Limit      int    `json:"limit" validate:"required,min=1"`
	ResumeText string `json:"resume_text,omitempty" validate:"max=50000"`
	Channel    string `json:"channel,omitempty" validate:"omitempty,oneof=chat voice"`
}

// implements the Validator interface
func (r *StartInterviewRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.TrimSpace(r.Role)
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	r.Channel = strings.ToLower(strings.TrimSpace(r.Channel))
	if r.Channel == "" {
		r.Channel = "chat"
	}
	return validationError(validate.Struct(r))
}

type SubmitAnswerRequest struct {
	Answer      string `json:"answer" validate:"max=10000"`
	IsSilence   bool   `json:"is_silence"`
	QuestionSeq int    `json:"question_seq" validate:"min=0"`
}

func (r *SubmitAnswerRequest) Validate() error {
	return validationError(validate.Struct(r))
}

// validationError turns validator errors into an ErrorResponse with one
// detail per failing field
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ErrorResponse{Code: "validation_error", Message: err.Error()}
	}

	resp := &ErrorResponse{Code: "validation_error", Message: "Request validation failed"}
	for _, fe := range fieldErrs {
		resp.Details = append(resp.Details, ValidationErrorDetail{
			Field:  jsonFieldName(fe.Field()),
			Reason: describe(fe),
		})
	}
	if len(resp.Details) == 1 {
		resp.Code = "invalid_" + resp.Details[0].Field
		resp.Message = resp.Details[0].Reason
	}
	return resp
}

func describe(fe validator.FieldError) string {
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

var jsonFieldNames = map[string]string{
	"Name":        "name",
	"Role":        "role",
	"Mode":        "mode",
	"Limit":       "limit",
	"ResumeText":  "resume_text",
	"Channel":     "channel",
	"Answer":      "answer",
	"QuestionSeq": "question_seq",
}

func jsonFieldName(field string) string {
	if name, ok := jsonFieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}
