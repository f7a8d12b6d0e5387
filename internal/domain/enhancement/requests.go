package enhancement

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const MaxTitleLength = 120

type AnalyzeRequest struct {
	OriginalPrompt string `json:"originalPrompt" validate:"required,notblank"`
	Style          string `json:"style" validate:"omitempty,style"`
}

type EnhanceRequest struct {
	EnhancementID string   `json:"enhancementId" validate:"required,notblank"`
	Answers       []Answer `json:"answers" validate:"required,dive"`
	Style         string   `json:"style" validate:"omitempty,style"`
}

type SaveRequest struct {
	Title *string `json:"title"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("style", func(fl validator.FieldLevel) bool {
			return Style(fl.Field().String()).Valid()
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// ValidationError carries a client-safe message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks a request struct and returns the first failure as a *ValidationError.
func Validate(req any) error {
	err := validatorInstance().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: "Invalid request data"}
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Namespace(), Message: messageFor(fe)}
}

// NormalizeTitle trims a save title. nil stays nil; blank or over-long titles fail.
func NormalizeTitle(title *string) (*string, error) {
	if title == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return nil, &ValidationError{Field: "title", Message: "Title is required"}
	}
	if err := validatorInstance().Var(trimmed, fmt.Sprintf("max=%d", MaxTitleLength)); err != nil {
		return nil, &ValidationError{Field: "title", Message: "Title too long"}
	}
	return &trimmed, nil
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch {
	case field == "originalPrompt" && (fe.Tag() == "required" || fe.Tag() == "notblank"):
		return "Prompt is required"
	case fe.Tag() == "style":
		return fmt.Sprintf("%s must be one of detailed, creative, technical, conversational", field)
	case fe.Tag() == "required" || fe.Tag() == "notblank":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
