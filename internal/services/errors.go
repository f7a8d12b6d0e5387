package services

import (
	"errors"

	"github.com/yungbote/promptcraft-backend/internal/data/db"
	types "github.com/yungbote/promptcraft-backend/internal/domain/enhancement"
	"github.com/yungbote/promptcraft-backend/internal/platform/apierr"
)

// Error codes. The HTTP layer maps each to a fixed public message.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeEnhancementNotFound = "enhancement_not_found"
	CodeAnalysisFailed      = "analysis_failed"
	CodeEnhancementFailed   = "enhancement_failed"
	CodeFetchFailed         = "fetch_failed"
	CodeHistoryFailed       = "history_failed"
	CodeSavedFailed         = "saved_failed"
	CodeSaveFailed          = "save_failed"
	CodeUnsaveFailed        = "unsave_failed"
)

func invalid(err error) error {
	return apierr.Validation(CodeInvalidRequest, err)
}

func invalidMsg(field, msg string) error {
	return invalid(&types.ValidationError{Field: field, Message: msg})
}

// storeErr classifies a repo error: not found keeps its own kind, everything
// else is a storage failure under code.
func storeErr(code string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	if db.IsNotFound(err) {
		return apierr.NotFound(CodeEnhancementNotFound, err)
	}
	return apierr.Storage(code, err)
}
