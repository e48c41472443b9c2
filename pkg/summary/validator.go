package summary

import (
	"errors"

	"github.com/clinscribe/platform/pkg/common/models"
)

var errMissingClinicalText = errors.New("clinical_text is required unless images are supplied")

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func validateRequest(req models.SummaryRequest) error {
	if req.ClinicalText == "" && len(req.Images) == 0 {
		return ValidationError{reason: errMissingClinicalText}
	}
	return nil
}
