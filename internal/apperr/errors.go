package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrProtectedCategory = errors.New("protected category")
	ErrCategoryInUse     = errors.New("category in use")
)
