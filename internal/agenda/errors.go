package agenda

import "errors"

var (
	ErrNotFound    = errors.New("agenda: appointment not found")
	ErrInvalidDate = errors.New("agenda: invalid filter date")
)
