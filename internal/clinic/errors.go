package clinic

import "errors"

var (
	ErrUnknownStatus   = errors.New("clinic: unknown appointment status")
	ErrUnknownModality = errors.New("clinic: unknown appointment modality")
)
