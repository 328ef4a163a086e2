package forms

import "errors"

// Validation failures. Messages are shown to the practitioner as-is.
var (
	ErrRequired             = errors.New("Por favor completa todos los campos requeridos")
	ErrInvalidEmail         = errors.New("El email no tiene un formato válido")
	ErrTooShort             = errors.New("Debe tener al menos 9 caracteres")
	ErrInvalidDate          = errors.New("Fecha inválida")
	ErrInvalidTime          = errors.New("Hora inválida")
	ErrBirthDateFuture      = errors.New("La fecha de nacimiento no puede ser futura")
	ErrTooOld               = errors.New("La fecha de nacimiento no puede implicar más de 120 años")
	ErrEndBeforeStart       = errors.New("La hora de fin debe ser posterior a la hora de inicio")
	ErrMinDuration          = errors.New("La cita debe durar al menos 15 minutos")
	ErrLocationRequired     = errors.New("La ubicación o el enlace es obligatorio")
	ErrPatientRequired      = errors.New("Por favor selecciona un paciente")
	ErrInvalidAttachmentURL = errors.New("La URL del archivo no es válida")
)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// SubmitError is returned when validation passed but the API call failed.
// Message is the dialog-level text; Err is the underlying cause.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
