package forms

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
)

const (
	minPhoneLength = 9
	maxAgeYears    = 120
	dateLayout     = "2006-01-02"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PatientDraft backs the create/edit patient dialogs.
type PatientDraft struct {
	Nombre             string   `json:"nombre"`
	Apellidos          string   `json:"apellidos"`
	Email              string   `json:"email"`
	Telefono           string   `json:"telefono"`
	ContactoEmergencia string   `json:"contactoEmergencia"`
	FechaNacimiento    string   `json:"fechaNacimiento"` // YYYY-MM-DD, may be empty
	Tags               []string `json:"tags"`

	storedBirthDate string
}

func NewPatientDraft() PatientDraft {
	return PatientDraft{Tags: []string{}}
}

// PatientDraftFrom pre-populates a draft for editing p.
func PatientDraftFrom(p clinic.Patient) PatientDraft {
	birth, _, _ := strings.Cut(p.FechaNacimiento, "T")
	return PatientDraft{
		Nombre:             p.Nombre,
		Apellidos:          p.Apellidos,
		Email:              p.Email,
		Telefono:           p.Telefono,
		ContactoEmergencia: p.ContactoEmergencia,
		FechaNacimiento:    birth,
		Tags:               p.Tags(),
		storedBirthDate:    p.FechaNacimiento,
	}
}

// AddTag appends a trimmed tag. Empty and duplicate tags are ignored.
func (d *PatientDraft) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(d.Tags, tag) {
		return false
	}
	d.Tags = append(d.Tags, tag)
	return true
}

func (d *PatientDraft) RemoveTag(tag string) {
	d.Tags = slices.DeleteFunc(slices.Clone(d.Tags), func(t string) bool { return t == tag })
}

// Validate checks the draft field by field and reports the first failure.
func (d PatientDraft) Validate(now time.Time) error {
	if strings.TrimSpace(d.Nombre) == "" {
		return invalid("nombre", ErrRequired)
	}
	if strings.TrimSpace(d.Apellidos) == "" {
		return invalid("apellidos", ErrRequired)
	}
	if !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		return invalid("email", ErrInvalidEmail)
	}
	if err := checkPhone("telefono", d.Telefono); err != nil {
		return err
	}
	if err := checkPhone("contactoEmergencia", d.ContactoEmergencia); err != nil {
		return err
	}
	if strings.TrimSpace(d.FechaNacimiento) == "" {
		return nil
	}
	birth, err := time.ParseInLocation(dateLayout, strings.TrimSpace(d.FechaNacimiento), now.Location())
	if err != nil {
		return invalid("fechaNacimiento", ErrInvalidDate)
	}
	if birth.After(now) {
		return invalid("fechaNacimiento", ErrBirthDateFuture)
	}
	if !birth.AddDate(maxAgeYears+1, 0, 0).After(now) {
		return invalid("fechaNacimiento", ErrTooOld)
	}
	return nil
}

func checkPhone(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid(field, ErrRequired)
	}
	if utf8.RuneCountInString(value) < minPhoneLength {
		return invalid(field, ErrTooShort)
	}
	return nil
}

// Create builds the POST body. An empty birth date is sent as now.
func (d PatientDraft) Create(now time.Time) clinic.PatientCreate {
	return clinic.PatientCreate{
		Nombre:             d.Nombre,
		Apellidos:          d.Apellidos,
		Email:              d.Email,
		Telefono:           d.Telefono,
		ContactoEmergencia: d.ContactoEmergencia,
		TagsJSON:           clinic.EncodeTags(d.Tags),
		FechaNacimiento:    d.birthDateISO(datefmt.ISO(now)),
	}
}

// Update builds the PUT body. An empty birth date keeps the stored value.
func (d PatientDraft) Update() clinic.PatientUpdate {
	tags := clinic.EncodeTags(d.Tags)
	birth := d.birthDateISO(d.storedBirthDate)
	return clinic.PatientUpdate{
		Nombre:             &d.Nombre,
		Apellidos:          &d.Apellidos,
		Email:              &d.Email,
		Telefono:           &d.Telefono,
		ContactoEmergencia: &d.ContactoEmergencia,
		TagsJSON:           &tags,
		FechaNacimiento:    &birth,
	}
}

// birthDateISO encodes the date-only input as UTC midnight.
func (d PatientDraft) birthDateISO(fallback string) string {
	raw := strings.TrimSpace(d.FechaNacimiento)
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fallback
	}
	return datefmt.ISO(t)
}
