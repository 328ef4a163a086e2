package forms

import (
	"strings"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
)

const (
	minAppointmentDuration = 15 * time.Minute
	clockLayout            = "15:04"
	defaultStartClock      = "10:00"
	defaultEndClock        = "11:00"
)

// AppointmentDraft backs the create/edit appointment dialogs. Fecha and the
// clock fields are read in the clinic's location.
type AppointmentDraft struct {
	PacienteID    string          `json:"pacienteId"`
	Fecha         string          `json:"fecha"`      // YYYY-MM-DD
	HoraInicio    string          `json:"horaInicio"` // HH:MM
	HoraFin       string          `json:"horaFin"`    // HH:MM
	Modo          clinic.Modality `json:"modo"`
	Estado        clinic.Status   `json:"estado"`
	UbicacionLink string          `json:"ubicacionLink"`
	Notas         string          `json:"notas"`

	loc *time.Location
}

// NewAppointmentDraft returns the blank create form: 10:00-11:00,
// in person, pending.
func NewAppointmentDraft(loc *time.Location) AppointmentDraft {
	return AppointmentDraft{
		HoraInicio: defaultStartClock,
		HoraFin:    defaultEndClock,
		Modo:       clinic.Presencial,
		Estado:     clinic.Pendiente,
		loc:        loc,
	}
}

// AppointmentDraftFrom pre-populates a draft for editing a.
func AppointmentDraftFrom(a clinic.Appointment, loc *time.Location) AppointmentDraft {
	f := datefmt.New(loc)
	d := AppointmentDraft{
		PacienteID: a.PacienteID,
		Modo:       a.Modo,
		Estado:     a.Estado,
		loc:        f.Location(),
	}
	if start, ok := f.Parse(a.FechaInicio); ok {
		d.Fecha = start.Format(dateLayout)
		d.HoraInicio = start.Format(clockLayout)
	}
	if end, ok := f.Parse(a.FechaFin); ok {
		d.HoraFin = end.Format(clockLayout)
	}
	if a.UbicacionLink != nil {
		d.UbicacionLink = *a.UbicacionLink
	}
	if a.Notas != nil {
		d.Notas = *a.Notas
	}
	return d
}

// WithLocation sets the location used to read Fecha and the clock fields.
func (d AppointmentDraft) WithLocation(loc *time.Location) AppointmentDraft {
	d.loc = loc
	return d
}

func (d AppointmentDraft) location() *time.Location {
	if d.loc == nil {
		return time.UTC
	}
	return d.loc
}

// Bounds returns the start and end instants the draft describes.
func (d AppointmentDraft) Bounds() (time.Time, time.Time, error) {
	day := strings.TrimSpace(d.Fecha)
	start, err := time.ParseInLocation(dateLayout+" "+clockLayout, day+" "+strings.TrimSpace(d.HoraInicio), d.location())
	if err != nil {
		return time.Time{}, time.Time{}, invalid("horaInicio", ErrInvalidTime)
	}
	end, err := time.ParseInLocation(dateLayout+" "+clockLayout, day+" "+strings.TrimSpace(d.HoraFin), d.location())
	if err != nil {
		return time.Time{}, time.Time{}, invalid("horaFin", ErrInvalidTime)
	}
	return start, end, nil
}

// Validate checks patient, date, ordering, duration and location, in that order.
func (d AppointmentDraft) Validate(time.Time) error {
	if strings.TrimSpace(d.PacienteID) == "" {
		return invalid("pacienteId", ErrPatientRequired)
	}
	if strings.TrimSpace(d.Fecha) == "" {
		return invalid("fecha", ErrRequired)
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(d.Fecha)); err != nil {
		return invalid("fecha", ErrInvalidDate)
	}
	start, end, err := d.Bounds()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return invalid("horaFin", ErrEndBeforeStart)
	}
	if end.Sub(start) < minAppointmentDuration {
		return invalid("horaFin", ErrMinDuration)
	}
	if strings.TrimSpace(d.UbicacionLink) == "" {
		return invalid("ubicacionLink", ErrLocationRequired)
	}
	return nil
}

// Create builds the POST body. Call Validate first.
func (d AppointmentDraft) Create() (clinic.AppointmentCreate, error) {
	start, end, err := d.Bounds()
	if err != nil {
		return clinic.AppointmentCreate{}, err
	}
	return clinic.AppointmentCreate{
		PacienteID:    d.PacienteID,
		FechaInicio:   datefmt.ISO(start),
		FechaFin:      datefmt.ISO(end),
		Modo:          d.Modo,
		Estado:        d.Estado,
		UbicacionLink: nullable(d.UbicacionLink),
		Notas:         nullable(d.Notas),
	}, nil
}

// Update builds the PUT body. Call Validate first.
func (d AppointmentDraft) Update() (clinic.AppointmentUpdate, error) {
	start, end, err := d.Bounds()
	if err != nil {
		return clinic.AppointmentUpdate{}, err
	}
	startISO, endISO := datefmt.ISO(start), datefmt.ISO(end)
	return clinic.AppointmentUpdate{
		PacienteID:    &d.PacienteID,
		FechaInicio:   &startISO,
		FechaFin:      &endISO,
		Modo:          &d.Modo,
		Estado:        &d.Estado,
		UbicacionLink: nullable(d.UbicacionLink),
		Notas:         nullable(d.Notas),
	}, nil
}

// nullable maps empty input to JSON null.
func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
