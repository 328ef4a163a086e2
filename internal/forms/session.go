package forms

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
)

// SessionDraft backs the create-session dialog.
type SessionDraft struct {
	PacienteID    string              `json:"pacienteId"`
	CitaID        string              `json:"citaId"`
	SoapSubj      string              `json:"soapSubj"`
	Observaciones string              `json:"observaciones"`
	Analisis      string              `json:"analasis"`
	PlanAccion    string              `json:"planAccion"`
	Archivos      []clinic.Attachment `json:"archivos"`
}

func NewSessionDraft() SessionDraft {
	return SessionDraft{Archivos: []clinic.Attachment{}}
}

func (d SessionDraft) Validate(time.Time) error {
	if strings.TrimSpace(d.PacienteID) == "" {
		return invalid("pacienteId", ErrPatientRequired)
	}
	return nil
}

// AddAttachment resolves in and appends the result.
func (d *SessionDraft) AddAttachment(ctx context.Context, in AttachmentInput) error {
	att, err := in.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("forms: add attachment: %w", err)
	}
	d.Archivos = append(d.Archivos, att)
	return nil
}

// RemoveAttachment drops the attachment at index i; out of range is a no-op.
func (d *SessionDraft) RemoveAttachment(i int) {
	if i < 0 || i >= len(d.Archivos) {
		return
	}
	d.Archivos = slices.Delete(slices.Clone(d.Archivos), i, i+1)
}

func (d SessionDraft) Create() clinic.SessionCreate {
	return clinic.SessionCreate{
		PacienteID:    d.PacienteID,
		CitaID:        strings.TrimSpace(d.CitaID),
		SoapSubj:      d.SoapSubj,
		Observaciones: d.Observaciones,
		Analisis:      d.Analisis,
		PlanAccion:    d.PlanAccion,
		ArchivosJSON:  clinic.EncodeAttachments(d.Archivos),
	}
}

// SOAPDraft edits the four SOAP sections of an existing session. Attachments
// are left as stored.
type SOAPDraft struct {
	PacienteID    string `json:"pacienteId"`
	SoapSubj      string `json:"soapSubj"`
	Observaciones string `json:"observaciones"`
	Analisis      string `json:"analasis"`
	PlanAccion    string `json:"planAccion"`
}

func SOAPDraftFrom(s clinic.Session) SOAPDraft {
	return SOAPDraft{
		PacienteID:    s.PacienteID,
		SoapSubj:      s.SoapSubj,
		Observaciones: s.Observaciones,
		Analisis:      s.Analisis,
		PlanAccion:    s.PlanAccion,
	}
}

func (d SOAPDraft) Validate(time.Time) error {
	if strings.TrimSpace(d.PacienteID) == "" {
		return invalid("pacienteId", ErrPatientRequired)
	}
	return nil
}

func (d SOAPDraft) Update() clinic.SessionUpdate {
	return clinic.SessionUpdate{
		PacienteID:    &d.PacienteID,
		SoapSubj:      &d.SoapSubj,
		Observaciones: &d.Observaciones,
		Analisis:      &d.Analisis,
		PlanAccion:    &d.PlanAccion,
	}
}
