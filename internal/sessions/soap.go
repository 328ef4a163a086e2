package sessions

import (
	"strings"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
)

// NoInformation is shown for an empty SOAP section.
const NoInformation = "Sin información"

// Section is one SOAP part.
type Section struct {
	Letter  string `json:"letra"`
	Label   string `json:"titulo"`
	Content string `json:"contenido"`
}

// Detail is the full "Ver" projection of a session.
type Detail struct {
	ID         string              `json:"id"`
	PacienteID string              `json:"pacienteId"`
	Paciente   string              `json:"paciente"`
	CitaID     string              `json:"citaId,omitempty"`
	Sections   []Section           `json:"soap"`
	Archivos   []clinic.Attachment `json:"archivos"`
}

// Sections renders the S/O/A/P sections with placeholders for empty text.
func Sections(s clinic.Session) []Section {
	return []Section{
		{Letter: "S", Label: "Subjetivo", Content: orPlaceholder(s.SoapSubj)},
		{Letter: "O", Label: "Observaciones", Content: orPlaceholder(s.Observaciones)},
		{Letter: "A", Label: "Análisis", Content: orPlaceholder(s.Analisis)},
		{Letter: "P", Label: "Plan", Content: orPlaceholder(s.PlanAccion)},
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoInformation
	}
	return s
}

// ShortID mirrors the "Sesión #abcd1234" caption.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
