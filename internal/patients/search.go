package patients

import (
	"strings"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
)

// Search matches nombre, apellidos and email case-insensitively and telefono
// verbatim. An empty term matches everything.
func Search(patients []clinic.Patient, term string) []clinic.Patient {
	lower := strings.ToLower(term)
	out := make([]clinic.Patient, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Nombre), lower) ||
			strings.Contains(strings.ToLower(p.Apellidos), lower) ||
			strings.Contains(strings.ToLower(p.Email), lower) ||
			strings.Contains(p.Telefono, term) {
			out = append(out, p)
		}
	}
	return out
}
