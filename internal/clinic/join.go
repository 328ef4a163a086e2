package clinic

// UnknownPatient is shown when a foreign key has no matching patient.
const UnknownPatient = "Paciente desconocido"

// FindPatient scans patients for id. Collections are small so a linear
// lookup is enough.
func FindPatient(patients []Patient, id string) (Patient, bool) {
	for _, p := range patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// PatientName returns "Nombre Apellidos" or UnknownPatient.
func PatientName(patients []Patient, id string) string {
	if p, ok := FindPatient(patients, id); ok {
		return p.FullName()
	}
	return UnknownPatient
}

// RemoveByID returns a copy of items without the entry whose id matches.
func RemoveByID[T Entity](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.GetID() != id {
			out = append(out, item)
		}
	}
	return out
}

// PatientOption is one entry of a patient select.
type PatientOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func PatientOptions(patients []Patient) []PatientOption {
	out := make([]PatientOption, 0, len(patients))
	for _, p := range patients {
		out = append(out, PatientOption{ID: p.ID, Label: p.FullName()})
	}
	return out
}
