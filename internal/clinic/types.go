// Package clinic holds the entities exchanged with the clinic REST API and
// the small helpers the views use to join and decode them.
package clinic

// Patient is a paciente as returned by GET /Pacientes.
type Patient struct {
	ID                 string `json:"id"`
	Nombre             string `json:"nombre"`
	Apellidos          string `json:"apellidos"`
	Email              string `json:"email"`
	Telefono           string `json:"telefono"`
	ContactoEmergencia string `json:"contactoEmergencia"`
	TagsJSON           string `json:"tagsJson"`
	FechaNacimiento    string `json:"fechaNacimiento"`
}

// FullName returns "Nombre Apellidos".
func (p Patient) FullName() string {
	return p.Nombre + " " + p.Apellidos
}

// Tags decodes TagsJSON, tolerating malformed input.
func (p Patient) Tags() []string {
	return DecodeTags(p.TagsJSON)
}

type PatientCreate struct {
	Nombre             string `json:"nombre"`
	Apellidos          string `json:"apellidos"`
	Email              string `json:"email"`
	Telefono           string `json:"telefono"`
	ContactoEmergencia string `json:"contactoEmergencia"`
	TagsJSON           string `json:"tagsJson"`
	FechaNacimiento    string `json:"fechaNacimiento"`
}

// PatientUpdate is a partial update; nil fields are not sent.
type PatientUpdate struct {
	Nombre             *string `json:"nombre,omitempty"`
	Apellidos          *string `json:"apellidos,omitempty"`
	Email              *string `json:"email,omitempty"`
	Telefono           *string `json:"telefono,omitempty"`
	ContactoEmergencia *string `json:"contactoEmergencia,omitempty"`
	TagsJSON           *string `json:"tagsJson,omitempty"`
	FechaNacimiento    *string `json:"fechaNacimiento,omitempty"`
}

// Appointment is a cita as returned by GET /Cita.
type Appointment struct {
	ID            string   `json:"id"`
	PacienteID    string   `json:"pacienteId"`
	FechaInicio   string   `json:"fechaInicio"`
	FechaFin      string   `json:"fechaFin"`
	Modo          Modality `json:"modo"`
	Estado        Status   `json:"estado"`
	UbicacionLink *string  `json:"ubicacionLink"`
	Notas         *string  `json:"notas"`
}

type AppointmentCreate struct {
	PacienteID    string   `json:"pacienteId"`
	FechaInicio   string   `json:"fechaInicio"`
	FechaFin      string   `json:"fechaFin"`
	Modo          Modality `json:"modo"`
	Estado        Status   `json:"estado"`
	UbicacionLink *string  `json:"ubicacionLink"`
	Notas         *string  `json:"notas"`
}

// AppointmentUpdate is a partial update. UbicacionLink and Notas are always
// sent so that clearing them reaches the server as null.
type AppointmentUpdate struct {
	PacienteID    *string   `json:"pacienteId,omitempty"`
	FechaInicio   *string   `json:"fechaInicio,omitempty"`
	FechaFin      *string   `json:"fechaFin,omitempty"`
	Modo          *Modality `json:"modo,omitempty"`
	Estado        *Status   `json:"estado,omitempty"`
	UbicacionLink *string   `json:"ubicacionLink"`
	Notas         *string   `json:"notas"`
}

// Session is a SOAP clinical note as returned by GET /Sesion.
type Session struct {
	ID            string `json:"id"`
	PacienteID    string `json:"pacienteId"`
	CitaID        string `json:"citaId,omitempty"`
	SoapSubj      string `json:"soapSubj"`
	Observaciones string `json:"observaciones"`
	Analisis      string `json:"analasis"`
	PlanAccion    string `json:"planAccion"`
	ArchivosJSON  string `json:"archivosJson"`
}

// Attachments decodes ArchivosJSON, tolerating malformed input.
func (s Session) Attachments() []Attachment {
	return DecodeAttachments(s.ArchivosJSON)
}

type SessionCreate struct {
	PacienteID    string `json:"pacienteId"`
	CitaID        string `json:"citaId,omitempty"`
	SoapSubj      string `json:"soapSubj"`
	Observaciones string `json:"observaciones"`
	Analisis      string `json:"analasis"`
	PlanAccion    string `json:"planAccion"`
	ArchivosJSON  string `json:"archivosJson,omitempty"`
}

type SessionUpdate struct {
	PacienteID    *string `json:"pacienteId,omitempty"`
	CitaID        *string `json:"citaId,omitempty"`
	SoapSubj      *string `json:"soapSubj,omitempty"`
	Observaciones *string `json:"observaciones,omitempty"`
	Analisis      *string `json:"analasis,omitempty"`
	PlanAccion    *string `json:"planAccion,omitempty"`
	ArchivosJSON  *string `json:"archivosJson,omitempty"`
}

// Attachment is one entry of a session's archivosJson array.
type Attachment struct {
	Nombre string `json:"nombre"`
	URL    string `json:"url"`
}

// Entity is implemented by every type addressable by id.
type Entity interface {
	GetID() string
}

func (p Patient) GetID() string     { return p.ID }
func (a Appointment) GetID() string { return a.ID }
func (s Session) GetID() string     { return s.ID }
