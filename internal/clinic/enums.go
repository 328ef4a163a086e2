package clinic

import (
	"fmt"
	"strconv"
	"strings"
)

const unknownLabel = "Desconocido"

// Modality is how an appointment takes place.
type Modality int

const (
	Presencial Modality = iota
	Online
)

func (m Modality) Label() string {
	switch m {
	case Presencial:
		return "Presencial"
	case Online:
		return "Online"
	default:
		return unknownLabel
	}
}

func (m Modality) Valid() bool {
	return m == Presencial || m == Online
}

// Status is the lifecycle state of an appointment.
type Status int

const (
	Pendiente Status = iota
	Confirmada
	Cancelada
	Completada
	NoAsistio
)

// Statuses lists every status in enumeration order.
var Statuses = []Status{Pendiente, Confirmada, Cancelada, Completada, NoAsistio}

func (s Status) Label() string {
	switch s {
	case Pendiente:
		return "Pendiente"
	case Confirmada:
		return "Confirmada"
	case Cancelada:
		return "Cancelada"
	case Completada:
		return "Completada"
	case NoAsistio:
		return "No asistió"
	default:
		return unknownLabel
	}
}

func (s Status) Valid() bool {
	return s >= Pendiente && s <= NoAsistio
}

// ParseStatusFilter parses the agenda status filter. It returns nil for the
// "all" sentinel ("", "todos", "all").
func ParseStatusFilter(raw string) (*Status, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "", "todos", "all":
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !Status(n).Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	s := Status(n)
	return &s, nil
}

// ParseModality parses "0"/"1" or the lower-case label.
func ParseModality(raw string) (Modality, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "0", "presencial":
		return Presencial, nil
	case "1", "online":
		return Online, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModality, raw)
}

// ParseStatus parses a status integer without the "all" sentinel.
func ParseStatus(raw string) (Status, error) {
	s, err := ParseStatusFilter(raw)
	if err != nil {
		return 0, err
	}
	if s == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return *s, nil
}
