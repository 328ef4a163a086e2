package clinic

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Summary keys returned by GET /dashboard/summary.
const (
	SummaryTotalPatients   = "totalPacientes"
	SummaryAppointmentsDay = "citasHoy"
	SummaryTotalSessions   = "totalSesiones"
	SummaryNextAppointment = "proximaCita"
)

// Summary is the loosely typed counters document. Values may be numbers or
// strings depending on the backend.
type Summary map[string]json.RawMessage

// Value renders key as display text. Missing and null values report false.
func (s Summary) Value(key string) (string, bool) {
	raw, ok := s[key]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, true
	}
	return strings.Trim(string(raw), `"`), true
}
