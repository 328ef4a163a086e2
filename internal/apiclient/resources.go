package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
)

const (
	patientsPath     = "/Pacientes"
	appointmentsPath = "/Cita"
	sessionsPath     = "/Sesion"
	summaryPath      = "/dashboard/summary"
)

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// ListPatients fetches the full patient collection.
func (c *Client) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	var out []clinic.Patient
	if err := c.Get(ctx, patientsPath, &out); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	if out == nil {
		out = []clinic.Patient{}
	}
	return out, nil
}

// CreatePatient returns the created patient, or nil when the API answers
// without a JSON body.
func (c *Client) CreatePatient(ctx context.Context, in clinic.PatientCreate) (*clinic.Patient, error) {
	var out *clinic.Patient
	if err := c.Post(ctx, patientsPath, in, &out); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return out, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id string, in clinic.PatientUpdate) error {
	if err := c.Put(ctx, itemPath(patientsPath, id), in, nil); err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

func (c *Client) DeletePatient(ctx context.Context, id string) error {
	if err := c.Delete(ctx, itemPath(patientsPath, id), nil); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

// ListAppointments fetches the full appointment collection.
func (c *Client) ListAppointments(ctx context.Context) ([]clinic.Appointment, error) {
	var out []clinic.Appointment
	if err := c.Get(ctx, appointmentsPath, &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if out == nil {
		out = []clinic.Appointment{}
	}
	return out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, in clinic.AppointmentCreate) (*clinic.Appointment, error) {
	var out *clinic.Appointment
	if err := c.Post(ctx, appointmentsPath, in, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, in clinic.AppointmentUpdate) error {
	if err := c.Put(ctx, itemPath(appointmentsPath, id), in, nil); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	if err := c.Delete(ctx, itemPath(appointmentsPath, id), nil); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// ListSessions fetches the full session collection.
func (c *Client) ListSessions(ctx context.Context) ([]clinic.Session, error) {
	var out []clinic.Session
	if err := c.Get(ctx, sessionsPath, &out); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if out == nil {
		out = []clinic.Session{}
	}
	return out, nil
}

func (c *Client) CreateSession(ctx context.Context, in clinic.SessionCreate) (*clinic.Session, error) {
	var out *clinic.Session
	if err := c.Post(ctx, sessionsPath, in, &out); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateSession(ctx context.Context, id string, in clinic.SessionUpdate) error {
	if err := c.Put(ctx, itemPath(sessionsPath, id), in, nil); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if err := c.Delete(ctx, itemPath(sessionsPath, id), nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Summary fetches the dashboard counters. A non-JSON answer yields an empty summary.
func (c *Client) Summary(ctx context.Context) (clinic.Summary, error) {
	out := clinic.Summary{}
	if err := c.Get(ctx, summaryPath, &out); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	if out == nil {
		out = clinic.Summary{}
	}
	return out, nil
}
