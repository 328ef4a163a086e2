// Package render prints view snapshots as aligned text for the terminal
// client.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/wolfman30/psyclinic-dashboard/internal/agenda"
	"github.com/wolfman30/psyclinic-dashboard/internal/dashboard"
	"github.com/wolfman30/psyclinic-dashboard/internal/patients"
	"github.com/wolfman30/psyclinic-dashboard/internal/sessions"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// errorBanner prints the view error, if any. Data below it is what the view
// still holds.
func errorBanner(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintf(w, "! %s\n\n", msg)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func Dashboard(w io.Writer, snap dashboard.Snapshot) error {
	errorBanner(w, snap.Error)

	tw := newTable(w)
	for _, c := range snap.Stats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Label, c.Value, c.Caption)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nPróximas citas")
	if len(snap.Upcoming) == 0 {
		fmt.Fprintln(w, snap.Empty)
		return nil
	}
	tw = newTable(w)
	for _, u := range snap.Upcoming {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Cuando, u.Paciente, u.Modo, u.Estado)
	}
	return tw.Flush()
}

func Agenda(w io.Writer, snap agenda.Snapshot) error {
	errorBanner(w, snap.Error)
	fmt.Fprintln(w, snap.Title)
	if len(snap.Days) == 0 {
		fmt.Fprintln(w, snap.Empty)
		return nil
	}
	for _, d := range snap.Days {
		fmt.Fprintf(w, "\n%s\n", d.Heading)
		tw := newTable(w)
		for _, c := range d.Citas {
			loc, notes := "", ""
			if c.Ubicacion != nil {
				loc = *c.Ubicacion
			}
			if c.Notas != nil {
				notes = *c.Notas
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n", c.Horario, c.Paciente, c.Modo, c.Estado, orDash(loc), orDash(notes), c.ID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func Patients(w io.Writer, snap patients.Snapshot) error {
	errorBanner(w, snap.Error)
	if len(snap.Rows) == 0 {
		fmt.Fprintln(w, snap.Empty)
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NOMBRE\tEMAIL\tTELÉFONO\tEMERGENCIA\tNACIMIENTO\tETIQUETAS\tID")
	for _, r := range snap.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Nombre, r.Email, r.Telefono, r.ContactoEmergencia, r.FechaNacimiento, orDash(strings.Join(r.Tags, ", ")), r.ID)
	}
	return tw.Flush()
}

func Sessions(w io.Writer, snap sessions.Snapshot) error {
	errorBanner(w, snap.Error)
	if len(snap.Cards) == 0 {
		fmt.Fprintln(w, snap.Empty)
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "SESIÓN\tPACIENTE\tSUBJETIVO\tARCHIVOS\tID")
	for _, c := range snap.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.Titulo, c.Paciente, orDash(truncate(c.Subjetivo, 40)), c.Archivos, c.ID)
	}
	return tw.Flush()
}

// SessionDetail prints the full SOAP note and its attachment links.
func SessionDetail(w io.Writer, d sessions.Detail) error {
	fmt.Fprintf(w, "Sesión #%s\nPaciente: %s\n", sessions.ShortID(d.ID), d.Paciente)
	if d.CitaID != "" {
		fmt.Fprintf(w, "Cita: %s\n", d.CitaID)
	}
	for _, s := range d.Sections {
		fmt.Fprintf(w, "\n[%s] %s\n%s\n", s.Letter, s.Label, s.Content)
	}
	if len(d.Archivos) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nArchivos")
	tw := newTable(w)
	for _, a := range d.Archivos {
		fmt.Fprintf(tw, "  %s\t%s\n", a.Nombre, a.URL)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
