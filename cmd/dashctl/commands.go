package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wolfman30/psyclinic-dashboard/internal/agenda"
	"github.com/wolfman30/psyclinic-dashboard/internal/attachments"
	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/internal/patients"
	"github.com/wolfman30/psyclinic-dashboard/internal/render"
	"github.com/wolfman30/psyclinic-dashboard/internal/sessions"
)

// submit runs a dialog and reports the outcome on w.
func submit[D forms.Draft](ctx context.Context, w io.Writer, d *forms.Dialog[D], done string) error {
	if err := d.Submit(ctx); err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s: %w", verr.Field, verr.Err)
		}
		return err
	}
	fmt.Fprintln(w, done)
	return nil
}

func deleted(w io.Writer, ok bool, what string) {
	if ok {
		fmt.Fprintf(w, "%s eliminado\n", what)
		return
	}
	fmt.Fprintln(w, "Operación cancelada")
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Resumen y próximas citas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prefs, err := a.rt.Preferences.Get(ctx, "")
			if err != nil {
				a.rt.Logger.Warn("preferences unavailable, using defaults", "error", err)
			}
			v := a.rt.Dashboard(prefs)
			reloadErr := v.Reload(ctx)
			if err := render.Dashboard(cmd.OutOrStdout(), v.Snapshot()); err != nil {
				return err
			}
			return reloadErr
		},
	}
}

func agendaCmd(a *app) *cobra.Command {
	var paciente, estado, desde, hasta string
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Citas agrupadas por día",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := agenda.ParseFilter(paciente, estado, desde, hasta)
			if err != nil {
				return err
			}
			v := a.rt.Agenda()
			v.SetFilter(filter)
			reloadErr := v.Reload(cmd.Context())
			if err := render.Agenda(cmd.OutOrStdout(), v.Snapshot()); err != nil {
				return err
			}
			return reloadErr
		},
	}
	cmd.Flags().StringVar(&paciente, "paciente", "", "Patient id")
	cmd.Flags().StringVar(&estado, "estado", "", "Status code 0-4, or todos")
	cmd.Flags().StringVar(&desde, "desde", "", "From date YYYY-MM-DD")
	cmd.Flags().StringVar(&hasta, "hasta", "", "To date YYYY-MM-DD, inclusive")
	return cmd
}

type patientFlags struct {
	nombre, apellidos, email, telefono, emergencia, nacimiento string
	tags                                                       []string
}

func (f *patientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.nombre, "nombre", "", "First name")
	cmd.Flags().StringVar(&f.apellidos, "apellidos", "", "Surnames")
	cmd.Flags().StringVar(&f.email, "email", "", "Email")
	cmd.Flags().StringVar(&f.telefono, "telefono", "", "Phone")
	cmd.Flags().StringVar(&f.emergencia, "emergencia", "", "Emergency contact phone")
	cmd.Flags().StringVar(&f.nacimiento, "nacimiento", "", "Birth date YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag, repeatable; replaces the current tags")
}

// apply copies the flags the user set onto d.
func (f *patientFlags) apply(cmd *cobra.Command, d *forms.PatientDraft) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("nombre", &d.Nombre, f.nombre)
	set("apellidos", &d.Apellidos, f.apellidos)
	set("email", &d.Email, f.email)
	set("telefono", &d.Telefono, f.telefono)
	set("emergencia", &d.ContactoEmergencia, f.emergencia)
	set("nacimiento", &d.FechaNacimiento, f.nacimiento)
	if cmd.Flags().Changed("tag") {
		d.Tags = nil
		for _, t := range f.tags {
			d.AddTag(t)
		}
	}
}

func pacientesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "pacientes", Short: "Gestión de pacientes"}

	var buscar string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista de pacientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Patients()
			v.SetSearch(buscar)
			reloadErr := v.Reload(cmd.Context())
			if err := render.Patients(cmd.OutOrStdout(), v.Snapshot()); err != nil {
				return err
			}
			return reloadErr
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "Search by name, email or phone")
	cmd.AddCommand(list)

	var createFlags patientFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Nuevo paciente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Patients()
			v.OpenCreate()
			v.CreateDialog().Edit(func(d *forms.PatientDraft) { createFlags.apply(cmd, d) })
			return submit(cmd.Context(), cmd.OutOrStdout(), v.CreateDialog(), "Paciente creado")
		},
	}
	createFlags.register(create)
	cmd.AddCommand(create)

	var updateFlags patientFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Editar paciente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Patients()
			if err := v.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := v.OpenEdit(args[0]); err != nil {
				return err
			}
			v.EditDialog().Edit(func(d *patients.EditDraft) { updateFlags.apply(cmd, &d.PatientDraft) })
			return submit(cmd.Context(), cmd.OutOrStdout(), v.EditDialog(), "Paciente actualizado")
		},
	}
	updateFlags.register(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Eliminar paciente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.rt.Patients().Delete(cmd.Context(), args[0], a.confirmer())
			if err != nil {
				return err
			}
			deleted(cmd.OutOrStdout(), ok, "Paciente")
			return nil
		},
	})
	return cmd
}

type appointmentFlags struct {
	paciente, fecha, inicio, fin, modo, estado, ubicacion, notas string
}

func (f *appointmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.paciente, "paciente", "", "Patient id")
	cmd.Flags().StringVar(&f.fecha, "fecha", "", "Date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.inicio, "inicio", "", "Start time HH:MM")
	cmd.Flags().StringVar(&f.fin, "fin", "", "End time HH:MM")
	cmd.Flags().StringVar(&f.modo, "modo", "", "presencial or online")
	cmd.Flags().StringVar(&f.estado, "estado", "", "Status code 0-4")
	cmd.Flags().StringVar(&f.ubicacion, "ubicacion", "", "Room or meeting link")
	cmd.Flags().StringVar(&f.notas, "notas", "", "Notes")
}

func (f *appointmentFlags) apply(cmd *cobra.Command, d *forms.AppointmentDraft) error {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("paciente", &d.PacienteID, f.paciente)
	set("fecha", &d.Fecha, f.fecha)
	set("inicio", &d.HoraInicio, f.inicio)
	set("fin", &d.HoraFin, f.fin)
	set("ubicacion", &d.UbicacionLink, f.ubicacion)
	set("notas", &d.Notas, f.notas)
	if cmd.Flags().Changed("modo") {
		m, err := clinic.ParseModality(f.modo)
		if err != nil {
			return err
		}
		d.Modo = m
	}
	if cmd.Flags().Changed("estado") {
		s, err := clinic.ParseStatus(f.estado)
		if err != nil {
			return err
		}
		d.Estado = s
	}
	return nil
}

func citasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "citas", Short: "Gestión de citas"}

	var createFlags appointmentFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Nueva cita",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Agenda()
			v.OpenCreate()
			var applyErr error
			v.CreateDialog().Edit(func(d *forms.AppointmentDraft) { applyErr = createFlags.apply(cmd, d) })
			if applyErr != nil {
				return applyErr
			}
			return submit(cmd.Context(), cmd.OutOrStdout(), v.CreateDialog(), "Cita creada")
		},
	}
	createFlags.register(create)
	cmd.AddCommand(create)

	var updateFlags appointmentFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Editar cita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Agenda()
			if err := v.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := v.OpenEdit(args[0]); err != nil {
				return err
			}
			var applyErr error
			v.EditDialog().Edit(func(d *agenda.EditDraft) { applyErr = updateFlags.apply(cmd, &d.AppointmentDraft) })
			if applyErr != nil {
				return applyErr
			}
			return submit(cmd.Context(), cmd.OutOrStdout(), v.EditDialog(), "Cita actualizada")
		},
	}
	updateFlags.register(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Cancelar cita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.rt.Agenda().Delete(cmd.Context(), args[0], a.confirmer())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cita cancelada")
				return nil
			}
			deleted(cmd.OutOrStdout(), false, "Cita")
			return nil
		},
	})
	return cmd
}

type soapFlags struct {
	paciente, subjetivo, observaciones, analisis, plan string
}

func (f *soapFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.paciente, "paciente", "", "Patient id")
	cmd.Flags().StringVar(&f.subjetivo, "subjetivo", "", "S: subjective")
	cmd.Flags().StringVar(&f.observaciones, "observaciones", "", "O: observations")
	cmd.Flags().StringVar(&f.analisis, "analisis", "", "A: assessment")
	cmd.Flags().StringVar(&f.plan, "plan", "", "P: plan")
}

func (f *soapFlags) apply(cmd *cobra.Command, paciente, subj, obs, analisis, plan *string) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("paciente", paciente, f.paciente)
	set("subjetivo", subj, f.subjetivo)
	set("observaciones", obs, f.observaciones)
	set("analisis", analisis, f.analisis)
	set("plan", plan, f.plan)
}

func sesionesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "sesiones", Short: "Notas de sesión SOAP"}

	var buscar string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista de sesiones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Sessions()
			v.SetSearch(buscar)
			reloadErr := v.Reload(cmd.Context())
			if err := render.Sessions(cmd.OutOrStdout(), v.Snapshot()); err != nil {
				return err
			}
			return reloadErr
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "Search by patient name")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Ver sesión",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Sessions()
			if err := v.Reload(cmd.Context()); err != nil {
				return err
			}
			d, err := v.Detail(args[0])
			if err != nil {
				return err
			}
			return render.SessionDetail(cmd.OutOrStdout(), d)
		},
	})

	var (
		createFlags soapFlags
		cita        string
		archivos    []string
		enlaces     []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Nueva sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inputs := make([]forms.AttachmentInput, 0, len(archivos)+len(enlaces))
			if len(archivos) > 0 {
				up, err := a.attachmentUploader(ctx)
				if err != nil {
					return err
				}
				for _, p := range archivos {
					inputs = append(inputs, attachments.FileInput{Path: p, Uploader: up})
				}
			}
			for _, u := range enlaces {
				inputs = append(inputs, forms.URLInput{URL: u})
			}

			v := a.rt.Sessions()
			v.OpenCreate()
			var attachErr error
			v.CreateDialog().Edit(func(d *forms.SessionDraft) {
				createFlags.apply(cmd, &d.PacienteID, &d.SoapSubj, &d.Observaciones, &d.Analisis, &d.PlanAccion)
				d.CitaID = cita
				for _, in := range inputs {
					if attachErr = d.AddAttachment(ctx, in); attachErr != nil {
						return
					}
				}
			})
			if attachErr != nil {
				return attachErr
			}
			return submit(ctx, cmd.OutOrStdout(), v.CreateDialog(), "Sesión creada")
		},
	}
	createFlags.register(create)
	create.Flags().StringVar(&cita, "cita", "", "Related appointment id")
	create.Flags().StringSliceVar(&archivos, "archivo", nil, "Local file to upload, repeatable")
	create.Flags().StringSliceVar(&enlaces, "enlace", nil, "Existing http(s) link, repeatable")
	cmd.AddCommand(create)

	var updateFlags soapFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Editar notas SOAP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.rt.Sessions()
			if err := v.Reload(cmd.Context()); err != nil {
				return err
			}
			if err := v.OpenEdit(args[0]); err != nil {
				return err
			}
			v.EditDialog().Edit(func(d *sessions.EditDraft) {
				updateFlags.apply(cmd, &d.PacienteID, &d.SoapSubj, &d.Observaciones, &d.Analisis, &d.PlanAccion)
			})
			return submit(cmd.Context(), cmd.OutOrStdout(), v.EditDialog(), "Sesión actualizada")
		},
	}
	updateFlags.register(update)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Eliminar sesión",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.rt.Sessions().Delete(cmd.Context(), args[0], a.confirmer())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Sesión eliminada")
				return nil
			}
			deleted(cmd.OutOrStdout(), false, "Sesión")
			return nil
		},
	})
	return cmd
}
