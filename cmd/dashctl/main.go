// Command dashctl is the terminal client of the clinic dashboard.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wolfman30/psyclinic-dashboard/cmd/mainconfig"
	"github.com/wolfman30/psyclinic-dashboard/internal/app/bootstrap"
	"github.com/wolfman30/psyclinic-dashboard/internal/attachments"
	appconfig "github.com/wolfman30/psyclinic-dashboard/internal/config"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(newApp(os.Stdin, os.Stdout, os.Stderr)).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand shares. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	apiURL     string
	yes        bool

	cfg      *appconfig.Config
	rt       *bootstrap.Runtime
	uploader attachments.Uploader
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Panel de la consulta: agenda, pacientes y sesiones",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (environment variables still win)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Clinic API base URL, e.g. https://localhost:7224")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "Skip delete confirmations")

	root.AddCommand(dashboardCmd(a))
	root.AddCommand(agendaCmd(a))
	root.AddCommand(pacientesCmd(a))
	root.AddCommand(citasCmd(a))
	root.AddCommand(sesionesCmd(a))
	return root
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := appconfig.Load()
	if a.configPath != "" {
		var err error
		if cfg, err = appconfig.LoadFile(a.configPath); err != nil {
			return err
		}
	}
	if u := strings.TrimRight(strings.TrimSpace(a.apiURL), "/"); u != "" {
		cfg.APIBaseURL = u
	}
	a.cfg = cfg

	// Logs go to stderr as text so rendered views stay clean on stdout.
	logger := logging.NewWithWriter(a.errOut, cfg.LogLevel, "text")
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	prefs := bootstrap.BuildPreferencesStore(redisClient, cfg, logger)
	// The CLI exposes no /metrics; a private registry keeps repeated runs apart.
	a.rt = bootstrap.NewRuntime(cfg, logger, prefs, prometheus.NewRegistry())
	return nil
}

// confirmer prompts on stdin unless --yes was given.
func (a *app) confirmer() confirm.Confirmer {
	if a.yes {
		return confirm.Always(true)
	}
	return confirm.NewPrompt(a.in, a.out)
}

// attachmentUploader builds the S3 uploader on first use.
func (a *app) attachmentUploader(ctx context.Context) (attachments.Uploader, error) {
	if a.uploader != nil {
		return a.uploader, nil
	}
	if strings.TrimSpace(a.cfg.AttachmentsBucket) == "" {
		return nil, fmt.Errorf("%w: set ATTACHMENTS_BUCKET", attachments.ErrNotConfigured)
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("dashctl: load aws config: %w", err)
	}
	a.uploader = attachments.NewS3Uploader(
		mainconfig.NewS3Client(awsCfg, a.cfg),
		a.cfg.AttachmentsBucket,
		a.cfg.AttachmentsBaseURL,
		a.rt.Logger,
	)
	return a.uploader, nil
}
