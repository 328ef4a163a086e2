package attachments

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
)

// FileInput uploads a local file when resolved.
type FileInput struct {
	Path     string
	Uploader Uploader
	// Nombre overrides the displayed name, which defaults to the base name.
	Nombre string
}

var _ forms.AttachmentInput = FileInput{}

func (in FileInput) Resolve(ctx context.Context) (clinic.Attachment, error) {
	if in.Uploader == nil {
		return clinic.Attachment{}, ErrNotConfigured
	}
	f, err := os.Open(in.Path)
	if err != nil {
		return clinic.Attachment{}, fmt.Errorf("attachments: open %s: %w", in.Path, err)
	}
	defer f.Close()

	base := filepath.Base(in.Path)
	url, err := in.Uploader.Upload(ctx, base, mime.TypeByExtension(filepath.Ext(base)), f)
	if err != nil {
		return clinic.Attachment{}, err
	}
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		name = base
	}
	return clinic.Attachment{Nombre: name, URL: url}, nil
}
