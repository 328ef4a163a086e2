package forms

import (
	"context"
	"net/url"
	"strings"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
)

// AttachmentInput produces one session attachment. Implementations may
// upload content before returning its public URL.
type AttachmentInput interface {
	Resolve(ctx context.Context) (clinic.Attachment, error)
}

// URLInput references a file that is already reachable over http(s).
type URLInput struct {
	URL string
	// Nombre overrides the name derived from the last path segment.
	Nombre string
}

func (in URLInput) Resolve(context.Context) (clinic.Attachment, error) {
	raw := strings.TrimSpace(in.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return clinic.Attachment{}, invalid("archivos", ErrInvalidAttachmentURL)
	}
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		name = clinic.AttachmentName(raw)
	}
	return clinic.Attachment{Nombre: name, URL: raw}, nil
}
