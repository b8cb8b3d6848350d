package incident

import (
	"math"
	"net/url"
	"strings"

	"emergencyHub/internal/domain"
	"emergencyHub/pkg/e"
)

type MediaInput struct {
	URL        string
	Kind       domain.MediaKind
	MimeType   string
	Size       int64
	Dimensions *domain.Dimensions
	Duration   *float64
	UploadedBy domain.Actor
}

// AttachMedia appends a descriptor. A full list rejects the attachment and stays as is.
func (en *Engine) AttachMedia(inc *Incident, in MediaInput) (domain.Media, error) {
	const op = "incident.AttachMedia"

	if n := len(inc.media); n >= en.mediaCap {
		return domain.Media{}, e.Capacity(op, e.ErrMediaLimitExceeded, "media", en.mediaCap, n)
	}
	if err := checkMedia(op, in); err != nil {
		return domain.Media{}, err
	}

	now := en.now()
	m := domain.Media{
		ID:         en.newID(),
		URL:        in.URL,
		Kind:       in.Kind,
		MimeType:   in.MimeType,
		Size:       in.Size,
		Dimensions: clonePtr(in.Dimensions),
		Duration:   clonePtr(in.Duration),
		UploadedBy: in.UploadedBy,
		UploadedAt: now,
	}
	inc.media = append(inc.media, m)
	en.recompute(inc, now)
	return m, nil
}

func checkMedia(op string, in MediaInput) error {
	u, err := url.Parse(in.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return e.Field(op, e.ErrInvalidInput, "url", in.URL)
	}
	if !in.Kind.Valid() {
		return e.Field(op, e.ErrInvalidInput, "kind", in.Kind)
	}
	if strings.TrimSpace(in.MimeType) == "" {
		return e.Field(op, e.ErrInvalidInput, "mime_type", in.MimeType)
	}
	if in.Size < 0 {
		return e.Field(op, e.ErrInvalidInput, "size", in.Size)
	}
	if d := in.Dimensions; d != nil && (d.Width < 0 || d.Height < 0) {
		return e.Field(op, e.ErrInvalidInput, "dimensions", *d)
	}
	if d := in.Duration; d != nil && (*d < 0 || math.IsNaN(*d) || math.IsInf(*d, 0)) {
		return e.Field(op, e.ErrInvalidInput, "duration", *d)
	}
	return checkActor(op, in.UploadedBy)
}
