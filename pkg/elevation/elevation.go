// Package elevation matches library elevation images to device types and
// uploads them to the device types created during a run.
package elevation

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/agentstation/devicemap/internal/matcher"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
)

// Side is the face of the device an image shows.
type Side string

const (
	Front Side = "front"
	Rear  Side = "rear"
)

// Sides in upload order.
var Sides = []Side{Front, Rear}

// Field is the device type attribute the image is uploaded to.
func (s Side) Field() string {
	return string(s) + "_image"
}

// ImageMatch is the image chosen for one side of a device type slug.
type ImageMatch struct {
	Slug    string         `json:"slug" yaml:"slug"`
	Side    Side           `json:"side" yaml:"side"`
	Matched bool           `json:"matched" yaml:"matched"`
	Image   *library.Entry `json:"image,omitempty" yaml:"image,omitempty"`
	Score   float64        `json:"score" yaml:"score"`
}

// Uploader attaches an image file to an existing device type.
type Uploader interface {
	UploadImage(ctx context.Context, deviceTypeID int, field, filename string, r io.Reader) error
}

// Match finds the front and rear images for slug among images. The query for
// each side is "<slug>.<side>", compared without case against the images of
// that side only. Sides without a candidate at or above threshold are
// returned unmatched.
func Match(slug string, images []library.Entry, threshold float64) []ImageMatch {
	matches := make([]ImageMatch, 0, len(Sides))
	for _, side := range Sides {
		m := ImageMatch{Slug: slug, Side: side}
		suffix := "." + string(side)

		var (
			names     []string
			candidate []library.Entry
		)
		for _, img := range images {
			name := matcher.Normalize(img.BaseName)
			if strings.HasSuffix(name, suffix) {
				names = append(names, name)
				candidate = append(candidate, img)
			}
		}

		query := matcher.Normalize(slug + suffix)
		if best, ok := matcher.Best(query, names, threshold); ok {
			img := candidate[best.Index]
			m.Matched = true
			m.Image = &img
			m.Score = best.Score
		}
		matches = append(matches, m)
	}
	return matches
}

// Attach uploads every matched image to the device type. It returns the
// number of images attached and the first upload error, continuing past it.
func Attach(ctx context.Context, up Uploader, deviceTypeID int, matches []ImageMatch) (int, error) {
	logger := logging.FromContext(ctx)

	var (
		attached int
		first    error
	)
	for _, m := range matches {
		if !m.Matched || m.Image == nil {
			continue
		}
		if err := upload(ctx, up, deviceTypeID, m); err != nil {
			logger.Warn().Err(err).Str("slug", m.Slug).Str("image", m.Image.File).Msg("Image upload failed")
			if first == nil {
				first = err
			}
			continue
		}
		logger.Debug().Str("slug", m.Slug).Str("image", m.Image.File).Msg("Image attached")
		attached++
	}
	return attached, first
}

func upload(ctx context.Context, up Uploader, deviceTypeID int, m ImageMatch) error {
	f, err := os.Open(m.Image.Path)
	if err != nil {
		return errors.WrapIO("open", m.Image.Path, err)
	}
	defer f.Close()

	return up.UploadImage(ctx, deviceTypeID, m.Side.Field(), m.Image.File, f)
}

// Names lists matched image file names, for logging.
func Names(matches []ImageMatch) string {
	var names []string
	for _, m := range matches {
		if m.Matched && m.Image != nil {
			names = append(names, m.Image.File)
		}
	}
	return strings.Join(names, ",")
}
