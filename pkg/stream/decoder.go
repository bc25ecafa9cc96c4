package stream

import (
	"context"
	"net/url"
	"os/exec"

	"github.com/pkg/errors"
)

// Input is a restartable decoded-input template. It is immutable and may
// be shared by any number of guilds at once; each playback path spawns
// its own decode session from the template rather than consuming it.
type Input struct {
	// URL is the resolved, directly playable media URL.
	URL string
}

// Decoder turns a resolved URL into a reusable Input template.
type Decoder interface {
	Decode(ctx context.Context, resolvedURL string) (*Input, error)
}

// FFmpegDecoder validates that a resolved URL can be fed to ffmpeg and
// builds the shared input template. The actual decode happens per guild
// at play time.
type FFmpegDecoder struct{}

func (FFmpegDecoder) Decode(_ context.Context, resolvedURL string) (*Input, error) {
	u, err := url.Parse(resolvedURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid stream URL %s", resolvedURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported stream scheme %q in %s", u.Scheme, resolvedURL)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, errors.Wrap(err, "ffmpeg not found in PATH")
	}
	return &Input{URL: resolvedURL}, nil
}
