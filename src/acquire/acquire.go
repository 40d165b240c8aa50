// Package acquire turns a modality.Input into an oracle-ready payload.
package acquire

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/logging"
	"github.com/stake-plus/truthlens/src/modality"
)

// DefaultFrameCount is the number of frames sampled from a video.
const DefaultFrameCount = 20

// Config controls acquisition.
type Config struct {
	// FrameCount is the exact number of evenly spaced frames requested per video.
	FrameCount int
	// ScratchRoot is where per-request scratch directories are created.
	// Empty means the OS temp dir.
	ScratchRoot string
}

// Acquirer converts inputs into payloads. It holds no per-request state and
// is safe for concurrent use.
type Acquirer struct {
	fetcher   Fetcher
	extractor VideoExtractor
	cfg       Config
	logger    *zap.Logger
}

// New constructs an Acquirer. extractor may be nil when video input is not
// served; video requests then fail with an acquisition fault.
func New(fetcher Fetcher, extractor VideoExtractor, cfg Config, logger *zap.Logger) *Acquirer {
	if cfg.FrameCount <= 0 {
		cfg.FrameCount = DefaultFrameCount
	}
	if cfg.ScratchRoot == "" {
		cfg.ScratchRoot = os.TempDir()
	}
	return &Acquirer{
		fetcher:   fetcher,
		extractor: extractor,
		cfg:       cfg,
		logger:    logging.OrNop(logger),
	}
}

// FrameCount reports the configured frame sampling count.
func (a *Acquirer) FrameCount() int { return a.cfg.FrameCount }

// Acquire produces the payload for in, or a *faults.Error describing why it
// could not. Temporary artifacts are released before Acquire returns.
func (a *Acquirer) Acquire(ctx context.Context, in modality.Input) (modality.Payload, error) {
	switch v := in.(type) {
	case modality.Text:
		return acquireText(v), nil
	case modality.Document:
		return a.acquireDocument(ctx, v)
	case modality.Images:
		return acquireImages(v)
	case modality.Audio:
		return acquireAudio(v), nil
	case modality.Video:
		return a.acquireVideo(ctx, v)
	}
	panic("acquire: unhandled input variant")
}

func acquireText(t modality.Text) modality.Payload {
	return modality.TextPayload(modality.KindText, t.Body, modality.Meta{InputLength: runeLen(t.Body)})
}
