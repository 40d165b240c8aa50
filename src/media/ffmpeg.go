// Package media wraps the ffmpeg/ffprobe binaries used to reduce video.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/acquire"
	"github.com/stake-plus/truthlens/src/logging"
)

// ErrNoDuration is returned when ffprobe cannot report a positive duration.
var ErrNoDuration = errors.New("media: video duration unavailable")

// FFmpeg implements acquire.VideoExtractor with external binaries.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	Logger      *zap.Logger
}

// NewFFmpeg returns an extractor using the given binaries, defaulting to
// "ffmpeg" and "ffprobe" on PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string, logger *zap.Logger) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath, Logger: logging.OrNop(logger)}
}

// Available reports whether both binaries resolve.
func (f *FFmpeg) Available() bool {
	if _, err := exec.LookPath(f.FFmpegPath); err != nil {
		return false
	}
	_, err := exec.LookPath(f.FFprobePath)
	return err == nil
}

// Duration reads the container duration in seconds.
func (f *FFmpeg) Duration(ctx context.Context, src string) (float64, error) {
	out, err := f.run(ctx, f.FFprobePath, durationArgs(src))
	if err != nil {
		return 0, err
	}
	return parseDuration(out)
}

// ExtractFrames writes count frames spread evenly across the clip into dir.
func (f *FFmpeg) ExtractFrames(ctx context.Context, src, dir string, count int) error {
	if count <= 0 {
		return fmt.Errorf("media: frame count must be positive, got %d", count)
	}
	dur, err := f.Duration(ctx, src)
	if err != nil {
		return err
	}
	f.Logger.Debug("extracting frames", zap.Float64("duration", dur), zap.Int("count", count))
	_, err = f.run(ctx, f.FFmpegPath, frameArgs(src, dir, count, dur))
	return err
}

// HasAudio reports whether src carries at least one audio stream.
func (f *FFmpeg) HasAudio(ctx context.Context, src string) (bool, error) {
	out, err := f.run(ctx, f.FFprobePath, audioStreamArgs(src))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ExtractAudio writes the audio track of src to dst as 16 kHz mono PCM WAV.
// A clip without audio yields acquire.ErrNoAudioTrack.
func (f *FFmpeg) ExtractAudio(ctx context.Context, src, dst string) error {
	ok, err := f.HasAudio(ctx, src)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("media: %w", acquire.ErrNoAudioTrack)
	}
	_, err = f.run(ctx, f.FFmpegPath, audioArgs(src, dst))
	return noStream(err)
}

// noStream maps ffmpeg's empty-output failure onto acquire.ErrNoAudioTrack.
func noStream(err error) error {
	if err != nil && strings.Contains(err.Error(), "does not contain any stream") {
		return fmt.Errorf("%w: %v", acquire.ErrNoAudioTrack, err)
	}
	return err
}

func (f *FFmpeg) run(ctx context.Context, bin string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		return "", fmt.Errorf("%s: %w: %s", filepath.Base(bin), err, msg)
	}
	return string(out), nil
}

func durationArgs(src string) []string {
	return []string{"-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", src}
}

func audioStreamArgs(src string) []string {
	return []string{"-v", "error", "-select_streams", "a", "-show_entries", "stream=index", "-of", "csv=p=0", src}
}

// frameArgs samples at count/duration fps so exactly count frames span the clip.
func frameArgs(src, dir string, count int, duration float64) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-vf", fmt.Sprintf("fps=%d/%s", count, strconv.FormatFloat(duration, 'f', -1, 64)),
		"-frames:v", strconv.Itoa(count),
		"-q:v", "3",
		filepath.Join(dir, "frame-%03d.jpg"),
	}
}

func audioArgs(src, dst string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-vn", "-ac", "1", "-ar", "16000", "-acodec", "pcm_s16le", "-f", "wav",
		dst,
	}
}

func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, s)
	}
	return d, nil
}
