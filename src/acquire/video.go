package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
)

// FramePattern is the file name pattern extractors write frames under.
const FramePattern = "frame-%03d.jpg"

// ErrNoAudioTrack is returned by ExtractAudio when the container has no
// audio stream.
var ErrNoAudioTrack = errors.New("video has no audio track")

// VideoExtractor reduces a video container on disk. Implementations write
// frames into dir named after FramePattern, and audio as 16 kHz mono WAV.
type VideoExtractor interface {
	ExtractFrames(ctx context.Context, src, dir string, count int) error
	ExtractAudio(ctx context.Context, src, dst string) error
}

func (a *Acquirer) acquireVideo(ctx context.Context, v modality.Video) (modality.Payload, error) {
	if a.extractor == nil {
		return modality.Payload{}, faults.Config("video extractor not configured")
	}
	if len(v.Clip.Data) == 0 {
		return modality.Payload{}, faults.Validation("video file is empty")
	}
	strategy, err := modality.ParseStrategy(string(v.Strategy))
	if err != nil {
		return modality.Payload{}, faults.Validation(err.Error())
	}

	s, err := newScratch(a.cfg.ScratchRoot, a.logger)
	if err != nil {
		return modality.Payload{}, faults.Acquisition(http.StatusInternalServerError, "could not create scratch directory", err)
	}
	defer s.release()

	clip := v.Clip
	clip.MIMEType = resolveMIME(clip)
	src := filepath.Join(s.dir, "input"+videoExt(clip))
	if err := os.WriteFile(src, clip.Data, 0o600); err != nil {
		return modality.Payload{}, faults.Acquisition(http.StatusInternalServerError, "could not stage video", err)
	}
	meta := modality.Meta{Bytes: len(clip.Data), MIMEType: clip.MIMEType}

	switch strategy {
	case modality.StrategyFrames:
		frames, err := a.frames(ctx, src, s.dir)
		if err != nil {
			return modality.Payload{}, err
		}
		meta.Frames = len(frames)
		return modality.BlobPayload(modality.KindVideo, frames, meta), nil
	case modality.StrategyAudio:
		track, err := a.audioTrack(ctx, src, s.dir)
		if err != nil {
			return modality.Payload{}, err
		}
		return modality.BlobPayload(modality.KindAudio, []modality.Blob{track}, meta), nil
	}
	panic("acquire: unhandled video strategy " + string(strategy))
}

func (a *Acquirer) frames(ctx context.Context, src, root string) ([]modality.Blob, error) {
	dir := filepath.Join(root, "frames")
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, faults.Acquisition(http.StatusInternalServerError, "could not create frame directory", err)
	}
	if err := a.extractor.ExtractFrames(ctx, src, dir, a.cfg.FrameCount); err != nil {
		return nil, faults.Acquisition(http.StatusInternalServerError, "frame extraction failed", err)
	}
	names, err := frameFiles(dir)
	if err != nil {
		return nil, faults.Acquisition(http.StatusInternalServerError, "could not list frames", err)
	}
	if len(names) == 0 {
		return nil, faults.Acquisition(http.StatusUnprocessableEntity, "no frames could be extracted from the video", nil)
	}
	if len(names) > a.cfg.FrameCount {
		names = names[:a.cfg.FrameCount]
	}
	out := make([]modality.Blob, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, faults.Acquisition(http.StatusInternalServerError, "could not read frame", err)
		}
		out = append(out, modality.Blob{Name: name, MIMEType: "image/jpeg", Data: data})
	}
	return out, nil
}

func (a *Acquirer) audioTrack(ctx context.Context, src, root string) (modality.Blob, error) {
	dst := filepath.Join(root, "audio.wav")
	if err := a.extractor.ExtractAudio(ctx, src, dst); err != nil {
		if errors.Is(err, ErrNoAudioTrack) {
			return modality.Blob{}, faults.Acquisition(http.StatusUnprocessableEntity, ErrNoAudioTrack.Error(), err)
		}
		return modality.Blob{}, faults.Acquisition(http.StatusInternalServerError, "audio extraction failed", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		return modality.Blob{}, faults.Acquisition(http.StatusInternalServerError, "could not read extracted audio", err)
	}
	if len(data) == 0 {
		return modality.Blob{}, faults.Acquisition(http.StatusUnprocessableEntity, ErrNoAudioTrack.Error(), nil)
	}
	return modality.Blob{Name: "audio.wav", MIMEType: "audio/wav", Data: data}, nil
}

// frameFiles lists frame-NNN.jpg files in ascending sequence order. The
// numeric sort keeps frame-1000 after frame-999.
func frameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type frame struct {
		name string
		seq  int
	}
	var frames []frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if seq, ok := frameSeq(e.Name()); ok {
			frames = append(frames, frame{name: e.Name(), seq: seq})
		}
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].seq < frames[j].seq })
	names := make([]string, len(frames))
	for i, f := range frames {
		names[i] = f.name
	}
	return names, nil
}

func frameSeq(name string) (int, bool) {
	if !strings.HasPrefix(name, "frame-") || !strings.HasSuffix(name, ".jpg") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "frame-"), ".jpg"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FrameName formats the file name of the i-th frame (1-based).
func FrameName(i int) string { return fmt.Sprintf(FramePattern, i) }

func videoExt(b modality.Blob) string {
	if ext := filepath.Ext(b.Name); ext != "" && len(ext) <= 6 {
		return strings.ToLower(ext)
	}
	if ext := mimetypeExt(b.MIMEType); ext != "" {
		return ext
	}
	return ".bin"
}
