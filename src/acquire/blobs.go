package acquire

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
)

func acquireImages(in modality.Images) (modality.Payload, error) {
	if n := len(in.Files); n == 0 || n > modality.MaxImages {
		return modality.Payload{}, faults.Validation(fmt.Sprintf("expected 1 to %d images, got %d", modality.MaxImages, n))
	}
	blobs := make([]modality.Blob, 0, len(in.Files))
	total := 0
	for i, f := range in.Files {
		f.MIMEType = resolveMIME(f)
		if !strings.HasPrefix(f.MIMEType, "image/") {
			return modality.Payload{}, faults.Validation(fmt.Sprintf("file %d is not an image (%s)", i+1, f.MIMEType))
		}
		total += len(f.Data)
		blobs = append(blobs, f)
	}
	return modality.BlobPayload(modality.KindImage, blobs, modality.Meta{
		Files: len(blobs),
		Bytes: total,
	}), nil
}

func acquireAudio(in modality.Audio) modality.Payload {
	clip := in.Clip
	clip.MIMEType = resolveMIME(clip)
	return modality.BlobPayload(modality.KindAudio, []modality.Blob{clip}, modality.Meta{
		Bytes:    len(clip.Data),
		MIMEType: clip.MIMEType,
	})
}

// resolveMIME keeps a declared MIME type and sniffs the content otherwise.
func resolveMIME(b modality.Blob) string {
	declared := strings.TrimSpace(b.MIMEType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	mt := mimetype.Detect(b.Data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

func mimetypeExt(mime string) string {
	if m := mimetype.Lookup(mime); m != nil {
		return m.Extension()
	}
	return ""
}
