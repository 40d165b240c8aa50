package modality

import (
	"encoding/binary"
	"strconv"

	"github.com/OneOfOne/xxhash"
)

// Fingerprint returns a stable key for input, suitable for caching verdicts.
// Two inputs with the same kind and the same content share a fingerprint.
func Fingerprint(in Input) string {
	h := xxhash.NewS64(0)
	writeInt(h, int64(in.Kind()))
	switch v := in.(type) {
	case Text:
		_, _ = h.Write([]byte(v.Body))
	case Document:
		_, _ = h.Write([]byte(v.URL))
	case Images:
		for _, f := range v.Files {
			writeBlob(h, f)
		}
	case Audio:
		writeBlob(h, v.Clip)
	case Video:
		_, _ = h.Write([]byte(string(v.Strategy)))
		writeBlob(h, v.Clip)
	}
	return in.Kind().String() + ":" + strconv.FormatUint(h.Sum64(), 16)
}

func writeBlob(h *xxhash.XXHash64, b Blob) {
	writeInt(h, int64(len(b.Data)))
	_, _ = h.Write([]byte(b.MIMEType))
	_, _ = h.Write(b.Data)
}

func writeInt(h *xxhash.XXHash64, n int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, _ = h.Write(buf[:])
}
