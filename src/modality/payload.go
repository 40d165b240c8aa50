package modality

// Payload is the oracle-ready form of an Input.
//
// Kind is the effective modality used for prompt and calibration selection:
// a video reduced to its audio track is an audio payload.
// Blobs are in temporal / submission order and must stay that way.
type Payload struct {
	Kind  Kind
	Text  string
	Blobs []Blob
	Meta  Meta
}

// Meta carries pass-through annotations for the caller. Not part of the verdict.
type Meta struct {
	Source          string `json:"source,omitempty"`
	InputLength     int    `json:"input_length,omitempty"`
	ExtractedLength int    `json:"extracted_length,omitempty"`
	Bytes           int    `json:"bytes,omitempty"`
	MIMEType        string `json:"mimeType,omitempty"`
	Frames          int    `json:"frames,omitempty"`
	Files           int    `json:"files,omitempty"`
}

// TextPayload builds a text-only payload.
func TextPayload(kind Kind, text string, meta Meta) Payload {
	return Payload{Kind: kind, Text: text, Meta: meta}
}

// BlobPayload builds a binary payload; blobs are kept in the given order.
func BlobPayload(kind Kind, blobs []Blob, meta Meta) Payload {
	return Payload{Kind: kind, Blobs: blobs, Meta: meta}
}
