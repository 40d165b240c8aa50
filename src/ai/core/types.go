package core

import "context"

// Part is one ordered piece of oracle input: either text or inline binary
// data with its MIME type.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// IsBlob reports whether the part carries inline binary data.
func (p Part) IsBlob() bool { return p.Data != nil }

// TextPart wraps a text fragment.
func TextPart(text string) Part { return Part{Text: text} }

// BlobPart wraps inline bytes with their MIME type.
func BlobPart(data []byte, mimeType string) Part {
	if data == nil {
		data = []byte{}
	}
	return Part{Data: data, MIMEType: mimeType}
}

// Request is one oracle call: the instruction text followed by content parts
// in the order they must be presented.
type Request struct {
	Prompt string
	Parts  []Part
}

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	Attempts            int
}

// Client is the oracle boundary: prompt and ordered parts in, raw text out.
// Implementations never interpret the returned text.
type Client interface {
	Classify(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Classify(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
