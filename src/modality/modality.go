// Package modality defines the closed set of inputs the verifier accepts and
// the oracle-ready payload each one is reduced to.
package modality

import "fmt"

// Kind identifies one of the supported input modalities.
type Kind int

const (
	KindText Kind = iota + 1
	KindDocument
	KindImage
	KindAudio
	KindVideo
)

// MaxImages bounds a single image submission.
const MaxImages = 5

// Kinds lists every modality, in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindDocument, KindImage, KindAudio, KindVideo}
}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDocument:
		return "document"
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Input is implemented only by the variants in this package.
type Input interface {
	Kind() Kind
	isInput()
}

// Blob is a binary object with its declared MIME type.
type Blob struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Text is raw user text. Length bounds are enforced by the caller.
type Text struct {
	Body string
}

// Document is a remote web page to be fetched and reduced to text.
type Document struct {
	URL string
}

// Images holds 1..MaxImages files in submission order.
type Images struct {
	Files []Blob
}

// Audio is a single audio clip.
type Audio struct {
	Clip Blob
}

// VideoStrategy selects how a video container is reduced for the oracle.
type VideoStrategy string

const (
	StrategyFrames VideoStrategy = "frames"
	StrategyAudio  VideoStrategy = "audio"
)

// ParseStrategy maps a config or form value onto a VideoStrategy.
func ParseStrategy(s string) (VideoStrategy, error) {
	switch VideoStrategy(s) {
	case "", StrategyFrames:
		return StrategyFrames, nil
	case StrategyAudio:
		return StrategyAudio, nil
	}
	return "", fmt.Errorf("unknown video strategy %q", s)
}

// Video is a single video clip plus the extraction strategy to apply.
type Video struct {
	Clip     Blob
	Strategy VideoStrategy
}

func (Text) Kind() Kind     { return KindText }
func (Document) Kind() Kind { return KindDocument }
func (Images) Kind() Kind   { return KindImage }
func (Audio) Kind() Kind    { return KindAudio }
func (Video) Kind() Kind    { return KindVideo }

func (Text) isInput()     {}
func (Document) isInput() {}
func (Images) isInput()   {}
func (Audio) isInput()    {}
func (Video) isInput()    {}
