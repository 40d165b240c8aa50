package modality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsAreDistinctAndNamed(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds() {
		name := k.String()
		assert.NotContains(t, name, "kind(")
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 5)
}

func TestInputKinds(t *testing.T) {
	assert.Equal(t, KindText, Text{}.Kind())
	assert.Equal(t, KindDocument, Document{}.Kind())
	assert.Equal(t, KindImage, Images{}.Kind())
	assert.Equal(t, KindAudio, Audio{}.Kind())
	assert.Equal(t, KindVideo, Video{}.Kind())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyFrames, s)

	s, err = ParseStrategy("audio")
	require.NoError(t, err)
	assert.Equal(t, StrategyAudio, s)

	_, err = ParseStrategy("thumbnails")
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Images{Files: []Blob{{MIMEType: "image/png", Data: []byte{1, 2}}, {MIMEType: "image/png", Data: []byte{3}}}}
	b := Images{Files: []Blob{{MIMEType: "image/png", Data: []byte{3}}, {MIMEType: "image/png", Data: []byte{1, 2}}}}

	assert.Equal(t, Fingerprint(a), Fingerprint(a))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b), "order is significant")
	assert.NotEqual(t, Fingerprint(Text{Body: "x"}), Fingerprint(Document{URL: "x"}))
	assert.Contains(t, Fingerprint(Text{Body: "hello"}), "text:")
}
