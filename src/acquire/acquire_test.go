package acquire

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/webclient"
)

type fakeExtractor struct {
	framesErr error
	audioErr  error
	audio     []byte
	gotCount  int
	gotSrc    string
}

func (f *fakeExtractor) ExtractFrames(_ context.Context, src, dir string, count int) error {
	f.gotCount, f.gotSrc = count, src
	if f.framesErr != nil {
		return f.framesErr
	}
	order := rand.Perm(count)
	for _, i := range order {
		name := filepath.Join(dir, FrameName(i+1))
		if err := os.WriteFile(name, []byte(fmt.Sprintf("frame %d", i+1)), 0o600); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, src, dst string) error {
	f.gotSrc = src
	if f.audioErr != nil {
		return f.audioErr
	}
	return os.WriteFile(dst, f.audio, 0o600)
}

func newTestAcquirer(t *testing.T, ex VideoExtractor) (*Acquirer, string) {
	t.Helper()
	root := t.TempDir()
	client := webclient.NewWithUserAgent(0, UserAgent)
	return New(HTTPFetcher{Client: client}, ex, Config{FrameCount: 20, ScratchRoot: root}, nil), root
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory left behind")
}

func TestAcquireTextPassthrough(t *testing.T) {
	a, _ := newTestAcquirer(t, nil)
	p, err := a.Acquire(context.Background(), modality.Text{Body: "Scientists confirm water is wet."})
	require.NoError(t, err)
	assert.Equal(t, modality.KindText, p.Kind)
	assert.Equal(t, "Scientists confirm water is wet.", p.Text)
	assert.Empty(t, p.Blobs)
	assert.Equal(t, 32, p.Meta.InputLength)
}

func TestExtractTextPriority(t *testing.T) {
	article := strings.Repeat("The council voted to approve the budget. ", 4)
	page := `<html><head>
<title>  Budget   passed </title>
<meta name="description" content="City budget news">
<meta property="og:description" content="OG summary">
<style>.x{color:red}</style>
</head><body>
<script>var tracking = 1;</script>
<article>` + article + `</article>
<footer>Copyright</footer>
</body></html>`

	got := ExtractText(page)
	assert.True(t, strings.HasPrefix(got, "Budget passed City budget news OG summary The council voted"), got)
	assert.NotContains(t, got, "tracking")
	assert.NotContains(t, got, "color:red")
	assert.NotContains(t, got, "  ")
	assert.Equal(t, 8, strings.Count(got, "The council voted"))
	assert.Equal(t, 1, strings.Count(got, "Copyright"))
}

func TestExtractTextShortArticleSkipped(t *testing.T) {
	page := `<html><body><article>short piece</article> <p>tail</p></body></html>`
	assert.Equal(t, "short piece tail", ExtractText(page))
}

func TestAcquireDocument(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", strings.Repeat("word ", 3000))
	}))
	defer srv.Close()

	a, _ := newTestAcquirer(t, nil)
	p, err := a.Acquire(context.Background(), modality.Document{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, UserAgent, gotUA)
	assert.Equal(t, modality.KindDocument, p.Kind)
	assert.Equal(t, maxDocumentChars, runeLen(p.Text))
	assert.Equal(t, srv.URL, p.Meta.Source)
	assert.Equal(t, maxDocumentChars, p.Meta.ExtractedLength)
}

func TestAcquireDocumentTooShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>Hello from page</body></html>")
	}))
	defer srv.Close()

	a, _ := newTestAcquirer(t, nil)
	_, err := a.Acquire(context.Background(), modality.Document{URL: srv.URL})
	require.Error(t, err)
	fe, ok := faults.As(err)
	require.True(t, ok)
	assert.Equal(t, faults.CategoryAcquisition, fe.Category)
	assert.Equal(t, http.StatusUnprocessableEntity, fe.Status)
}

func TestAcquireDocumentHTTPError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a, _ := newTestAcquirer(t, nil)
	_, err := a.Acquire(context.Background(), modality.Document{URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, faults.StatusOf(err))
	assert.Contains(t, err.Error(), "HTTP 503")
	assert.Equal(t, 1, calls)
}

func TestGuardedFetcherRefusesLoopback(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		fetcher HTTPFetcher
	}{
		{"literal address", HTTPFetcher{Guard: true}},
		{"resolved at dial", HTTPFetcher{Client: webclient.NewGuarded(0, UserAgent)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.fetcher, nil, Config{ScratchRoot: t.TempDir()}, nil)
			_, err := a.Acquire(context.Background(), modality.Document{URL: srv.URL})
			require.Error(t, err)
			assert.True(t, faults.Is(err, faults.CategoryValidation))
			assert.Equal(t, http.StatusBadRequest, faults.StatusOf(err))
			assert.True(t, webclient.Blocked(err))
		})
	}
	assert.Zero(t, calls)
}

func TestAcquireImagesKeepsOrderAndSniffs(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	a, _ := newTestAcquirer(t, nil)
	p, err := a.Acquire(context.Background(), modality.Images{Files: []modality.Blob{
		{Name: "a.png", Data: png},
		{Name: "b.jpg", MIMEType: "image/jpeg", Data: jpg},
	}})
	require.NoError(t, err)
	require.Len(t, p.Blobs, 2)
	assert.Equal(t, "a.png", p.Blobs[0].Name)
	assert.Equal(t, "image/png", p.Blobs[0].MIMEType)
	assert.Equal(t, "b.jpg", p.Blobs[1].Name)
	assert.Equal(t, 2, p.Meta.Files)
}

func TestAcquireImagesBounds(t *testing.T) {
	a, _ := newTestAcquirer(t, nil)
	_, err := a.Acquire(context.Background(), modality.Images{})
	assert.True(t, faults.Is(err, faults.CategoryValidation))

	files := make([]modality.Blob, modality.MaxImages+1)
	for i := range files {
		files[i] = modality.Blob{MIMEType: "image/png", Data: []byte{1}}
	}
	_, err = a.Acquire(context.Background(), modality.Images{Files: files})
	assert.True(t, faults.Is(err, faults.CategoryValidation))
}

func TestAcquireVideoFramesAscending(t *testing.T) {
	ex := &fakeExtractor{}
	a, root := newTestAcquirer(t, ex)
	p, err := a.Acquire(context.Background(), modality.Video{
		Clip: modality.Blob{Name: "clip.mp4", MIMEType: "video/mp4", Data: []byte("not really mp4")},
	})
	require.NoError(t, err)

	assert.Equal(t, 20, ex.gotCount)
	assert.Equal(t, ".mp4", filepath.Ext(ex.gotSrc))
	assert.Equal(t, modality.KindVideo, p.Kind)
	require.Len(t, p.Blobs, 20)
	for i, b := range p.Blobs {
		assert.Equal(t, fmt.Sprintf("frame %d", i+1), string(b.Data))
		assert.Equal(t, "image/jpeg", b.MIMEType)
	}
	assert.Equal(t, 20, p.Meta.Frames)
	assert.Equal(t, "video/mp4", p.Meta.MIMEType)
	assertEmptyDir(t, root)
}

func TestAcquireVideoAudioStrategy(t *testing.T) {
	ex := &fakeExtractor{audio: []byte("RIFF....WAVE")}
	a, root := newTestAcquirer(t, ex)
	p, err := a.Acquire(context.Background(), modality.Video{
		Clip:     modality.Blob{Name: "clip.webm", MIMEType: "video/webm", Data: []byte("x")},
		Strategy: modality.StrategyAudio,
	})
	require.NoError(t, err)
	assert.Equal(t, modality.KindAudio, p.Kind)
	require.Len(t, p.Blobs, 1)
	assert.Equal(t, "audio/wav", p.Blobs[0].MIMEType)
	assertEmptyDir(t, root)
}

func TestAcquireVideoWithoutAudioTrack(t *testing.T) {
	tests := []struct {
		name       string
		ex         *fakeExtractor
		wantStatus int
	}{
		{"extractor reports no stream", &fakeExtractor{audioErr: fmt.Errorf("media: %w", ErrNoAudioTrack)}, http.StatusUnprocessableEntity},
		{"empty output file", &fakeExtractor{audio: nil}, http.StatusUnprocessableEntity},
		{"extractor crash", &fakeExtractor{audioErr: errors.New("ffmpeg exited 1")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, root := newTestAcquirer(t, tt.ex)
			_, err := a.Acquire(context.Background(), modality.Video{
				Clip:     modality.Blob{Name: "clip.mp4", MIMEType: "video/mp4", Data: []byte("x")},
				Strategy: modality.StrategyAudio,
			})
			require.Error(t, err)
			assert.True(t, faults.Is(err, faults.CategoryAcquisition))
			assert.Equal(t, tt.wantStatus, faults.StatusOf(err))
			assertEmptyDir(t, root)
		})
	}
}

func TestAcquireVideoExtractionFailureCleansUp(t *testing.T) {
	ex := &fakeExtractor{framesErr: errors.New("ffmpeg exited 1")}
	a, root := newTestAcquirer(t, ex)
	_, err := a.Acquire(context.Background(), modality.Video{
		Clip: modality.Blob{Name: "clip.mp4", MIMEType: "video/mp4", Data: []byte("x")},
	})
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CategoryAcquisition))
	assertEmptyDir(t, root)
}

func TestFrameFilesNumericOrder(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"frame-1000.jpg", "frame-002.jpg", "frame-999.jpg", "frame-001.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
	names, err := frameFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"frame-001.jpg", "frame-002.jpg", "frame-999.jpg", "frame-1000.jpg"}, names)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "abc", truncate("abc", 10))
}
