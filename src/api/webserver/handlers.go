package webserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/data"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/pipeline"
	"github.com/stake-plus/truthlens/src/sanitize"
	"github.com/stake-plus/truthlens/src/verdict"
)

// Runner executes one verification. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, in modality.Input) (*pipeline.Result, error)
}

// Verify serves the /api/verify* routes.
type Verify struct {
	runner    Runner
	cache     *data.VerdictCache
	audit     *data.AuditLog
	logger    *zap.Logger
	strategy  modality.VideoStrategy
	maxUpload int64
	timeout   time.Duration
}

func NewVerify(d Deps) Verify {
	return Verify{
		runner:    d.Runner,
		cache:     d.Cache,
		audit:     d.Audit,
		logger:    d.Logger,
		strategy:  d.VideoStrategy,
		maxUpload: d.Server.MaxUploadBytes,
		timeout:   d.Server.RequestTimeout,
	}
}

func (v Verify) Text(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	if err := pipeline.ValidateText(req.Text); err != nil {
		respondError(c, err)
		return
	}
	v.run(c, modality.Text{Body: req.Text}, "", func(m modality.Meta) gin.H {
		return gin.H{"input_length": m.InputLength}
	})
}

func (v Verify) URL(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	if err := pipeline.ValidateURL(req.URL); err != nil {
		respondError(c, err)
		return
	}
	v.run(c, modality.Document{URL: req.URL}, req.URL, func(m modality.Meta) gin.H {
		return gin.H{"source": m.Source, "extracted_length": m.ExtractedLength}
	})
}

func (v Verify) Images(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, formError(err))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		badRequest(c, `No files uploaded. Use form-data field name "files".`)
		return
	}
	if len(headers) > modality.MaxImages {
		badRequest(c, fmt.Sprintf("at most %d images per request", modality.MaxImages))
		return
	}
	files := make([]modality.Blob, 0, len(headers))
	for _, fh := range headers {
		b, err := v.readBlob(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		files = append(files, b)
	}
	v.run(c, modality.Images{Files: files}, "", func(m modality.Meta) gin.H {
		return gin.H{"files": m.Files, "bytes": m.Bytes}
	})
}

func (v Verify) Audio(c *gin.Context) {
	clip, ok := v.singleFile(c)
	if !ok {
		return
	}
	v.run(c, modality.Audio{Clip: clip}, "", func(m modality.Meta) gin.H {
		return gin.H{"bytes": m.Bytes, "mimeType": m.MIMEType}
	})
}

func (v Verify) Video(c *gin.Context) {
	clip, ok := v.singleFile(c)
	if !ok {
		return
	}
	strategy := v.strategy
	if s := c.PostForm("strategy"); s != "" {
		parsed, err := modality.ParseStrategy(s)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		strategy = parsed
	}
	if strategy == "" {
		strategy = modality.StrategyFrames
	}
	v.run(c, modality.Video{Clip: clip, Strategy: strategy}, "", func(m modality.Meta) gin.H {
		h := gin.H{"bytes": m.Bytes, "mimeType": m.MIMEType, "strategy": strategy}
		if strategy == modality.StrategyFrames {
			h["frames"] = m.Frames
		}
		return h
	})
}

func (v Verify) singleFile(c *gin.Context) (modality.Blob, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			badRequest(c, `No file uploaded. Use form-data field name "file".`)
		} else {
			respondError(c, formError(err))
		}
		return modality.Blob{}, false
	}
	b, err := v.readBlob(fh)
	if err != nil {
		respondError(c, err)
		return modality.Blob{}, false
	}
	return b, true
}

func (v Verify) readBlob(fh *multipart.FileHeader) (modality.Blob, error) {
	if fh.Size > v.maxUpload {
		return modality.Blob{}, tooLarge(fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, v.maxUpload))
	}
	f, err := fh.Open()
	if err != nil {
		return modality.Blob{}, err
	}
	defer f.Close()
	body, err := io.ReadAll(io.LimitReader(f, v.maxUpload+1))
	if err != nil {
		return modality.Blob{}, err
	}
	if int64(len(body)) > v.maxUpload {
		return modality.Blob{}, tooLarge(fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, v.maxUpload))
	}
	if len(body) == 0 {
		return modality.Blob{}, tooSmall(fh.Filename)
	}
	return modality.Blob{Name: fh.Filename, MIMEType: fh.Header.Get("Content-Type"), Data: body}, nil
}

// run checks the cache, runs the pipeline, records the outcome and writes the
// response. extra builds the modality-specific annotations.
func (v Verify) run(c *gin.Context, in modality.Input, source string, extra func(modality.Meta) gin.H) {
	ctx := c.Request.Context()
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}
	log := v.logger.With(zap.String("request_id", c.GetString("request_id")), zap.Stringer("kind", in.Kind()))
	fp := modality.Fingerprint(in)

	if hit, ok, err := v.cache.Get(ctx, fp); err != nil {
		log.Warn("verdict cache read failed", zap.Error(err))
	} else if ok {
		c.Header("X-Cache", "hit")
		v.record(ctx, log, data.AuditEntry{Fingerprint: fp, Kind: in.Kind(), Verdict: hit.Verdict, Cached: true, Source: source})
		v.respond(c, hit.Verdict, hit.Meta, extra)
		return
	}

	res, err := v.runner.Run(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	if !res.ParseFault {
		if err := v.cache.Put(ctx, fp, res.Verdict, res.Meta); err != nil {
			log.Warn("verdict cache write failed", zap.Error(err))
		}
	}
	v.record(ctx, log, data.AuditEntry{
		Fingerprint: fp,
		Kind:        res.Kind,
		Verdict:     res.Verdict,
		ParseFault:  res.ParseFault,
		Source:      source,
		Elapsed:     res.Elapsed,
	})
	v.respond(c, res.Verdict, res.Meta, extra)
}

func (v Verify) record(ctx context.Context, log *zap.Logger, e data.AuditEntry) {
	if _, err := v.audit.Record(ctx, e); err != nil {
		log.Warn("audit record failed", zap.Error(err))
	}
}

func (v Verify) respond(c *gin.Context, vd verdict.Verdict, meta modality.Meta, extra func(modality.Meta) gin.H) {
	body := extra(meta)
	body["result"] = sanitize.Verdict(vd)
	c.JSON(http.StatusOK, body)
}
