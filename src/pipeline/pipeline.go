// Package pipeline orchestrates a single verification run:
// acquire, prompt, invoke, parse, normalize and (for images) calibrate.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/ai/core"
	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/logging"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/prompt"
	"github.com/stake-plus/truthlens/src/verdict"
)

// Acquirer reduces an input to an oracle payload. *acquire.Acquirer satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context, in modality.Input) (modality.Payload, error)
}

// Result is the outcome of a successful run.
type Result struct {
	Verdict verdict.Verdict `json:"result"`
	// Kind is the effective modality; a video reduced to audio reports audio.
	Kind       modality.Kind `json:"-"`
	Meta       modality.Meta `json:"meta"`
	Stages     []Stage       `json:"-"`
	ParseFault bool          `json:"-"`
	Elapsed    time.Duration `json:"-"`
}

// Pipeline is stateless across runs and safe for concurrent use.
type Pipeline struct {
	oracle core.Client
	acq    Acquirer
	logger *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrNop(l) }
}

// New builds a pipeline around an already constructed oracle client. A nil
// oracle is a configuration fault and no pipeline is returned.
func New(oracle core.Client, acq Acquirer, opts ...Option) (*Pipeline, error) {
	if oracle == nil {
		return nil, faults.Config("oracle client not configured")
	}
	if acq == nil {
		return nil, faults.Config("content acquirer not configured")
	}
	p := &Pipeline{oracle: oracle, acq: acq, logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

type run struct {
	stages []Stage
}

func (r *run) enter(s Stage) { r.stages = append(r.stages, s) }

// Run executes one verification. Failures come back as *StageError wrapping a
// *faults.Error; a malformed oracle response is not a failure and yields the
// fallback verdict with ParseFault set.
func (p *Pipeline) Run(ctx context.Context, in modality.Input) (*Result, error) {
	start := time.Now()
	r := &run{stages: []Stage{StageIdle}}
	log := p.logger.With(zap.Stringer("kind", in.Kind()))

	r.enter(StageAcquiring)
	payload, err := p.acq.Acquire(ctx, in)
	if err != nil {
		return nil, p.fail(log, r, StageAcquiring, err)
	}

	r.enter(StagePrompting)
	req := prompt.Build(payload)

	r.enter(StageInvoking)
	raw, err := p.oracle.Classify(ctx, req)
	if err != nil {
		return nil, p.fail(log, r, StageInvoking, oracleFault(err))
	}

	res := &Result{Kind: payload.Kind, Meta: payload.Meta}

	r.enter(StageParsing)
	rec, ok := verdict.Parse(raw)
	if !ok {
		log.Warn("oracle response not parseable, using fallback verdict", zap.Int("raw_len", len(raw)))
		res.Verdict = verdict.Fallback()
		res.ParseFault = true
	} else {
		r.enter(StageNormalizing)
		if verdict.Conflicts(rec) {
			log.Warn("oracle verdict and is_fake disagree", zap.Any("verdict", rec["verdict"]), zap.Any("is_fake", rec["is_fake"]))
		}
		res.Verdict = verdict.Normalize(rec)

		if verdict.Calibrates(payload.Kind) {
			r.enter(StageCalibrating)
			res.Verdict = verdict.Calibrate(payload.Kind, res.Verdict)
		}
	}

	r.enter(StageDone)
	res.Stages = r.stages
	res.Elapsed = time.Since(start)
	log.Debug("verification complete",
		zap.String("label", string(res.Verdict.Label)),
		zap.Float64("confidence", res.Verdict.Confidence),
		zap.Bool("parse_fault", res.ParseFault),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (p *Pipeline) fail(log *zap.Logger, r *run, stage Stage, err error) error {
	r.enter(StageFailed)
	log.Info("verification failed", zap.String("stage", string(stage)), zap.String("reason", logging.Reason(err)), zap.Error(err))
	return &StageError{Stage: stage, Err: err}
}

func oracleFault(err error) error {
	if _, ok := faults.As(err); ok {
		return err
	}
	if errors.Is(err, core.ErrMissingCredential) {
		fe := faults.Config("oracle credential not configured")
		fe.Err = err
		return fe
	}
	return faults.Oracle(err)
}
