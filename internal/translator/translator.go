// Package translator turns text into a target language through three model
// calls: detection (when no source is given), translation and verification.
// Finished translations are memoized in a shared cache.
package translator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/globaltalk/internal/cache"
	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/llm"
	"github.com/valpere/globaltalk/internal/placeholder"
	"github.com/valpere/globaltalk/internal/postprocess"
)

// DefaultCallTimeout bounds a single model call.
const DefaultCallTimeout = 45 * time.Second

// Request is one translation job. Source may be empty.
type Request struct {
	Text   string
	Target string
	Source string
}

// Detector guesses the language of text locally, without a model call.
type Detector interface {
	DetectISO(text string) (string, bool)
}

// Validator checks that text is written in lang.
type Validator interface {
	IsValid(text, lang string) (bool, error)
}

// Options configures a Translator. Zero values are usable.
type Options struct {
	CallTimeout time.Duration
	Detector    Detector
	Validator   Validator
	Logger      *zap.SugaredLogger
}

// Stats counts requests and the model calls they caused.
type Stats struct {
	Requests   int64
	CacheHits  int64
	ModelCalls int64
	Failures   int64
}

// Translator is safe for concurrent use.
type Translator struct {
	gen   llm.Generator
	cache *cache.Cache

	callTimeout time.Duration
	detector    Detector
	validator   Validator
	logger      *zap.SugaredLogger

	requests   atomic.Int64
	cacheHits  atomic.Int64
	modelCalls atomic.Int64
	failures   atomic.Int64
}

// New returns a Translator that calls gen and memoizes into c.
func New(gen llm.Generator, c *cache.Cache, opts Options) *Translator {
	if c == nil {
		c = cache.New()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Translator{
		gen:         gen,
		cache:       c,
		callTimeout: opts.CallTimeout,
		detector:    opts.Detector,
		validator:   opts.Validator,
		logger:      opts.Logger,
	}
}

// Translate returns req.Text in req.Target. Empty text yields "" without
// any work. An unsupported target fails with ErrInvalidTargetLanguage
// before the cache is consulted. Model failures are returned as
// *TranslationFailedError and nothing is cached.
func (t *Translator) Translate(ctx context.Context, req Request) (string, error) {
	if req.Text == "" {
		return "", nil
	}
	t.requests.Add(1)

	if !languages.IsSupported(req.Target) {
		return "", &InvalidTargetLanguageError{Code: req.Target}
	}

	key := cache.Key{Text: req.Text, Source: req.Source, Target: req.Target}
	if cached, ok := t.cache.Get(key); ok {
		t.cacheHits.Add(1)
		t.logger.Debugw("translation served from cache", "target", req.Target)
		return cached, nil
	}

	final, err := t.run(ctx, req)
	if err != nil {
		t.failures.Add(1)
		t.logger.Errorw("translation failed", "text", req.Text, "target", req.Target, "error", err)
		return "", err
	}

	t.cache.Put(key, final)
	return final, nil
}

func (t *Translator) run(ctx context.Context, req Request) (string, error) {
	protected, markers := placeholder.Protect(req.Text)

	source := req.Source
	if source == "" {
		detected, err := t.detect(ctx, req.Text)
		if err != nil {
			return "", &TranslationFailedError{Text: req.Text, Step: StepDetection, Err: err}
		}
		source = detected
	}
	if !languages.IsSupported(source) {
		source = SourcePlaceholder
	}

	raw, err := t.call(ctx, TranslationPrompt(protected, source, req.Target))
	if err != nil {
		return "", &TranslationFailedError{Text: req.Text, Step: StepTranslation, Err: err}
	}
	candidate := postprocess.Clean(raw, req.Text)

	verdict, err := t.call(ctx, VerificationPrompt(protected, candidate, source, req.Target))
	if err != nil {
		return "", &TranslationFailedError{Text: req.Text, Step: StepVerification, Err: err}
	}

	final := candidate
	if v := strings.TrimSpace(verdict); v != AccurateVerdict {
		lines := strings.Split(v, "\n")
		final = lines[len(lines)-1]
	}

	if len(markers) > 0 {
		if missing := placeholder.Validate(final, markers); len(missing) > 0 {
			t.logger.Warnw("translation dropped protected markup", "missing", missing)
		}
		final = placeholder.Restore(final, markers)
	}

	if t.validator != nil {
		if ok, verr := t.validator.IsValid(final, req.Target); !ok {
			t.logger.Warnw("translation may not be in the target language", "target", req.Target, "error", verr)
		}
	}

	return final, nil
}

// detect tries the local detector first and falls back to a model call.
func (t *Translator) detect(ctx context.Context, text string) (string, error) {
	if t.detector != nil {
		if code, ok := t.detector.DetectISO(text); ok && languages.IsSupported(code) {
			return code, nil
		}
	}
	answer, err := t.call(ctx, DetectionPrompt(text))
	if err != nil {
		return "", err
	}
	return postprocess.LanguageCode(answer), nil
}

// call issues one model call bounded by the per-call timeout.
func (t *Translator) call(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.callTimeout)
	defer cancel()

	t.modelCalls.Add(1)
	out, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = errors.Join(context.DeadlineExceeded, err)
		}
		return "", err
	}
	return out, nil
}

// Stats returns a snapshot of the counters.
func (t *Translator) Stats() Stats {
	return Stats{
		Requests:   t.requests.Load(),
		CacheHits:  t.cacheHits.Load(),
		ModelCalls: t.modelCalls.Load(),
		Failures:   t.failures.Load(),
	}
}

// Cache returns the cache the translator writes to.
func (t *Translator) Cache() *cache.Cache {
	return t.cache
}
