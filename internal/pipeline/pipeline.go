// Package pipeline labels the simulated social feed: it reads raw posts in
// batches, labels each one and publishes the labelled posts.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
)

// BatchExtractor reads up to batchSize raw posts from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Transformer labels a raw post.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawMessage) (feed.LabelledPost, error)
}

// BatchLoader writes labelled posts to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, posts []feed.LabelledPost) error
}

// Pipeline runs the extract-label-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one post.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not labelled any posts yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff from 200ms, capped at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.labelAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// labelAndLoad labels the batch, loads what labelled and commits it.
func (p *Pipeline) labelAndLoad(ctx context.Context, rawBatch []domain.RawMessage, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	labelled, sources := p.label(ctx, rawBatch)
	if len(labelled) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, labelled); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(labelled))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}
	p.metrics.MessagesProduced.Add(float64(len(labelled)))

	for _, raw := range sources {
		p.commitOffset(ctx, raw)
	}
	return len(labelled), true
}

// label transforms every raw post. sources[i] is the message labelled[i]
// came from. Posts that cannot be labelled are skipped.
func (p *Pipeline) label(ctx context.Context, rawBatch []domain.RawMessage) (labelled []feed.LabelledPost, sources []domain.RawMessage) {
	labelled = make([]feed.LabelledPost, 0, len(rawBatch))
	sources = make([]domain.RawMessage, 0, len(rawBatch))
	for _, raw := range rawBatch {
		post, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.skip(ctx, raw, err)
			continue
		}
		labelled = append(labelled, post)
		sources = append(sources, raw)
	}
	return labelled, sources
}

// skip drops a post that cannot be labelled. Its offset is committed so a
// malformed post is never redelivered.
func (p *Pipeline) skip(ctx context.Context, raw domain.RawMessage, err error) {
	p.logger.Warn("unlabellable post skipped",
		"error", err,
		"key", string(raw.Key),
		"offset", raw.Offset,
	)
	p.metrics.LabelErrors.Inc()
	p.commitOffset(ctx, raw)
}

// backoffOrStop sleeps for the current backoff and doubles it. Returns false
// if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if the source supports commits.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Tracking wraps a loader so every loaded post is added to tracker.
func Tracking(next BatchLoader, tracker *lexicon.Tracker) BatchLoader {
	return trackingLoader{next: next, tracker: tracker}
}

type trackingLoader struct {
	next    BatchLoader
	tracker *lexicon.Tracker
}

func (l trackingLoader) LoadBatch(ctx context.Context, posts []feed.LabelledPost) error {
	if err := l.next.LoadBatch(ctx, posts); err != nil {
		return err
	}
	for _, p := range posts {
		l.tracker.Add(p.Sample())
	}
	return nil
}

// Discard is a BatchLoader that drops every post. Combined with Tracking it
// feeds analytics without a sink topic.
var Discard BatchLoader = discard{}

type discard struct{}

func (discard) LoadBatch(context.Context, []feed.LabelledPost) error { return nil }
