package pipeline

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/photocast/internal/artifact"
	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/logging"
	"github.com/dmitrijs2005/photocast/internal/models"
)

const (
	// DefaultSlideDuration is the steady-state target time per slide.
	DefaultSlideDuration = 12 * time.Second

	// DefaultFirstSlideDuration shortens the first slide so the user sees
	// an image quickly after starting the cast.
	DefaultFirstSlideDuration = 2500 * time.Millisecond

	// maxConsecutiveFailures is the escalation threshold: this many
	// recoverable per-item failures in a row within one pass is treated
	// as systemic.
	maxConsecutiveFailures = 3
)

// Scheduler is the top-level pull-based generator. Each Next call advances
// the pipeline by at most one slide: fetch a fresh pass when the previous is
// exhausted, shuffle it, then decrypt → filter → materialize → pace → yield,
// enforcing the failure-escalation policy along the way.
//
// A Scheduler supports exactly one consumer; Next is not safe for
// concurrent use.
type Scheduler struct {
	session      models.CastSession
	fetcher      *Fetcher
	decryptor    *Decryptor
	materializer *Materializer
	log          logging.Logger

	slideDuration      time.Duration
	firstSlideDuration time.Duration
	now                func() time.Time
	sleep              func(context.Context, time.Duration) error
	shuffle            func(n int, swap func(i, j int))

	window artifact.Window

	pass         []*models.EncryptedFile
	idx          int
	passStarted  bool
	passProduced bool
	failures     int
	yielded      bool
	lastYield    time.Time

	done    bool
	termErr error
}

// SchedulerOption customises a Scheduler. The clock, sleep and shuffle
// hooks exist because wall time and randomness are external capabilities.
type SchedulerOption func(*Scheduler)

// WithSlideDurations overrides the steady-state and first-slide targets.
func WithSlideDurations(slide, first time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.slideDuration = slide
		s.firstSlideDuration = first
	}
}

// WithClock injects the time source and the pacing wait.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
		s.sleep = sleep
	}
}

// WithShuffle injects the pass shuffling function.
func WithShuffle(fn func(n int, swap func(i, j int))) SchedulerOption {
	return func(s *Scheduler) { s.shuffle = fn }
}

// NewScheduler wires the pipeline stages into a slideshow generator.
func NewScheduler(session models.CastSession, fetcher *Fetcher, decryptor *Decryptor, materializer *Materializer, log logging.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		session:            session,
		fetcher:            fetcher,
		decryptor:          decryptor,
		materializer:       materializer,
		log:                log,
		slideDuration:      DefaultSlideDuration,
		firstSlideDuration: DefaultFirstSlideDuration,
		now:                time.Now,
		sleep:              sleepCtx,
		shuffle:            secureShuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Pacing for the first slide is measured from run start.
	s.lastYield = s.now()
	return s
}

// Next returns the next renderable artifact, blocking for pacing and any
// in-flight network or worker round-trips.
//
// It returns common.ErrStreamEnded when a full pass produced zero eligible
// items, common.ErrAuthExpired as soon as the access token is rejected, and
// common.ErrTooManyFailures after three consecutive recoverable per-item
// failures. Any terminal condition is sticky: subsequent calls return the
// same error.
func (s *Scheduler) Next(ctx context.Context) (*artifact.Artifact, error) {
	if s.done {
		return nil, s.termErr
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.idx >= len(s.pass) {
			if s.passStarted && !s.passProduced {
				// An empty or fully-ineligible collection ends the
				// sequence rather than spinning.
				s.log.Info(ctx, "pass produced no slides, ending stream")
				return nil, s.terminate(common.ErrStreamEnded)
			}
			if err := s.startPass(ctx); err != nil {
				return nil, s.terminate(err)
			}
			continue
		}

		rec := s.pass[s.idx]
		s.idx++

		art, err := s.processItem(ctx, rec)
		if err != nil {
			if fatal := s.noteFailure(ctx, rec, err); fatal != nil {
				return nil, fatal
			}
			continue
		}
		if art == nil {
			// Filtered out: silent skip, counter untouched.
			continue
		}

		s.failures = 0
		s.passProduced = true

		if err := s.pace(ctx); err != nil {
			art.Release()
			return nil, err
		}

		s.window.Push(art)
		s.lastYield = s.now()
		s.yielded = true
		return art, nil
	}
}

// startPass fetches the full live file set and shuffles it. The diff cursor
// restarts at zero every pass: state is always fresh, nothing is persisted.
func (s *Scheduler) startPass(ctx context.Context) error {
	recs, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })

	s.pass = recs
	s.idx = 0
	s.passStarted = true
	s.passProduced = false
	s.failures = 0

	s.log.Info(ctx, "starting pass", "files", len(recs))
	return nil
}

// processItem runs one record through decrypt → filter → materialize.
// A nil, nil return means the file was filtered out.
func (s *Scheduler) processItem(ctx context.Context, rec *models.EncryptedFile) (*artifact.Artifact, error) {
	file, err := s.decryptor.Decrypt(ctx, rec, s.session.CollectionKey)
	if err != nil {
		return nil, err
	}
	if !Eligible(file) {
		s.log.Debug(ctx, "file not displayable", "file_id", rec.ID,
			"kind", int(file.Metadata.FileType), "size", file.Metadata.Size)
		return nil, nil
	}
	return s.materializer.Materialize(ctx, file)
}

// noteFailure applies the failure-escalation policy. The error tag is
// checked before the counter is touched: an auth failure escalates
// immediately regardless of the counter, cancellation propagates uncounted,
// and everything else counts toward the threshold.
func (s *Scheduler) noteFailure(ctx context.Context, rec *models.EncryptedFile, err error) error {
	if errors.Is(err, common.ErrAuthExpired) {
		s.log.Error(ctx, "access token rejected, stopping", "file_id", rec.ID)
		return s.terminate(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	s.failures++
	s.log.Warn(ctx, "skipping file after failure",
		"file_id", rec.ID, "consecutive_failures", s.failures, "error", err)

	if s.failures >= maxConsecutiveFailures {
		s.log.Error(ctx, "consecutive failure threshold reached, stopping",
			"threshold", maxConsecutiveFailures)
		return s.terminate(fmt.Errorf("%w: last: %v", common.ErrTooManyFailures, err))
	}
	return nil
}

// pace waits out the remainder of the slide duration not already spent
// fetching, decrypting and materializing this item. The wait is never
// negative, and the first slide of the run uses the shortened duration.
func (s *Scheduler) pace(ctx context.Context) error {
	target := s.slideDuration
	if !s.yielded {
		target = s.firstSlideDuration
	}

	wait := target - s.now().Sub(s.lastYield)
	if wait <= 0 {
		return nil
	}
	return s.sleep(ctx, wait)
}

// terminate marks the run finished, keeping only the currently displayed
// slide alive; releasing that one is the presentation layer's job.
func (s *Scheduler) terminate(err error) error {
	s.done = true
	s.termErr = err
	s.window.TrimTo(1)
	return err
}

// WindowLen exposes the number of live handles, for observability.
func (s *Scheduler) WindowLen() int { return s.window.Len() }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// secureShuffle is a Fisher–Yates shuffle drawing from crypto/rand, so
// playback order is not predictable across passes.
func secureShuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			// Entropy read failure leaves this position unswapped. Order
			// quality is not worth failing the pass over.
			continue
		}
		swap(i, int(j.Int64()))
	}
}
