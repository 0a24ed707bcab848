package instagram

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"instafetch/internal/fingerprint"
)

// Outcome is what an extraction run produced. Zero items is a valid, terminal
// result, not an error; it becomes a user-facing message only at the API
// boundary.
type Outcome struct {
	Items    []Media
	Strategy string // name of the accepting strategy, for telemetry
}

// Empty reports whether the run found nothing.
func (o Outcome) Empty() bool { return len(o.Items) == 0 }

// Orchestrator drives the ordered strategy list for each request. Strategies
// run strictly sequentially within one request: parallel lookalike requests
// from one fingerprint are exactly the pattern the platform's defenses look
// for, and later strategies only need to run when earlier ones came up short.
type Orchestrator struct {
	strategies []Strategy // priority order, post/reel/story chain
	profile    Strategy   // profile-picture lookup
	lastResort Strategy   // direct page, fallthrough for profiles
	pacingMax  time.Duration

	mu  sync.Mutex // guards rng
	rng *rand.Rand
	log *logrus.Entry
}

// Options configures an extraction pipeline.
type Options struct {
	Pool   *fingerprint.Pool
	Logger *logrus.Logger

	// BrowserFallback appends the headless-browser strategy to the chain.
	BrowserFallback bool

	// PacingMax bounds the randomized delay before each strategy attempt.
	// Zero disables pacing.
	PacingMax time.Duration
}

// NewOrchestrator wires the full strategy chain in reliability order.
func NewOrchestrator(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "extractor")

	c := newClient(opts.Pool, log)

	chain := []Strategy{
		&infoStrategy{c: c},
		&graphqlStrategy{c: c},
		&embedStrategy{c: c},
		&embedStrategy{c: c, crawler: true},
		&pageStrategy{c: c},
	}
	if opts.BrowserFallback {
		chain = append(chain, &browserStrategy{c: c})
	}

	return &Orchestrator{
		strategies: chain,
		profile:    &profileStrategy{c: c},
		lastResort: &pageStrategy{c: c},
		pacingMax:  opts.PacingMax,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		log:        log,
	}
}

// Run executes strategies in order until one satisfies the acceptance rule.
// First strategy to satisfy it wins; there is no cross-strategy merging.
func (o *Orchestrator) Run(ctx context.Context, req *Request) Outcome {
	if req.Hint == ContentProfile {
		if items := o.attempt(ctx, o.profile, req); len(items) > 0 {
			return Outcome{Items: items, Strategy: o.profile.Name()}
		}
		if ctx.Err() != nil {
			return Outcome{}
		}
		if items := o.attempt(ctx, o.lastResort, req); len(items) > 0 {
			return Outcome{Items: items, Strategy: o.lastResort.Name()}
		}
		return Outcome{}
	}

	for _, s := range o.strategies {
		if ctx.Err() != nil {
			return Outcome{}
		}
		items := o.attempt(ctx, s, req)
		if len(items) == 0 {
			continue
		}
		if req.ExpectsVideo && !hasVideo(items) {
			// Partial miss: a later strategy may still locate the video.
			o.log.WithField("strategy", s.Name()).Debug("items found but no video, continuing")
			continue
		}
		return Outcome{Items: items, Strategy: s.Name()}
	}

	if req.ExpectsVideo {
		// Degraded second pass without the video filter: a cover image is an
		// honest answer when the video itself cannot be located.
		for _, s := range o.strategies {
			if ctx.Err() != nil {
				return Outcome{}
			}
			if items := o.attempt(ctx, s, req); len(items) > 0 {
				return Outcome{Items: items, Strategy: s.Name()}
			}
		}
	}

	return Outcome{}
}

func (o *Orchestrator) attempt(ctx context.Context, s Strategy, req *Request) []Media {
	o.pace(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return s.Attempt(ctx, req)
}

// pace sleeps a random slice of pacingMax to break up burstiness. The sleep
// aborts immediately when the request is cancelled.
func (o *Orchestrator) pace(ctx context.Context) {
	if o.pacingMax <= 0 {
		return
	}
	o.mu.Lock()
	d := time.Duration(o.rng.Int63n(int64(o.pacingMax)))
	o.mu.Unlock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
