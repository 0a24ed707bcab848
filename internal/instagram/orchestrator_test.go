package instagram

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeStrategy struct {
	name  string
	items []Media
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Attempt(ctx context.Context, req *Request) []Media {
	f.calls++
	return f.items
}

func testOrchestrator(chain ...Strategy) *Orchestrator {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Orchestrator{
		strategies: chain,
		rng:        rand.New(rand.NewSource(1)),
		log:        logger.WithField("component", "test"),
	}
}

func TestRunStopsAtFirstHit(t *testing.T) {
	first := &fakeStrategy{name: "a", items: []Media{{URL: "https://cdn/a.jpg", Kind: KindImage}}}
	second := &fakeStrategy{name: "b", items: []Media{{URL: "https://cdn/b.jpg", Kind: KindImage}}}
	o := testOrchestrator(first, second)

	out := o.Run(context.Background(), &Request{Hint: ContentPost})
	if out.Strategy != "a" {
		t.Fatalf("expected strategy a to win, got %q", out.Strategy)
	}
	if second.calls != 0 {
		t.Fatalf("strategy b should not have been attempted, calls = %d", second.calls)
	}
}

func TestRunSkipsImageOnlyWhenVideoExpected(t *testing.T) {
	imageOnly := &fakeStrategy{name: "images", items: []Media{{URL: "https://cdn/cover.jpg", Kind: KindImage}}}
	withVideo := &fakeStrategy{name: "video", items: []Media{{URL: "https://cdn/reel.mp4", Kind: KindVideo}}}
	o := testOrchestrator(imageOnly, withVideo)

	out := o.Run(context.Background(), &Request{Hint: ContentReel, ExpectsVideo: true})
	if out.Strategy != "video" {
		t.Fatalf("expected video strategy to win, got %q", out.Strategy)
	}
	if out.Items[0].Kind != KindVideo {
		t.Fatalf("expected a video item, got %s", out.Items[0].Kind)
	}
}

func TestRunDegradedSecondPass(t *testing.T) {
	imageOnly := &fakeStrategy{name: "images", items: []Media{{URL: "https://cdn/cover.jpg", Kind: KindImage}}}
	empty := &fakeStrategy{name: "empty"}
	o := testOrchestrator(imageOnly, empty)

	out := o.Run(context.Background(), &Request{Hint: ContentReel, ExpectsVideo: true})
	if out.Empty() {
		t.Fatal("expected degraded pass to return the cover image")
	}
	if out.Strategy != "images" {
		t.Fatalf("expected images strategy on second pass, got %q", out.Strategy)
	}
	if imageOnly.calls != 2 {
		t.Fatalf("expected two attempts against images strategy, got %d", imageOnly.calls)
	}
}

func TestRunAllEmpty(t *testing.T) {
	a := &fakeStrategy{name: "a"}
	b := &fakeStrategy{name: "b"}
	o := testOrchestrator(a, b)

	out := o.Run(context.Background(), &Request{Hint: ContentPost})
	if !out.Empty() {
		t.Fatalf("expected empty outcome, got %+v", out)
	}
}

func TestRunCancelledContext(t *testing.T) {
	s := &fakeStrategy{name: "a", items: []Media{{URL: "https://cdn/a.jpg", Kind: KindImage}}}
	o := testOrchestrator(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := o.Run(ctx, &Request{Hint: ContentPost})
	if !out.Empty() {
		t.Fatal("expected no outcome after cancellation")
	}
	if s.calls != 0 {
		t.Fatalf("cancelled run should not attempt strategies, calls = %d", s.calls)
	}
}

func TestRunProfileShortcut(t *testing.T) {
	chain := &fakeStrategy{name: "chain", items: []Media{{URL: "https://cdn/post.jpg", Kind: KindImage}}}
	profile := &fakeStrategy{name: "profile", items: []Media{{URL: "https://cdn/avatar.jpg", Kind: KindImage}}}
	o := testOrchestrator(chain)
	o.profile = profile

	out := o.Run(context.Background(), &Request{Hint: ContentProfile, Username: "nasa"})
	if out.Strategy != "profile" {
		t.Fatalf("expected profile strategy, got %q", out.Strategy)
	}
	if chain.calls != 0 {
		t.Fatalf("post chain must not run for profile requests, calls = %d", chain.calls)
	}
}

func TestRunProfileFallsBackToPage(t *testing.T) {
	profile := &fakeStrategy{name: "profile"}
	page := &fakeStrategy{name: "page", items: []Media{{URL: "https://cdn/avatar.jpg", Kind: KindImage}}}
	o := testOrchestrator()
	o.profile = profile
	o.lastResort = page

	out := o.Run(context.Background(), &Request{Hint: ContentProfile, Username: "nasa"})
	if out.Strategy != "page" {
		t.Fatalf("expected page fallback, got %q", out.Strategy)
	}
}

func TestPaceRespectsCancellation(t *testing.T) {
	o := testOrchestrator()
	o.pacingMax = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	o.pace(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("pace did not abort on cancellation, took %s", elapsed)
	}
}
