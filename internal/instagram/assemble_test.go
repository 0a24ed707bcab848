package instagram

import (
	"testing"
	"time"
)

var assembleNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func TestDedupe(t *testing.T) {
	items := []Media{
		{URL: "https://cdn/a.mp4", Kind: KindVideo},
		{URL: "https://cdn/b.jpg", Kind: KindImage},
		{URL: "https://cdn/a.mp4", Kind: KindVideo},
		{URL: "https://cdn/b.jpg", Kind: KindImage},
	}
	got := Dedupe(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 unique items, got %d", len(got))
	}
	if got[0].URL != "https://cdn/a.mp4" || got[1].URL != "https://cdn/b.jpg" {
		t.Fatalf("dedupe broke ordering: %+v", got)
	}
	if again := Dedupe(got); len(again) != len(got) {
		t.Fatalf("dedupe is not idempotent: %d vs %d", len(again), len(got))
	}
}

func TestAssembleSingleVideo(t *testing.T) {
	res := Assemble([]Media{
		{URL: "https://cdn/reel.mp4", Thumbnail: "https://cdn/cover.jpg", Kind: KindVideo},
	}, assembleNow)

	if res.URL != "https://cdn/reel.mp4" {
		t.Fatalf("unexpected primary url %q", res.URL)
	}
	if res.Thumbnail != "https://cdn/cover.jpg" {
		t.Fatalf("unexpected thumbnail %q", res.Thumbnail)
	}
	if res.Filename != "instagram_video_20250314_092653.mp4" {
		t.Fatalf("unexpected filename %q", res.Filename)
	}
	if res.Type != "video" {
		t.Fatalf("unexpected type %q", res.Type)
	}
	if res.Items != nil {
		t.Fatalf("single result must not carry items, got %d", len(res.Items))
	}
}

func TestAssembleCarousel(t *testing.T) {
	res := Assemble([]Media{
		{URL: "https://cdn/1.jpg", Kind: KindImage},
		{URL: "https://cdn/2.mp4", Thumbnail: "https://cdn/2.jpg", Kind: KindVideo},
		{URL: "https://cdn/3.jpg", Kind: KindImage},
	}, assembleNow)

	if res.URL != "https://cdn/1.jpg" {
		t.Fatalf("primary must be the first item, got %q", res.URL)
	}
	if len(res.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(res.Items))
	}
	if res.Items[0].Filename != "instagram_image_20250314_092653.jpg" {
		t.Fatalf("unexpected first filename %q", res.Items[0].Filename)
	}
	if res.Items[1].Filename != "instagram_video_20250314_092653_1.mp4" {
		t.Fatalf("unexpected second filename %q", res.Items[1].Filename)
	}
	if res.Items[2].Filename != "instagram_image_20250314_092653_2.jpg" {
		t.Fatalf("unexpected third filename %q", res.Items[2].Filename)
	}
	if res.Items[1].Type != "video" {
		t.Fatalf("unexpected type for video item: %q", res.Items[1].Type)
	}
}

func TestAssembleVideoThumbnailFromSiblingImage(t *testing.T) {
	res := Assemble([]Media{
		{URL: "https://cdn/clip.mp4", Kind: KindVideo},
		{URL: "https://cdn/still.jpg", Kind: KindImage},
	}, assembleNow)

	if res.Thumbnail != "https://cdn/still.jpg" {
		t.Fatalf("expected sibling image as thumbnail, got %q", res.Thumbnail)
	}
}

func TestAssembleImageIsItsOwnThumbnail(t *testing.T) {
	res := Assemble([]Media{{URL: "https://cdn/photo.jpg", Kind: KindImage}}, assembleNow)
	if res.Thumbnail != "https://cdn/photo.jpg" {
		t.Fatalf("expected image to be its own thumbnail, got %q", res.Thumbnail)
	}
}

func TestAssembleEmpty(t *testing.T) {
	res := Assemble(nil, assembleNow)
	if res.URL != "" || res.Items != nil {
		t.Fatalf("expected zero result, got %+v", res)
	}
}
