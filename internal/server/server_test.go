package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"instafetch/internal/instagram"
	"instafetch/internal/telemetry"
)

type fakeExtractor struct {
	out  instagram.Outcome
	last *instagram.Request
}

func (f *fakeExtractor) Run(ctx context.Context, req *instagram.Request) instagram.Outcome {
	f.last = req
	return f.out
}

func testServer(t *testing.T, apiKey string, ex Extractor) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s := NewServer(0, apiKey, ex, telemetry.Nop{}, logger)
	s.setupEngine()

	srv := httptest.NewServer(s.engine)
	t.Cleanup(srv.Close)
	return srv
}

func postExtract(t *testing.T, srv *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/extract", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestExtractSuccess(t *testing.T) {
	ex := &fakeExtractor{out: instagram.Outcome{
		Items:    []instagram.Media{{URL: "https://cdn.example/reel.mp4", Thumbnail: "https://cdn.example/cover.jpg", Kind: instagram.KindVideo}},
		Strategy: "graphql",
	}}
	srv := testServer(t, "", ex)

	resp := postExtract(t, srv, `{"url": "https://www.instagram.com/reel/DHtest123/", "tool": "video"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result instagram.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.URL != "https://cdn.example/reel.mp4" {
		t.Fatalf("unexpected url %q", result.URL)
	}
	if result.Type != "video" {
		t.Fatalf("unexpected type %q", result.Type)
	}
	if ex.last == nil || ex.last.Shortcode != "DHtest123" {
		t.Fatalf("extractor did not receive classified request: %+v", ex.last)
	}
}

func TestExtractInvalidHost(t *testing.T) {
	ex := &fakeExtractor{}
	srv := testServer(t, "", ex)

	resp := postExtract(t, srv, `{"url": "https://example.com/p/abc/"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if ex.last != nil {
		t.Fatal("extractor must not run for rejected URLs")
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message == "" {
		t.Fatal("expected an error message")
	}
}

func TestExtractMissingURL(t *testing.T) {
	srv := testServer(t, "", &fakeExtractor{})

	resp := postExtract(t, srv, `{"tool": "video"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractExhausted(t *testing.T) {
	srv := testServer(t, "", &fakeExtractor{})

	resp := postExtract(t, srv, `{"url": "https://www.instagram.com/p/DHtest123/", "tool": "story"}`, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message != instagram.MessageFor("story") {
		t.Fatalf("expected story-specific message, got %q", body.Message)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	srv := testServer(t, "secret", &fakeExtractor{})

	resp := postExtract(t, srv, `{"url": "https://www.instagram.com/p/DHtest123/"}`, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}

	resp = postExtract(t, srv, `{"url": "https://www.instagram.com/p/DHtest123/"}`, map[string]string{"X-API-Key": "secret"})
	if resp.StatusCode == http.StatusUnauthorized {
		t.Fatal("valid key rejected")
	}

	healthResp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Fatalf("health must not require auth, got %d", healthResp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t, "", &fakeExtractor{})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Version == "" {
		t.Fatalf("unexpected health body %+v", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
}
