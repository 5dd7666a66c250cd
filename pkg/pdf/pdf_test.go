package pdf

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestNewRasterizer_DefaultTimeout(t *testing.T) {
	r := NewRasterizer(Options{})
	if r.opts.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", r.opts.Timeout)
	}
}

func TestRender_EmptyDocument(t *testing.T) {
	_, err := NewRasterizer(Options{}).Render(context.Background(), nil)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestServe(t *testing.T) {
	url, stop, err := serve([]byte("<p>bill</p>"))
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	defer stop()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "<p>bill</p>" {
		t.Errorf("body = %q", body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
}
