// Package pdf prints HTML pages to PDF with a headless Chrome.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches, as Chrome expects it.
const (
	A4WidthInches  = 8.27
	A4HeightInches = 11.69
)

// Options tune the rasterizer.
type Options struct {
	Timeout time.Duration
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
	// ExtraFlags are passed to Chrome, e.g. "no-sandbox" in containers.
	ExtraFlags []string
}

// Rasterizer converts HTML documents to A4 PDFs.
type Rasterizer struct {
	opts Options
}

// NewRasterizer creates a rasterizer; a zero timeout means 30 seconds.
func NewRasterizer(opts Options) *Rasterizer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Rasterizer{opts: opts}
}

// ErrEmptyDocument is returned for an empty HTML input.
var ErrEmptyDocument = errors.New("pdf: empty document")

// Render loads html in a headless browser and prints it edge to edge on
// A4 portrait paper.
func (r *Rasterizer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if len(html) == 0 {
		return nil, ErrEmptyDocument
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if r.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ExecPath))
	}
	for _, flag := range r.opts.ExtraFlags {
		allocOpts = append(allocOpts, chromedp.Flag(flag, true))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, r.opts.Timeout)
	defer cancel()

	url, stop, err := serve(html)
	if err != nil {
		return nil, err
	}
	defer stop()

	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(A4WidthInches).
				WithPaperHeight(A4HeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf: print page: %w", err)
	}
	return buf, nil
}

// serve exposes html on a loopback port for the browser to load.
func serve(html []byte) (string, func(), error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("pdf: listen: %w", err)
	}

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go server.Serve(listener)

	url := fmt.Sprintf("http://%s/", listener.Addr().String())
	return url, func() { _ = server.Close() }, nil
}
