package transcript

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// pageSize is the most messages the platform returns per history request.
	pageSize = 100

	defaultImageConcurrency = 4

	defaultMaxImageBytes = 8 << 20
)

var errImageTooLarge = errors.New("image too large")

// ExporterOption configures the exporter.
type ExporterOption func(*exporter)

// WithRateLimit limits how fast history pages are requested.
func WithRateLimit(limit rate.Limit, burst int) ExporterOption {
	return func(e *exporter) {
		e.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithHTTPClient sets the client used to download images.
func WithHTTPClient(c *http.Client) ExporterOption {
	return func(e *exporter) {
		e.client = c
	}
}

// WithImageConcurrency sets how many images are downloaded at once.
func WithImageConcurrency(n int) ExporterOption {
	return func(e *exporter) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithMaxImageBytes sets the largest image that is inlined.
func WithMaxImageBytes(n int64) ExporterOption {
	return func(e *exporter) {
		e.maxImageBytes = n
	}
}

// WithClock sets the clock used for the generation timestamp.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *exporter) {
		e.now = now
	}
}

type exporter struct {
	l             *slog.Logger
	history       History
	limiter       *rate.Limiter
	client        *http.Client
	concurrency   int
	maxImageBytes int64
	renderer      *markdownRenderer
	now           func() time.Time
}

// NewExporter returns an Exporter reading from the given history.
func NewExporter(l *slog.Logger, history History, opts ...ExporterOption) Exporter {
	e := &exporter{
		l:             l,
		history:       history,
		limiter:       rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
		client:        &http.Client{Timeout: 10 * time.Second},
		concurrency:   defaultImageConcurrency,
		maxImageBytes: defaultMaxImageBytes,
		renderer:      newMarkdownRenderer(),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *exporter) Export(ctx context.Context, channelID string, opts Options) (*Archive, error) {
	msgs, err := e.fetch(ctx, channelID, opts.FullHistory)
	if err != nil {
		return nil, &ExportError{ChannelID: channelID, Err: err}
	}

	images := make(map[string]template.URL)
	if opts.EmbedImages {
		images = e.embedImages(ctx, msgs)
	}

	data, err := e.renderer.render(channelID, e.now(), msgs, images)
	if err != nil {
		return nil, &ExportError{ChannelID: channelID, Err: err}
	}

	e.l.Debug("Transcript exported",
		slog.String(logging.KeyChannel, channelID),
		slog.Int("messages", len(msgs)),
		slog.Int("images", len(images)),
	)

	return &Archive{
		Filename:     fmt.Sprintf("transcript-%s.html", channelID),
		ContentType:  "text/html; charset=utf-8",
		Data:         data,
		MessageCount: len(msgs),
	}, nil
}

// fetch reads the channel history and returns it oldest first.
func (e *exporter) fetch(ctx context.Context, channelID string, full bool) ([]*Message, error) {
	var (
		all    []*Message
		before string
	)

	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("error waiting for history rate limit: %w", err)
		}

		page, err := e.history.Before(ctx, channelID, before, pageSize)
		if err != nil {
			return nil, fmt.Errorf("error reading history before %q: %w", before, err)
		}
		all = append(all, page...)

		if !full || len(page) < pageSize {
			break
		}
		before = page[len(page)-1].ID
	}

	slices.Reverse(all)
	return all, nil
}

// embedImages downloads every image attachment. Images that cannot be downloaded are left out
// and rendered from their original URL.
func (e *exporter) embedImages(ctx context.Context, msgs []*Message) map[string]template.URL {
	var (
		mu     sync.Mutex
		images = make(map[string]template.URL)
		seen   = make(map[string]struct{})
		g      errgroup.Group
	)
	g.SetLimit(e.concurrency)

	for _, m := range msgs {
		for _, a := range m.Attachments {
			if !isImage(a) || a.URL == "" {
				continue
			}
			if _, ok := seen[a.URL]; ok {
				continue
			}
			seen[a.URL] = struct{}{}

			url := a.URL
			g.Go(func() error {
				src, err := e.fetchImage(ctx, url)
				if err != nil {
					e.l.Warn("Error embedding transcript image",
						slog.String("url", url),
						slog.String(logging.KeyError, err.Error()),
					)
					return nil
				}

				mu.Lock()
				images[url] = src
				mu.Unlock()
				return nil
			})
		}
	}

	// Every goroutine swallows its own error.
	_ = g.Wait()
	return images
}

func (e *exporter) fetchImage(ctx context.Context, url string) (template.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status downloading image: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading image: %w", err)
	}
	if int64(len(data)) > e.maxImageBytes {
		return "", errImageTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unexpected image content type %q", contentType)
	}

	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}
