package source

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"log/slog"

	"clipper/internal/cut"
	"clipper/internal/fileutil"
	"clipper/internal/logging"
	"clipper/internal/probecache"
	"clipper/internal/quality"
	"clipper/internal/services/ytdlp"
)

// Handle is the single locally materialized source for a run. It is
// read-only for its whole lifetime and shared by every cut job; Release
// reclaims the workspace after the last job finishes.
type Handle struct {
	path    string
	workdir string
	quality quality.Resolved
	keep    bool

	releaseOnce sync.Once
	releaseErr  error
}

// Path returns the local media file.
func (h *Handle) Path() string { return h.path }

// Quality returns the resolved source quality.
func (h *Handle) Quality() quality.Resolved { return h.quality }

// Release reclaims the run workspace. It is idempotent and a no-op when the
// handle was acquired with keep.
func (h *Handle) Release() error {
	h.releaseOnce.Do(func() {
		if h.keep || h.workdir == "" {
			return
		}
		h.releaseErr = fileutil.RemoveAllUnder(h.workdir)
	})
	return h.releaseErr
}

// ProbeStore is the cache surface the acquirer consumes.
type ProbeStore interface {
	Lookup(ctx context.Context, url string) (probecache.Entry, bool, error)
	Store(ctx context.Context, entry probecache.Entry) error
}

// Option configures the acquirer.
type Option func(*Acquirer)

// WithCache enables probe result caching.
func WithCache(cache ProbeStore) Option {
	return func(a *Acquirer) { a.cache = cache }
}

// WithLogger sets the acquirer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Acquirer) { a.logger = logger }
}

// Acquirer resolves a video URL into availability data and, once a quality
// is negotiated, into a local Handle. Acquisition is a single whole-run
// step; it is never retried.
type Acquirer struct {
	prober     ytdlp.Prober
	downloader ytdlp.Downloader
	cache      ProbeStore
	logger     *slog.Logger
}

// NewAcquirer constructs an acquirer over the yt-dlp client surfaces.
func NewAcquirer(prober ytdlp.Prober, downloader ytdlp.Downloader, opts ...Option) *Acquirer {
	a := &Acquirer{prober: prober, downloader: downloader, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.NewComponentLogger(a.logger, "source")
	return a
}

// Availability probes the URL's height sets, consulting the cache first.
func (a *Acquirer) Availability(ctx context.Context, url string) (quality.Availability, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return quality.Availability{}, errors.New("video URL required")
	}

	logger := logging.WithContext(ctx, a.logger)
	if a.cache != nil {
		entry, found, err := a.cache.Lookup(ctx, url)
		if err != nil {
			logger.Warn("probe cache lookup failed; probing directly", logging.Error(err))
		} else if found {
			logger.Debug("probe cache hit",
				logging.Int("h264_mp4_heights", len(entry.H264MP4)),
				logging.Int("all_heights", len(entry.All)))
			return quality.Availability{FastCopy: entry.H264MP4, All: entry.All}, nil
		}
	}

	result, err := a.prober.Probe(ctx, url)
	if err != nil {
		return quality.Availability{}, err
	}

	if a.cache != nil {
		entry := probecache.Entry{
			URL:      url,
			H264MP4:  result.H264MP4,
			All:      result.All,
			CachedAt: time.Now().UTC(),
		}
		if err := a.cache.Store(ctx, entry); err != nil {
			logger.Warn("probe cache store failed", logging.Error(err))
		}
	}
	return quality.Availability{FastCopy: result.H264MP4, All: result.All}, nil
}

// Acquire downloads the source at the negotiated quality into workdir and
// returns the shared Handle.
func (a *Acquirer) Acquire(ctx context.Context, url string, resolved quality.Resolved, strategy cut.Strategy, workdir string, keep bool) (*Handle, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("video URL required")
	}
	if workdir == "" {
		return nil, errors.New("workdir required")
	}

	logger := logging.WithContext(ctx, a.logger)
	selection := ytdlp.SelectFormat(resolved.Height, strategy)
	logger.Info("downloading source",
		logging.Int("height", resolved.Height),
		logging.String("strategy", strategy.String()),
		logging.String("workdir", workdir))

	path, err := a.downloader.Download(ctx, url, selection, workdir)
	if err != nil {
		// The workspace holds at most partial downloads; reclaim it so an
		// aborted run leaves nothing behind.
		_ = fileutil.RemoveAllUnder(workdir)
		return nil, err
	}

	logger.Info("source ready", logging.String("path", path))
	return &Handle{path: path, workdir: workdir, quality: resolved, keep: keep}, nil
}
