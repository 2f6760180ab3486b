package video

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"dnnbrain/internal/logging"
	"dnnbrain/internal/media/ffprobe"
	"dnnbrain/internal/probecache"
	"dnnbrain/internal/services"
)

// Metadata is the slice of probe output the toolkit consumes.
type Metadata struct {
	FrameRate       float64
	FrameCount      int64
	DurationSeconds float64
}

// File is an ffprobe-backed video handle. It satisfies frametime.Source:
// the file is probed lazily on first use and the result is memoized, so a
// schedule computation triggers at most one probe.
type File struct {
	path    string
	binary  string
	timeout time.Duration
	cache   *probecache.Cache
	logger  *slog.Logger

	mu     sync.Mutex
	meta   Metadata
	probed bool
}

// Option customizes a video handle.
type Option func(*File)

// WithBinary overrides the ffprobe executable.
func WithBinary(binary string) Option {
	return func(f *File) {
		f.binary = binary
	}
}

// WithTimeout bounds a single probe run.
func WithTimeout(timeout time.Duration) Option {
	return func(f *File) {
		f.timeout = timeout
	}
}

// WithCache consults and populates a probe cache around the ffprobe run.
func WithCache(cache *probecache.Cache) Option {
	return func(f *File) {
		f.cache = cache
	}
}

// WithLogger attaches a logger for probe diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *File) {
		f.logger = logger
	}
}

// Open creates a handle for the video at path. The file must exist; probing
// happens on first metadata access.
func Open(path string, opts ...Option) (*File, error) {
	f := &File{path: path, binary: "ffprobe", timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "video")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "video", "open", fmt.Sprintf("video file %s", path), err)
		}
		return nil, fmt.Errorf("stat video file: %w", err)
	}
	return f, nil
}

// Path returns the video file path.
func (f *File) Path() string {
	return f.path
}

// FrameRate returns the video's frame rate in frames per second.
func (f *File) FrameRate(ctx context.Context) (float64, error) {
	meta, err := f.Probe(ctx)
	if err != nil {
		return 0, err
	}
	return meta.FrameRate, nil
}

// FrameCount returns the video's total frame count.
func (f *File) FrameCount(ctx context.Context) (int64, error) {
	meta, err := f.Probe(ctx)
	if err != nil {
		return 0, err
	}
	return meta.FrameCount, nil
}

// Probe returns the video's metadata, consulting the cache first and running
// ffprobe on a miss. Successful results are memoized; failures are not, so a
// transient probe error does not poison the handle.
func (f *File) Probe(ctx context.Context) (Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.probed {
		return f.meta, nil
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat video file: %w", err)
	}
	size := info.Size()
	modTime := info.ModTime().UnixNano()

	if entry, found, err := f.cache.Lookup(ctx, f.path, size, modTime); err != nil {
		f.logger.Warn("probe cache lookup failed",
			logging.String(logging.FieldVideo, f.path),
			logging.Error(err))
	} else if found {
		f.meta = Metadata{
			FrameRate:       entry.FrameRate,
			FrameCount:      entry.FrameCount,
			DurationSeconds: entry.DurationSeconds,
		}
		f.probed = true
		return f.meta, nil
	}

	probeCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := ffprobe.Inspect(probeCtx, f.binary, f.path)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "video", "probe", f.path, err)
	}
	if result.VideoStreamCount() == 0 {
		return Metadata{}, services.Wrap(services.ErrFileFormat, "video", "probe", fmt.Sprintf("%s has no video stream", f.path), nil)
	}

	f.meta = Metadata{
		FrameRate:       result.FrameRate(),
		FrameCount:      result.FrameCount(),
		DurationSeconds: result.DurationSeconds(),
	}
	f.probed = true
	f.logger.Debug("probe complete",
		logging.String(logging.FieldVideo, f.path),
		logging.Float64("fps", f.meta.FrameRate),
		logging.Int64("frames", f.meta.FrameCount),
		logging.Duration("elapsed", time.Since(start)))

	if err := f.cache.Store(ctx, probecache.Entry{
		Path:            f.path,
		Size:            size,
		ModTime:         modTime,
		FrameRate:       f.meta.FrameRate,
		FrameCount:      f.meta.FrameCount,
		DurationSeconds: f.meta.DurationSeconds,
	}); err != nil {
		f.logger.Warn("probe cache store failed",
			logging.String(logging.FieldVideo, f.path),
			logging.Error(err))
	}

	return f.meta, nil
}
