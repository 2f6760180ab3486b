package frametime

import (
	"context"
	"fmt"

	"dnnbrain/internal/services"
)

// Source is the video-handle capability the schedule computation reads from.
// Implementations report the stimulus video's frame rate in frames per second
// and its total frame count.
type Source interface {
	FrameRate(ctx context.Context) (float64, error)
	FrameCount(ctx context.Context) (int64, error)
}

// Schedule holds the frames of interest for an experiment run: their 1-based
// sequence numbers, their onsets relative to the beginning of the recorded
// response, and their display durations. The three slices are always the same
// length, and Onsets[i+1] == Onsets[i] + Durations[i].
type Schedule struct {
	FrameNums []int64
	Onsets    []float64
	Durations []float64
}

// Len returns the number of sampled frames.
func (s Schedule) Len() int {
	return len(s.FrameNums)
}

type options struct {
	interval  int
	beforeVid float64
	afterVid  float64
}

// Option customizes a schedule computation.
type Option func(*options)

// WithInterval samples one frame per interval frames. The default is 1,
// sampling every frame. Compute rejects values below 1.
func WithInterval(interval int) Option {
	return func(o *options) {
		o.interval = interval
	}
}

// WithBeforeVideo displays the first frame as a static picture for the given
// number of seconds before the video starts.
func WithBeforeVideo(seconds float64) Option {
	return func(o *options) {
		o.beforeVid = seconds
	}
}

// WithAfterVideo displays the last frame as a static picture for the given
// number of seconds after the video ends.
func WithAfterVideo(seconds float64) Option {
	return func(o *options) {
		o.afterVid = seconds
	}
}

// Compute derives the frame schedule for a stimulus video according to the
// experimental design. originalOnset is the first stimulus' time point
// relative to the beginning of the recorded response; it is negative when the
// stimulus started before the response window. For example, if the response
// begins 14 seconds after the first stimulus, originalOnset is -14.
//
// The source is queried once for frame rate and frame count; any source
// failure aborts the computation and propagates to the caller.
func Compute(ctx context.Context, src Source, originalOnset float64, opts ...Option) (Schedule, error) {
	o := options{interval: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval < 1 {
		return Schedule{}, services.Invalidf("'interval' must be a positive integer, got %d", o.interval)
	}

	fps, err := src.FrameRate(ctx)
	if err != nil {
		return Schedule{}, fmt.Errorf("read frame rate: %w", err)
	}
	nFrame, err := src.FrameCount(ctx)
	if err != nil {
		return Schedule{}, fmt.Errorf("read frame count: %w", err)
	}
	if fps <= 0 {
		return Schedule{}, services.Wrap(services.ErrFileFormat, "frametime", "compute", fmt.Sprintf("video reports non-positive frame rate %v", fps), nil)
	}
	if nFrame < 1 {
		return Schedule{}, services.Wrap(services.ErrFileFormat, "frametime", "compute", fmt.Sprintf("video reports no frames (%d)", nFrame), nil)
	}

	// Frame numbering is 1-based.
	count := int((nFrame-1)/int64(o.interval)) + 1
	frameNums := make([]int64, 0, count)
	for n := int64(1); n <= nFrame; n += int64(o.interval) {
		frameNums = append(frameNums, n)
	}

	duration := float64(o.interval) / fps
	durations := make([]float64, len(frameNums))
	for i := range durations {
		durations[i] = duration
	}
	durations[0] += o.beforeVid
	durations[len(durations)-1] += o.afterVid

	onsets := make([]float64, len(frameNums))
	onsets[0] = originalOnset
	for i := 1; i < len(onsets); i++ {
		onsets[i] = onsets[i-1] + durations[i-1]
	}

	return Schedule{FrameNums: frameNums, Onsets: onsets, Durations: durations}, nil
}
