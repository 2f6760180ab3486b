// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no dnnbrain-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns a parsed Result
//
// Helper methods on Result provide frame rate and frame count extraction,
// including the rational rate parsing ("30000/1001") and the duration-based
// frame count fallback for containers without nb_frames.
package ffprobe
