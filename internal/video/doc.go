// Package video provides the concrete video handle backing schedule
// computation.
//
// File wraps a stimulus video path with an ffprobe-backed, lazily-memoized
// metadata probe and an optional persistent cache. It implements
// frametime.Source, so experiment code never touches ffprobe directly.
package video
