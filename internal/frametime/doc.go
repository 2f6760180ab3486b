// Package frametime computes frame sampling schedules for video stimuli used
// in brain-response experiments.
//
// Given a video's frame rate and frame count plus the experiment timing
// parameters, Compute produces the 1-based sequence numbers of the frames of
// interest together with their onsets and display durations in experiment
// time. Onsets accumulate left to right from the original onset so the
// schedule reproduces the original design numerically.
package frametime
