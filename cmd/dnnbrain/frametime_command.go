package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dnnbrain/internal/frametime"
	"dnnbrain/internal/logging"
	"dnnbrain/internal/services"
	"dnnbrain/internal/video"
)

func newFrametimeCommand(ctx *commandContext) *cobra.Command {
	var onset float64
	var interval int
	var before float64
	var after float64
	var output string

	cmd := &cobra.Command{
		Use:   "frametime VIDEO",
		Short: "Compute the frame sampling schedule for a stimulus video",
		Long: `Compute per-frame sequence numbers, onsets, and durations for a stimulus
video according to the experimental design. Onsets are relative to the
beginning of the recorded response; use a negative --onset when the stimulus
started before the response window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			cache, err := ctx.openProbeCache(logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			handle, err := video.Open(args[0],
				video.WithBinary(cfg.FFprobe.Binary),
				video.WithTimeout(time.Duration(cfg.FFprobe.TimeoutSeconds)*time.Second),
				video.WithCache(cache),
				video.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			schedule, err := frametime.Compute(cmd.Context(), handle, onset,
				frametime.WithInterval(interval),
				frametime.WithBeforeVideo(before),
				frametime.WithAfterVideo(after),
			)
			if err != nil {
				return err
			}

			logger.Info("schedule computed",
				logging.String(logging.FieldVideo, args[0]),
				logging.Int("frames", schedule.Len()))

			return writeSchedule(cmd, schedule, output)
		},
	}

	cmd.Flags().Float64Var(&onset, "onset", 0, "First stimulus' time point relative to the beginning of the response")
	cmd.Flags().IntVar(&interval, "interval", 1, "Sample one frame per this many frames")
	cmd.Flags().Float64Var(&before, "before", 0, "Seconds the first frame is shown as a static picture before the video")
	cmd.Flags().Float64Var(&after, "after", 0, "Seconds the last frame is shown as a static picture after the video")
	cmd.Flags().StringVarP(&output, "output", "o", "auto", "Output format: auto, table, csv, or json")

	return cmd
}

func writeSchedule(cmd *cobra.Command, schedule frametime.Schedule, output string) error {
	if output == "auto" {
		if stdoutIsTerminal() {
			output = "table"
		} else {
			output = "csv"
		}
	}

	out := cmd.OutOrStdout()
	switch output {
	case "table":
		rows := make([][]string, 0, schedule.Len())
		for i := 0; i < schedule.Len(); i++ {
			rows = append(rows, []string{
				strconv.FormatInt(schedule.FrameNums[i], 10),
				strconv.FormatFloat(schedule.Onsets[i], 'f', 6, 64),
				strconv.FormatFloat(schedule.Durations[i], 'f', 6, 64),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Frame", "Onset (s)", "Duration (s)"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignRight},
		))
		return nil
	case "csv":
		writer := csv.NewWriter(out)
		if err := writer.Write([]string{"frame_num", "onset", "duration"}); err != nil {
			return err
		}
		for i := 0; i < schedule.Len(); i++ {
			record := []string{
				strconv.FormatInt(schedule.FrameNums[i], 10),
				strconv.FormatFloat(schedule.Onsets[i], 'f', -1, 64),
				strconv.FormatFloat(schedule.Durations[i], 'f', -1, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	case "json":
		payload := struct {
			FrameNums []int64   `json:"frame_nums"`
			Onsets    []float64 `json:"onsets"`
			Durations []float64 `json:"durations"`
		}{schedule.FrameNums, schedule.Onsets, schedule.Durations}
		encoder := json.NewEncoder(out)
		return encoder.Encode(payload)
	default:
		return services.Invalidf("unknown output format %q", output)
	}
}
