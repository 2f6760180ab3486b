package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dnnbrain/internal/logging"
	"dnnbrain/internal/mask"
)

func newMaskCommand(ctx *commandContext) *cobra.Command {
	maskCmd := &cobra.Command{
		Use:   "mask",
		Short: "Build and inspect DNN layer/channel masks",
	}

	maskCmd.AddCommand(newMaskBuildCommand(ctx))
	maskCmd.AddCommand(newMaskShowCommand(ctx))

	return maskCmd
}

func newMaskBuildCommand(ctx *commandContext) *cobra.Command {
	var layers []string
	var channels []int
	var fromFile string
	var outFile string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a mask from layers and channels or from a mask file",
		Long: `Build a mask either from explicit --layer/--channel flags or from an
existing mask file via --from. With a single --layer, every --channel belongs
to that layer. With several --layer flags and matching --channel flags, each
layer takes its positional channel. Without --channel, every named layer is
selected with all channels.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var layerArg []string
			if cmd.Flags().Changed("layer") {
				layerArg = layers
			}
			var channelArg []int
			if cmd.Flags().Changed("channel") {
				channelArg = channels
			}

			m, err := mask.Build(layerArg, channelArg, fromFile)
			if err != nil {
				return err
			}
			for _, layer := range m.Layers() {
				chns, _ := m.Get(layer)
				logger.Debug("layer selected",
					logging.String(logging.FieldLayer, layer),
					logging.Int("channels", len(chns)))
			}

			if outFile != "" {
				if err := m.Save(outFile); err != nil {
					return err
				}
				logger.Info("mask written",
					logging.String(logging.FieldMaskFile, outFile),
					logging.Int("layers", m.Len()))
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote mask with %d layer(s) to %s\n", m.Len(), outFile)
				return nil
			}

			return writeMask(cmd, m)
		},
	}

	cmd.Flags().StringArrayVar(&layers, "layer", nil, "Layer name to select (repeatable)")
	cmd.Flags().IntSliceVar(&channels, "channel", nil, "Channel number to select (repeatable)")
	cmd.Flags().StringVar(&fromFile, "from", "", "Build from an existing mask file instead of flags")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the mask to this file instead of stdout")

	return cmd
}

func newMaskShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Display the layers and channels selected by a mask file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			m := mask.New()
			if err := m.Load(args[0]); err != nil {
				return err
			}
			return writeMask(cmd, m)
		},
	}
}

func writeMask(cmd *cobra.Command, m *mask.Mask) error {
	out := cmd.OutOrStdout()
	if !stdoutIsTerminal() {
		return m.Write(out)
	}

	rows := make([][]string, 0, m.Len())
	for _, layer := range m.Layers() {
		channels, _ := m.Get(layer)
		selection := "all"
		if channels != nil {
			parts := make([]string, len(channels))
			for i, chn := range channels {
				parts[i] = strconv.Itoa(chn)
			}
			selection = strings.Join(parts, ", ")
		}
		rows = append(rows, []string{layer, selection})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Layer", "Channels"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
	return nil
}
