package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/poptui/internal/popup"
)

var kindsOpts struct {
	format string
}

// kindInfo is the printable form of a transition kind.
type kindInfo struct {
	Kind  string `json:"kind" yaml:"kind"`
	InMS  int64  `json:"in_ms" yaml:"in_ms"`
	OutMS int64  `json:"out_ms" yaml:"out_ms"`
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List transition kinds and their durations",
	Long: `List every transition kind a popup can show or hide with, and how long
each takes in each direction. The overlay fades over 300ms alongside any
animated kind.

Use the kind names in the config file (show_animation, hide_animation).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printKinds(cmd.OutOrStdout(), kindsOpts.format)
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)

	kindsCmd.Flags().StringVarP(&kindsOpts.format, "format", "f", formatPlain,
		"Output format (plain, json, yaml)")
}

func printKinds(w io.Writer, format string) error {
	timings := popup.Timings()
	infos := make([]kindInfo, 0, len(timings))
	for _, t := range timings {
		infos = append(infos, kindInfo{
			Kind:  t.Kind.String(),
			InMS:  t.In.Milliseconds(),
			OutMS: t.Out.Milliseconds(),
		})
	}

	return writeOutput(w, format, infos, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tIN\tOUT")
		for _, t := range timings {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Kind, t.In, t.Out)
		}
		return tw.Flush()
	})
}
