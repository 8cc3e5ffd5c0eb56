package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/poptui/internal/geom"
)

var placeOpts struct {
	container string
	size      string
	anchor    string
	safeArea  string
	format    string
}

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Compute where a popup is auto-placed",
	Long: `Compute the frame of an auto-placed popup. The popup's origin is

  container.origin + (container.size - size) * anchor

with the anchor clamped to [0,1]; 0.5,0.5 centres the popup.

Examples:
  # Centre a 40x9 popup on an 80x24 terminal
  poptui place --container 0,0,80,24 --size 40,9

  # Bottom of the screen, keeping the last row clear
  poptui place --container 0,0,80,24 --size 40,9 --anchor 0.5,1 --safe-area 0,1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlace(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(placeCmd)

	placeCmd.Flags().StringVar(&placeOpts.container, "container", "",
		"Container rectangle as x,y,w,h (required)")
	placeCmd.Flags().StringVar(&placeOpts.size, "size", "",
		"Popup size as w,h (required)")
	placeCmd.Flags().StringVar(&placeOpts.anchor, "anchor", "0.5,0.5",
		"Relative anchor as x,y")
	placeCmd.Flags().StringVar(&placeOpts.safeArea, "safe-area", "",
		"Rows to keep clear as top,bottom")
	placeCmd.Flags().StringVarP(&placeOpts.format, "format", "f", formatPlain,
		"Output format (plain, json, yaml)")
	_ = placeCmd.MarkFlagRequired("container")
	_ = placeCmd.MarkFlagRequired("size")
}

func runPlace(w io.Writer) error {
	container, err := geom.ParseRect(placeOpts.container)
	if err != nil {
		return err
	}
	size, err := geom.ParseSize(placeOpts.size)
	if err != nil {
		return err
	}
	anchor, err := geom.ParsePoint(placeOpts.anchor)
	if err != nil {
		return fmt.Errorf("invalid anchor: %w", err)
	}
	if placeOpts.safeArea != "" {
		rows, err := geom.ParsePoint(placeOpts.safeArea)
		if err != nil {
			return fmt.Errorf("invalid safe area: %w", err)
		}
		container = container.Inset(geom.Insets{Top: rows.X, Bottom: rows.Y})
	}

	frame := geom.Place(container, size, anchor)
	return writeOutput(w, placeOpts.format, frame, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%g,%g,%g,%g\n", frame.X, frame.Y, frame.W, frame.H)
		return err
	})
}
