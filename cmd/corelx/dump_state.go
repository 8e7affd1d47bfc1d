package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gbraad-go/samplecrate/internal/snapshot"
)

func newDumpStateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state <path>",
		Short: "Print a gzip+JSON engine snapshot written by `serve`",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("saved_at: %s\n", state.SavedAt.Format("2006-01-02T15:04:05Z07:00"))
			fmt.Printf("bpm:      %.2f\n", state.BPM)
			fmt.Printf("pulse:    %d\n", state.Pulse)

			if len(state.Sequences) > 0 {
				fmt.Println("sequences:")
				for _, s := range state.Sequences {
					fmt.Printf("  [%2d] playing=%-5v phrase=%d\n", s.Index, s.Playing, s.CurrentPhrase)
				}
			}
			if len(state.Pads) > 0 {
				fmt.Println("pads:")
				for _, p := range state.Pads {
					fmt.Printf("  [%2d] playing=%v\n", p.Index, p.Playing)
				}
			}
			return nil
		},
	}
	return cmd
}
