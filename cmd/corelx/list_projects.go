package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gbraad-go/samplecrate/internal/music"
	"github.com/gbraad-go/samplecrate/internal/projectfind"
	"github.com/gbraad-go/samplecrate/internal/rsx"
)

func newListProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-projects <root>",
		Short: "Walk a directory tree for RSX project files and print their program/pad layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := projectfind.Find(args[0])
			if len(projects) == 0 {
				fmt.Println("no RSX projects found")
				return nil
			}

			for _, p := range projects {
				fmt.Printf("%s\n", p.Dir)
				fmt.Printf("  rsx:       %s\n", p.RSXFile)
				fmt.Printf("  sequences: %v\n", p.HasSequence)

				doc, err := rsx.LoadFile(p.RSXFile)
				if err != nil {
					fmt.Printf("  (failed to parse: %v)\n", err)
					continue
				}
				for i, prog := range doc.Programs {
					if prog.Name == "" && prog.File == "" {
						continue
					}
					fmt.Printf("  program %d: %q file=%q volume=%.2f pan=%.2f\n", i+1, prog.Name, prog.File, prog.Volume, prog.Pan)
				}
				for i, pad := range doc.Pads {
					if !pad.Enabled && pad.Description == "" {
						continue
					}
					fmt.Printf("  pad %2d: note=%s (%3d) %q program=%d\n", i+1, music.MidiToNoteName(pad.Note), pad.Note, pad.Description, pad.Program)
				}
				if p.HasSequence {
					for _, seqFile := range projectfind.SequenceFiles(p) {
						fmt.Printf("  sequence file: %s\n", seqFile)
					}
				}
			}
			return nil
		},
	}
	return cmd
}
