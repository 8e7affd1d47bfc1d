package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gbraad-go/samplecrate/internal/midiconnector"
	"github.com/gbraad-go/samplecrate/internal/sysexproto"
)

func newSysexSendCommand() *cobra.Command {
	var (
		target  int
		command string
		dataCSV string
		device  string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "sysex-send",
		Short: "Build a SysEx frame (F0 7D <target> <cmd> <data> F7) and send it, or print it with --dry-run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target < 0 || target > 0x7F {
				return fmt.Errorf("--target must be 0..127")
			}
			cmdByte, err := parseByte(command)
			if err != nil {
				return fmt.Errorf("--cmd: %w", err)
			}
			data, err := parseByteList(dataCSV)
			if err != nil {
				return fmt.Errorf("--data: %w", err)
			}

			frame, err := sysexproto.Build(byte(target), sysexproto.Command(cmdByte), data)
			if err != nil {
				return err
			}

			if dryRun || device == "" {
				fmt.Println(formatHex(frame))
				return nil
			}

			dev, err := midiconnector.New(device)
			if err != nil {
				return fmt.Errorf("opening device %q: %w", device, err)
			}
			if err := dev.Open(); err != nil {
				return fmt.Errorf("opening device %q: %w", device, err)
			}
			defer dev.Close()

			if err := dev.Send(frame); err != nil {
				return fmt.Errorf("sending frame: %w", err)
			}
			fmt.Printf("sent %d bytes to %q: %s\n", len(frame), device, formatHex(frame))
			return nil
		},
	}

	cmd.Flags().IntVar(&target, "target", int(sysexproto.BroadcastDevice), "target device id (0-127, 127=broadcast)")
	cmd.Flags().StringVar(&command, "cmd", "0x01", "command byte, e.g. 0x20 for PLAY")
	cmd.Flags().StringVar(&dataCSV, "data", "", "comma-separated hex/decimal data bytes, e.g. 0x01,2,0x7F")
	cmd.Flags().StringVar(&device, "device", "", "MIDI output device name (fuzzy match); omit to just print the frame")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the built frame instead of sending it")

	return cmd
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func parseByteList(csv string) ([]byte, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		b, err := parseByte(p)
		if err != nil {
			return nil, fmt.Errorf("byte %q: %w", p, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func formatHex(frame []byte) string {
	var sb strings.Builder
	for i, b := range frame {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
