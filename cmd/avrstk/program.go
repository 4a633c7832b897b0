package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"

	"github.com/avrprog/stk500v1/boards"
	"github.com/avrprog/stk500v1/hexfile"
	"github.com/avrprog/stk500v1/programmer"
	"github.com/avrprog/stk500v1/target"
)

func newProgramCmd(logger *logrus.Logger) *cobra.Command {
	var board, firmware, port string
	var baud int

	cmd := &cobra.Command{
		Use:   "program",
		Short: "Program a target's flash from an Intel HEX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			if firmware == "" {
				return programmer.ErrMissingFirmware
			}
			if board == "" && port == "" {
				return programmer.ErrMissingTarget
			}

			var prog *programmer.Programmer
			if board != "" {
				p, err := programmer.NewFromBoard(board, programmer.WithLogger(logger))
				if err != nil {
					return fmt.Errorf("avrstk: %w (known boards: %v)", err, boards.IDs())
				}
				prog = p
			} else {
				prog = programmer.New(target.Params{}, programmer.WithLogger(logger))
			}

			resolvedPort := port
			if resolvedPort == "" {
				detected, err := detectPort(prog.Params())
				if err != nil {
					return err
				}
				resolvedPort = detected
			}
			prog.SetPort(resolvedPort)
			prog.SetBaud(baud)
			prog.SetProgressBar(true)

			if img, err := hexfile.Decode(firmware); err == nil {
				if lo, hi, ok := img.Range(); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "wrote 0x%04X-0x%04X, %d bytes\n", lo, hi, int(hi)-int(lo)+1)
				}
			}

			return prog.ProgramHexFile(firmware)
		},
	}

	cmd.Flags().StringVarP(&board, "board", "b", "", "board identifier, e.g. uno")
	cmd.Flags().StringVarP(&firmware, "firmware", "f", "", "path to the Intel HEX firmware image (required)")
	cmd.Flags().StringVar(&port, "serial", "", "serial port device, overrides auto-detection")
	cmd.Flags().IntVar(&baud, "baudrate", 0, "link baud rate, overrides the board table")

	return cmd
}

// detectPort returns the first enumerated serial port whose VID:PID
// matches one of params.ProductID. It is deliberately minimal: a
// heuristic good enough to make the CLI runnable without --serial,
// not a general-purpose port picker.
func detectPort(params target.Params) (string, error) {
	if len(params.ProductID) == 0 {
		return "", fmt.Errorf("avrstk: no --serial given and board has no known USB ids to auto-detect with")
	}

	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("avrstk: enumerate serial ports: %w", err)
	}

	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		vid, pid, err := parseUSBIDs(p.VID, p.PID)
		if err != nil {
			continue
		}
		for _, known := range params.ProductID {
			if vid == known.VID && pid == known.PID {
				return p.Name, nil
			}
		}
	}
	return "", fmt.Errorf("avrstk: no connected port matched this board's known USB ids; pass --serial explicitly")
}

func parseUSBIDs(vidHex, pidHex string) (vid, pid uint16, err error) {
	if _, err = fmt.Sscanf(vidHex, "%x", &vid); err != nil {
		return 0, 0, err
	}
	if _, err = fmt.Sscanf(pidHex, "%x", &pid); err != nil {
		return 0, 0, err
	}
	return vid, pid, nil
}
