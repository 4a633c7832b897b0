package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avrprog/stk500v1/programmer"
)

// exitCode turns a ProgramHexFile error into a process exit code per
// the usage/IO/protocol/verify taxonomy: 0 success, 1 usage error, 2
// I/O or port error, 3 protocol error, 4 verification failure.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch programmer.Classify(err) {
	case programmer.KindUsage:
		return 1
	case programmer.KindHexParse, programmer.KindPortError, programmer.KindIO:
		return 2
	case programmer.KindSyncTimeout, programmer.KindSignatureMismatch,
		programmer.KindProtocol, programmer.KindWriteFailed, programmer.KindCancelled:
		return 3
	case programmer.KindVerifyMismatch:
		return 4
	default:
		return 2
	}
}

// run builds the command tree, executes it, and returns the process
// exit code. Split out from main so tests can drive it without
// calling os.Exit.
func run() int {
	logger := logrus.New()

	root := &cobra.Command{
		Use:           "avrstk",
		Short:         "Program AVR targets over STK500v1",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	root.AddCommand(newProgramCmd(logger))

	code := 0
	if err := root.Execute(); err != nil {
		logger.WithError(err).Error("avrstk failed")
		code = exitCode(err)
	}
	return code
}
