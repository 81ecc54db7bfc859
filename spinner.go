package main

import (
	"fmt"
	"io"
	"time"

	"cfgseal/internal/ui"

	"github.com/briandowns/spinner"
)

// startSpinner shows progress during key derivation. It stays silent in
// verbose mode so log lines are not interleaved with the animation.
func startSpinner(out io.Writer, message string, verbose bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if !verbose {
			s.Stop()
		}
		if s.FinalMSG != "" {
			fmt.Fprint(out, ui.EnsureNewline(s.FinalMSG))
		}
	}
	return s, cleanup
}
