package util

import (
	"fmt"
	"io"
)

// PauseIfGUI waits for a key press when the process owns a console window
// that would otherwise close before msg can be read.
func PauseIfGUI(in io.Reader, out io.Writer, msg string) {
	if !IsRunFromGUI() {
		return
	}
	if msg != "" {
		fmt.Fprintln(out, msg)
	}
	fmt.Fprintln(out, "Press enter to exit...")
	b := make([]byte, 1)
	_, _ = in.Read(b)
}
