package display

import (
	"fmt"
	"os"

	"github.com/jberkman/foilrun/internal/term"
)

// PrintBanner prints the ASCII art banner; colored when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, "\033[1;96m")
	}
	fmt.Fprint(os.Stdout, `  __       _ _
 / _| ___ (_) |_ __ _   _ _ __
| |_ / _ \| | | '__| | | | '_ \
|  _| (_) | | | |  | |_| | | | |
|_|  \___/|_|_|_|   \__,_|_| |_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, "\033[0m")
	}
}
