package display

import (
	"fmt"
	"os"

	"github.com/backmassage/vidfeed/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, `       _     _  __               _
__   _(_) __| |/ _| ___  ___  __| |
\ \ / / |/ _`+"`"+` | |_ / _ \/ _ \/ _`+"`"+` |
 \ V /| | (_| |  _|  __/  __/ (_| |
  \_/ |_|\__,_|_|  \___|\___|\__,_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
