package itc

import (
	"fmt"
	"io"

	"github.com/astro-stan/itc/event"
	"github.com/astro-stan/itc/id"
	"github.com/fatih/color"
)

// Colors for the console dump of a stamp's trees.
var (
	ownedColor   = color.New(color.FgGreen)
	nullColor    = color.New(color.FgHiBlack)
	counterColor = color.New(color.FgCyan)
	innerColor   = color.New(color.FgBlue)
)

// Dump writes an indented, colorized rendering of a stamp's two trees
// to w (for debugging purposes). Whether colors are emitted follows the
// color package's global setting, which turns them off when standard
// output is not a terminal; w itself is not inspected.
func Dump(s *Stamp, w io.Writer) {
	if s == nil || s.id == nil || s.ev == nil {
		fmt.Fprintln(w, "<void stamp>")
		return
	}
	fmt.Fprintln(w, "id:")
	dumpId(s.id, 1, w)
	fmt.Fprintln(w, "event:")
	dumpEvent(s.ev, 1, w)
}

func dumpId(i *id.Id, depth int, w io.Writer) {
	if i.IsLeaf() {
		if i.Owned() {
			fmt.Fprintf(w, "%s%s\n", indent(depth), ownedColor.Sprint("1"))
		} else {
			fmt.Fprintf(w, "%s%s\n", indent(depth), nullColor.Sprint("0"))
		}
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent(depth), innerColor.Sprint("•"))
	dumpId(i.Left(), depth+1, w)
	dumpId(i.Right(), depth+1, w)
}

func dumpEvent(e *event.Event, depth int, w io.Writer) {
	if e.IsLeaf() {
		fmt.Fprintf(w, "%s%s\n", indent(depth), counterColor.Sprintf("%d", e.Value()))
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent(depth), innerColor.Sprintf("•%d", e.Value()))
	dumpEvent(e.Left(), depth+1, w)
	dumpEvent(e.Right(), depth+1, w)
}

func indent(d int) string {
	ind := ""
	for d > 0 {
		ind = ind + "  "
		d--
	}
	return ind
}
