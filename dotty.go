package itc

import (
	"fmt"
	"io"

	"github.com/astro-stan/itc/event"
	"github.com/astro-stan/itc/id"
)

// Stamp2Dot outputs the internal structure of a Stamp in Graphviz DOT
// format (for debugging purposes). Outputs to writer `w`. The identity
// tree and the event tree appear as two cluster subgraphs of one digraph.
func Stamp2Dot(s *Stamp, w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	if s != nil && s.id != nil {
		io.WriteString(w, "\tsubgraph cluster_id {\n\tlabel=\"id\";\n")
		next := 1
		idNodes(s.id, &next, w)
		io.WriteString(w, "\t}\n")
	}
	if s != nil && s.ev != nil {
		io.WriteString(w, "\tsubgraph cluster_event {\n\tlabel=\"event\";\n")
		next := 10000
		eventNodes(s.ev, &next, w)
		io.WriteString(w, "\t}\n")
	}
	io.WriteString(w, "}\n")
}

// idNodes writes one DOT node per identity tree node plus the edges to
// its children, returning the allocated node number.
func idNodes(i *id.Id, next *int, w io.Writer) int {
	myid := *next
	*next++
	if i.IsLeaf() {
		label, style := "0", "shape=box,style=filled"
		if i.Owned() {
			label = "1"
			style += ",fillcolor=\"#a3d7e4\""
		}
		fmt.Fprintf(w, "\t\"%d\" [label=\"%s\" %s];\n", myid, label, style)
		return myid
	}
	fmt.Fprintf(w, "\t\"%d\" [label=\"\" shape=circle,style=filled,color=black];\n", myid)
	left := idNodes(i.Left(), next, w)
	right := idNodes(i.Right(), next, w)
	fmt.Fprintf(w, "\t\"%d\" -> \"%d\";\n", myid, left)
	fmt.Fprintf(w, "\t\"%d\" -> \"%d\";\n", myid, right)
	return myid
}

func eventNodes(e *event.Event, next *int, w io.Writer) int {
	myid := *next
	*next++
	if e.IsLeaf() {
		fmt.Fprintf(w, "\t\"%d\" [label=\"%d\" shape=box,style=filled];\n", myid, e.Value())
		return myid
	}
	fmt.Fprintf(w, "\t\"%d\" [label=\"%d\" shape=circle,style=filled,fillcolor=\"#a3d7e4\"];\n",
		myid, e.Value())
	left := eventNodes(e.Left(), next, w)
	right := eventNodes(e.Right(), next, w)
	fmt.Fprintf(w, "\t\"%d\" -> \"%d\";\n", myid, left)
	fmt.Fprintf(w, "\t\"%d\" -> \"%d\";\n", myid, right)
	return myid
}
