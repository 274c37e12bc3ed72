// Command btre is a thin CLI wrapper over the btre package: compile a
// pattern, match it against an input, print the result. It adds no
// engine semantics of its own.
package main

import (
	"fmt"
	"os"

	"github.com/btre/btre"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <regex> <input>\n", os.Args[0])
		os.Exit(1)
	}

	pattern, input := os.Args[1], os.Args[2]

	re, err := btre.Compile(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	m := re.FindString(input)
	if m == nil {
		fmt.Println("no match")
		os.Exit(1)
	}

	fmt.Printf("match: %q\n", m.Whole())
	for i := 1; i <= re.NumSubexp(); i++ {
		if g, ok := m.Group(i); ok {
			fmt.Printf("  group %d: %q\n", i, g)
		} else {
			fmt.Printf("  group %d: <absent>\n", i)
		}
	}
}
