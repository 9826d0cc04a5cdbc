package dumps

import "strings"

const spaces = "                                                                "

// indentation returns the leading whitespace for an element at depth when
// each level is width spaces wide.
func indentation(depth, width int) string {
	n := depth * width
	if n <= 0 {
		return ""
	}
	if n <= len(spaces) {
		return spaces[:n]
	}
	return strings.Repeat(" ", n)
}
