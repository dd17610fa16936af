// Package plot renders simulation series for the terminal and for files.
//
// Terminal line charts use asciigraph, particle snapshots use a Braille
// [Canvas], and PNG/SVG output goes through go-chart.
package plot
