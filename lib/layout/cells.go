// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabStop is the tab expansion interval in display columns.
const DefaultTabStop = 4

// cell is one grapheme cluster of a display line, with its column
// width and whether the matcher highlighted any of its runes. Tabs are
// expanded into individual space cells so horizontal offsets can cut
// anywhere. Zero-width clusters are attached to the preceding cell
// during line construction.
type cell struct {
	cluster     string
	width       int
	highlighted bool
}

// buildLines splits a rendered string at line feeds and converts each
// line into cells. highlights are sorted rune offsets into the full
// rendered string, counting the line-feed runes; carriage returns and
// other control characters render as nothing but still consume a rune
// offset.
func buildLines(rendered string, highlights []int, tabStop int) [][]cell {
	if tabStop <= 0 {
		tabStop = DefaultTabStop
	}

	var lines [][]cell
	nextHighlight := 0
	runeOffset := 0

	for _, lineText := range strings.Split(rendered, "\n") {
		var line []cell
		column := 0

		graphemes := uniseg.NewGraphemes(lineText)
		for graphemes.Next() {
			cluster := graphemes.Str()
			clusterRunes := len(graphemes.Runes())

			for nextHighlight < len(highlights) && highlights[nextHighlight] < runeOffset {
				nextHighlight++
			}
			highlighted := false
			for nextHighlight < len(highlights) && highlights[nextHighlight] < runeOffset+clusterRunes {
				highlighted = true
				nextHighlight++
			}
			runeOffset += clusterRunes

			if cluster == "\t" {
				spaces := tabStop - column%tabStop
				for s := 0; s < spaces; s++ {
					line = append(line, cell{cluster: " ", width: 1, highlighted: highlighted})
					column++
				}
				continue
			}

			if isControlCluster(cluster) {
				// Control characters other than tab render as nothing.
				continue
			}
			width := runewidth.StringWidth(cluster)
			if width == 0 {
				// Zero-width cluster (combining mark arriving as its
				// own cluster, ZWJ residue): attach to the previous
				// cell.
				if len(line) > 0 {
					line[len(line)-1].cluster += cluster
					line[len(line)-1].highlighted = line[len(line)-1].highlighted || highlighted
				}
				continue
			}

			line = append(line, cell{cluster: cluster, width: width, highlighted: highlighted})
			column += width
		}

		lines = append(lines, line)
		runeOffset++ // the line feed itself
	}
	return lines
}

// isControlCluster reports whether the cluster is a bare ASCII control
// character.
func isControlCluster(cluster string) bool {
	return len(cluster) == 1 && (cluster[0] < 0x20 || cluster[0] == 0x7f)
}
