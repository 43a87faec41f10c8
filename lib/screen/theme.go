// Copyright 2026 The Sift Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the color palette of the picker chrome. All colors use
// ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Prompt styles the "> " marker before the query.
	Prompt lipgloss.Style
	// Counter styles the matched/total counts line.
	Counter lipgloss.Style
	// Selected styles the entire selected row.
	Selected lipgloss.Style
	// SelectionMarker styles the bar shown in front of the selected
	// row.
	SelectionMarker lipgloss.Style
	// Highlight styles matched characters on unselected rows.
	Highlight lipgloss.Style
	// SelectedHighlight styles matched characters on the selected row.
	SelectedHighlight lipgloss.Style
	// Marked styles the multi-select indicator column.
	Marked lipgloss.Style
	// Ellipsis styles the scroll-through truncation marker.
	Ellipsis lipgloss.Style
}

// DefaultTheme returns the built-in palette, adapted to the terminal
// background reported by termenv: dim chrome on dark terminals,
// darker chrome on light ones.
func DefaultTheme() Theme {
	dark := termenv.HasDarkBackground()

	faint := lipgloss.Color("245")
	selectedBackground := lipgloss.Color("236")
	highlight := lipgloss.Color("168")
	if !dark {
		faint = lipgloss.Color("243")
		selectedBackground = lipgloss.Color("253")
		highlight = lipgloss.Color("125")
	}

	return Theme{
		Prompt:            lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true),
		Counter:           lipgloss.NewStyle().Foreground(faint),
		Selected:          lipgloss.NewStyle().Background(selectedBackground).Bold(true),
		SelectionMarker:   lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Background(selectedBackground).Bold(true),
		Highlight:         lipgloss.NewStyle().Foreground(highlight).Bold(true),
		SelectedHighlight: lipgloss.NewStyle().Foreground(highlight).Background(selectedBackground).Bold(true),
		Marked:            lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Ellipsis:          lipgloss.NewStyle().Foreground(faint),
	}
}
