package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/hylla/choreboard/internal/board"
)

// lineKind identifies what one rendered board line shows.
type lineKind int

const (
	lineHeader lineKind = iota
	lineTabs
	lineBlank
	lineSection
	lineCard
	lineEmpty
	lineStatus
	lineMore
)

// layoutLine is one screen row of the board. View renders these in order and
// mouse hit-testing reads them back, so both always agree on row positions.
type layoutLine struct {
	kind   lineKind
	part   board.Partition
	cardID int64
}

// tabSpan is the horizontal extent of one rendered tab.
type tabSpan struct {
	start int
	end   int
	index int
}

// tabGap separates rendered tabs.
const tabGap = " "

// buildLayout lists the board rows top to bottom.
func buildLayout(b *board.Board) []layoutLine {
	lines := []layoutLine{
		{kind: lineHeader},
		{kind: lineTabs},
		{kind: lineBlank},
	}
	for i, part := range []board.Partition{board.PartitionActive, board.PartitionCompleted} {
		if i > 0 {
			lines = append(lines, layoutLine{kind: lineBlank})
		}
		lines = append(lines, layoutLine{kind: lineSection, part: part})
		for _, id := range b.Members(part) {
			card, ok := b.Card(id)
			if !ok || card.FilteredHidden {
				continue
			}
			lines = append(lines, layoutLine{kind: lineCard, part: part, cardID: id})
		}
		if !b.EmptyIndicatorHidden(part) {
			lines = append(lines, layoutLine{kind: lineEmpty, part: part})
		}
	}
	lines = append(lines, layoutLine{kind: lineBlank}, layoutLine{kind: lineStatus})
	return lines
}

// clipLayout keeps lines within maxRows, replacing the last kept row with a
// more marker when rows are cut. maxRows < 0 means no limit.
func clipLayout(lines []layoutLine, maxRows int) []layoutLine {
	if maxRows < 0 || len(lines) <= maxRows {
		return lines
	}
	if maxRows == 0 {
		return nil
	}
	clipped := make([]layoutLine, 0, maxRows)
	clipped = append(clipped, lines[:maxRows-1]...)
	return append(clipped, layoutLine{kind: lineMore})
}

// lineAt returns the layout row at screen row y.
func lineAt(lines []layoutLine, y int) (layoutLine, bool) {
	if y < 0 || y >= len(lines) {
		return layoutLine{}, false
	}
	return lines[y], true
}

// renderTabStrip renders the filter tabs and records where each one landed.
func renderTabStrip(tabs []board.Tab, active, inactive lipgloss.Style) (string, []tabSpan) {
	out := ""
	spans := make([]tabSpan, 0, len(tabs))
	x := 0
	for idx, tab := range tabs {
		style := inactive
		if tab.Active {
			style = active
		}
		rendered := style.Render(tab.Label)
		w := lipgloss.Width(rendered)
		if idx > 0 {
			out += tabGap
			x += lipgloss.Width(tabGap)
		}
		spans = append(spans, tabSpan{start: x, end: x + w, index: idx})
		out += rendered
		x += w
	}
	return out, spans
}

// tabAt returns the tab index under column x.
func tabAt(spans []tabSpan, x int) (int, bool) {
	for _, span := range spans {
		if x >= span.start && x < span.end {
			return span.index, true
		}
	}
	return 0, false
}
