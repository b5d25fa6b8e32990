package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chronos-cli/chronos/pkg/schedule"
	"github.com/chronos-cli/chronos/pkg/timeparse"
)

// Color palette
var (
	colorPurple   = lipgloss.Color("#7D56F4")
	colorGreen    = lipgloss.Color("#25A065")
	colorRed      = lipgloss.Color("#E05252")
	colorYellow   = lipgloss.Color("#E5C07B")
	colorGray     = lipgloss.Color("#626262")
	colorOffWhite = lipgloss.Color("#D0D0D0")
	colorCyan     = lipgloss.Color("#56B6C2")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPurple)

	timeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	anchorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	blockStyle = lipgloss.NewStyle().
			Foreground(colorOffWhite)

	parallelStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	bufferStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	durationStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	depthIndent = "  "
)

// renderSchedule prints a compiled day: header, the block tree, then
// capacity and conflict notes.
func renderSchedule(comp *schedule.Compilation) string {
	var b strings.Builder

	title := fmt.Sprintf("%s %s", comp.Weekday, comp.Date.Format("2006-01-02"))
	if comp.Variant != "" {
		title += fmt.Sprintf(" (%s)", comp.Variant)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	for _, n := range comp.Nodes {
		renderNode(&b, n, 0)
	}

	report := comp.Capacity
	if report.Exceeded {
		b.WriteString(alertStyle.Render(fmt.Sprintf(
			"Over capacity: %s demanded, window holds %s",
			timeparse.FormatMinutes(report.Demand), timeparse.FormatMinutes(report.Capacity))))
		b.WriteString("\n")
	}

	for _, c := range comp.Conflicts {
		style := warnStyle
		if c.Kind == schedule.ConflictUnresolved || c.Kind == schedule.ConflictMissingItem {
			style = alertStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("! %s %s: %s", c.Kind, c.Name, c.Detail)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *schedule.Node, depth int) {
	span := timeStyle
	if n.Anchor != "" {
		span = anchorStyle
	}
	times := span.Render(fmt.Sprintf("%s–%s",
		timeparse.FormatClock(n.StartTime), timeparse.FormatClock(n.EndTime)))

	name := blockStyle.Render(n.Name)
	switch {
	case n.IsBuffer:
		name = bufferStyle.Render(n.Name)
	case n.IsParallel:
		name = parallelStyle.Render("∥ " + n.Name)
	}

	line := strings.Repeat(depthIndent, depth) + times + "  " + name
	if n.Duration > 0 && !n.IsBuffer {
		line += "  " + durationStyle.Render("("+timeparse.FormatMinutes(n.Duration)+")")
	}
	b.WriteString(line)
	b.WriteString("\n")

	for _, child := range n.Children {
		renderNode(b, child, depth+1)
	}
}
