package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/downhill/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	goodStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

// summary renders the outcome of a race as a bordered panel.
func summary(title string, r *sim.Result) string {
	outcome := warnStyle.Render("did not finish")
	if r.Finished() {
		outcome = goodStyle.Render(fmt.Sprintf("finished in %.2fs", r.FinishTime))
	}

	lines := []string{
		titleStyle.Render(title),
		outcome,
		"",
		row("frames", r.FramesRun),
		row("herring", r.Collected),
		row("collisions", r.Collisions),
		row("sub-steps", r.Stats.SubSteps),
		row("retries", r.Stats.Retries),
	}

	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		lines = append(lines, "")
	}
	for _, name := range names {
		lines = append(lines, row(name, fmt.Sprintf("%.3f", r.Metrics[name])))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}
