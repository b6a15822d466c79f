package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/lakeforge/lakeforge/internal/orchestrator"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorAmber = lipgloss.Color("#f59e0b")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	greenStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	redStyle     = lipgloss.NewStyle().Foreground(colorRed)
	amberStyle   = lipgloss.NewStyle().Foreground(colorAmber)
)

// ColorEnabled reports whether styled output should be used: stdout is a
// terminal and NO_COLOR is unset.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Render produces the console summary of a run.
func Render(report *orchestrator.Report, color bool) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(style(titleStyle, color, fmt.Sprintf("  lakeforge run %s", report.RunID)))
	b.WriteString("\n")
	b.WriteString(style(dimStyle, color, "  "+strings.Repeat("═", 60)))
	b.WriteString("\n\n")

	names := make([]string, 0, len(report.Records))
	for name := range report.Records {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		record := report.Records[name]
		b.WriteString(fmt.Sprintf("  %s %-22s %-18s %s\n",
			statusGlyph(record.Status, color),
			name,
			record.Status,
			recordDetail(record, color),
		))
		if record.Warning != "" {
			b.WriteString(style(amberStyle, color, "      warning: "+record.Warning))
			b.WriteString("\n")
		}
		if record.Status == orchestrator.StatusFailed {
			b.WriteString(style(redStyle, color, "      "+record.Error))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(style(sectionStyle, color, "  Outcome"))
	b.WriteString("\n")
	b.WriteString(style(dimStyle, color, "  "+strings.Repeat("─", 40)))
	b.WriteString("\n")
	b.WriteString("    " + outcomeLine(report, color) + "\n")

	if resume := report.ResumeSet(); len(resume) > 0 {
		b.WriteString(style(dimStyle, color, fmt.Sprintf("    re-run with --resume to retry: %s", strings.Join(resume, ", "))))
		b.WriteString("\n")
	}

	b.WriteString(style(dimStyle, color, fmt.Sprintf("    duration: %s", report.FinishedAt.Sub(report.StartedAt).Round(timeRounding))))
	b.WriteString("\n")

	return b.String()
}

const timeRounding = 10 * time.Millisecond

func statusGlyph(status orchestrator.Status, color bool) string {
	switch status {
	case orchestrator.StatusSucceeded:
		return style(greenStyle, color, "✔")
	case orchestrator.StatusSucceededExisting:
		return style(greenStyle, color, "=")
	case orchestrator.StatusFailed:
		return style(redStyle, color, "✘")
	case orchestrator.StatusSkipped:
		return style(dimStyle, color, "·")
	}
	return " "
}

func recordDetail(record *orchestrator.Record, color bool) string {
	switch record.Status {
	case orchestrator.StatusSucceeded, orchestrator.StatusSucceededExisting:
		detail := record.Duration.Round(timeRounding).String()
		if record.Attempts > 1 {
			detail += fmt.Sprintf(" (%d attempts)", record.Attempts)
		}
		return style(dimStyle, color, detail)
	case orchestrator.StatusFailed:
		return style(redStyle, color, string(record.LastClass))
	case orchestrator.StatusSkipped:
		return style(dimStyle, color, record.Error)
	}
	return ""
}

func outcomeLine(report *orchestrator.Report, color bool) string {
	switch report.Outcome {
	case orchestrator.OutcomeAllSucceeded:
		return style(greenStyle, color, string(report.Outcome))
	case orchestrator.OutcomeConfigurationError:
		return style(redStyle, color, string(report.Outcome))
	default:
		return style(redStyle, color, fmt.Sprintf("%s (%d failed, %d skipped)",
			report.Outcome, len(report.Failed()), len(report.Skipped())))
	}
}

func style(s lipgloss.Style, color bool, text string) string {
	if !color {
		return text
	}
	return s.Render(text)
}
