package output

import (
	"fmt"
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/charmbracelet/lipgloss"
)

// SummaryStyles 是批处理摘要使用的样式
type SummaryStyles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultSummaryStyles 返回默认配色
func DefaultSummaryStyles() SummaryStyles {
	return SummaryStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c3aed")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1),
	}
}

// Summary 渲染批处理摘要: 各状态计数 + 每个文件一行
func Summary(batch *model.BatchReport, styles SummaryStyles) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("implmerge"))
	sb.WriteString("\n")

	counts := []string{
		styles.Success.Render(fmt.Sprintf("merged: %d", batch.Count(model.StatusMerged)+batch.Count(model.StatusDryRun))),
		styles.Warning.Render(fmt.Sprintf("skipped: %d", batch.Count(model.StatusSkipped))),
		styles.Error.Render(fmt.Sprintf("failed: %d", batch.Count(model.StatusFailed))),
		styles.Warning.Render(fmt.Sprintf("ambiguities: %d", batch.Ambiguities())),
	}
	sb.WriteString(strings.Join(counts, "  "))

	for _, fr := range batch.Files {
		sb.WriteString("\n")
		sb.WriteString(fileLine(fr, styles))
	}
	return styles.Panel.Render(sb.String())
}

func fileLine(fr *model.FileReport, styles SummaryStyles) string {
	var status string
	switch fr.Status {
	case model.StatusMerged, model.StatusDryRun:
		status = styles.Success.Render(string(fr.Status))
	case model.StatusSkipped:
		status = styles.Warning.Render(string(fr.Status))
	default:
		status = styles.Error.Render(string(fr.Status))
	}

	line := status + " " + fr.File
	if fr.Reason != "" {
		line += " " + styles.Muted.Render(fr.Reason)
	}
	return line
}
