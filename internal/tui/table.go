// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders rows under headers as a rounded lipgloss table.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return t.Render()
}
