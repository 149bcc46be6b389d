package main

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrSnakeDoc/horizon/internal/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	ongoingStyle = cellStyle.Foreground(lipgloss.Color("2"))
	pastStyle    = cellStyle.Foreground(lipgloss.Color("8"))
)

const statusColumn = 2

func renderContests(contests []domain.Contest, now time.Time) string {
	views := make([]domain.ContestView, len(contests))
	for i, c := range contests {
		views[i] = domain.ContestView{Contest: c}
	}
	return renderViews(views, now)
}

func renderViews(views []domain.ContestView, now time.Time) string {
	rows := contestRows(views, now)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("PLATFORM", "NAME", "STATUS", "STARTS", "DURATION", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row >= 0 && row < len(rows) {
				switch domain.Status(rows[row][statusColumn]) {
				case domain.StatusOngoing:
					return ongoingStyle
				case domain.StatusPast:
					return pastStyle
				}
			}
			return cellStyle
		}).
		String()
}

func contestRows(views []domain.ContestView, now time.Time) [][]string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		c := v.WithStatusAt(now)
		name := c.Name
		if v.IsBookmarked {
			name = "★ " + name
		}
		rows = append(rows, []string{
			string(c.Platform),
			name,
			string(c.Status),
			domain.FormatRelative(c.StartTime, now),
			domain.FormatDuration(c.Duration),
			c.ID,
		})
	}
	return rows
}

func renderOrphans(orphans []domain.Bookmark, now time.Time) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "BOOKMARKED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, b := range orphans {
		t.Row(b.ContestID, domain.FormatRelative(b.CreatedAt, now))
	}
	return t.String()
}
