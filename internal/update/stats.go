package update

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

func (m Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" {
		m.Stats.Loaded = false
		return m, m.loadStatsCmd()
	}
	return m, nil
}

func (m *Model) applyStats(msg StatsLoadedMsg) {
	m.Stats.Stats = msg.Stats
	m.Stats.Hourly = msg.Hourly
	m.Stats.Weekly = msg.Weekly
	m.Stats.HourlyChart = renderHourlyChart(msg.Hourly)
	m.Stats.WeeklyChart = renderWeeklyChart(msg.Weekly)
	m.topHoursTable.SetRows(topHourRows(msg.Hourly, msg.Stats.TotalCompleted))
	m.Stats.Loaded = true
}

var (
	hourBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	weekBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// renderHourlyChart compresses the 24 hour buckets into twelve two-hour
// bars so the chart fits the left pane.
func renderHourlyChart(hourly model.HourlyPattern) string {
	bars := make([]barchart.BarData, 0, 12)
	for bin := 0; bin < 12; bin++ {
		count := hourly[2*bin] + hourly[2*bin+1]
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%02d", 2*bin),
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(count), Style: hourBarStyle},
			},
		})
	}
	chart := barchart.New(50, 8)
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func renderWeeklyChart(weekly model.WeeklyPattern) string {
	labels := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	bars := make([]barchart.BarData, 0, len(labels))
	for day, label := range labels {
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(weekly[day]), Style: weekBarStyle},
			},
		})
	}
	chart := barchart.New(36, 6)
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

func topHourRows(hourly model.HourlyPattern, total int) []table.Row {
	type bucket struct {
		hour  int
		count int
	}
	buckets := make([]bucket, 0, len(hourly))
	for hour, count := range hourly {
		if count <= 0 || hour < 0 || hour > 23 {
			continue
		}
		buckets = append(buckets, bucket{hour: hour, count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].hour < buckets[j].hour
	})
	if len(buckets) > 5 {
		buckets = buckets[:5]
	}

	rows := make([]table.Row, 0, len(buckets))
	for _, b := range buckets {
		share := "-"
		if total > 0 {
			share = fmt.Sprintf("%d%%", b.count*100/total)
		}
		rows = append(rows, table.Row{fmt.Sprintf("%02d:00", b.hour), strconv.Itoa(b.count), share})
	}
	return rows
}
