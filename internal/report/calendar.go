package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"go-forum-profile/internal/timeline"
)

// 色阶：0 为 "·"，其余按占最大值的比例分四档。
var (
	shades      = []string{"░", "▒", "▓", "█"}
	shadeColors = []text.Colors{
		{text.FgGreen},
		{text.FgHiGreen},
		{text.FgGreen, text.Bold},
		{text.FgHiGreen, text.Bold},
	}
	weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

const (
	cellEmpty = " " // 不在序列范围内
	cellZero  = "·" // 范围内但当天无事件
)

// Calendar 渲染日历热力图：每年一块，行为周一至周日，每列一周。
// 单日最大值大于 1 时才显示色阶说明。
func (r Renderer) Calendar(w io.Writer, title string, s timeline.Series) error {
	if len(s.Days) == 0 {
		return timeline.ErrEmptyRange
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	max := s.Max()
	for y := s.Start().Year(); y <= s.End().Year(); y++ {
		r.year(&b, y, s, max)
	}
	if max > 1 {
		b.WriteString(r.scale(max))
		b.WriteByte('\n')
	}
	b.WriteString(summary(s))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// year 写出一年的网格：首行为月份，其下 7 行。
func (r Renderer) year(b *strings.Builder, year int, s timeline.Series, max int) {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	// 第一列从 1 月 1 日所在周的周一开始
	origin := jan1.AddDate(0, 0, -weekdayIndex(jan1))
	weeks := dayDiff(origin, dec31)/7 + 1

	fmt.Fprintf(b, "\n%d\n", year)
	b.WriteString(strings.Repeat(" ", 4))
	b.WriteString(monthHeader(year, origin, weeks))
	b.WriteByte('\n')

	start, end := s.Start(), s.End()
	for row := 0; row < 7; row++ {
		b.WriteString(weekdays[row])
		b.WriteByte(' ')
		for col := 0; col < weeks; col++ {
			d := origin.AddDate(0, 0, col*7+row)
			switch {
			case d.Year() != year || d.Before(start) || d.After(end):
				b.WriteString(cellEmpty)
			default:
				b.WriteString(r.cell(s.Count(d), max))
			}
		}
		b.WriteByte('\n')
	}
}

// monthHeader 在每月第一天所在列写出月份缩写，放不下时省略。
func monthHeader(year int, origin time.Time, weeks int) string {
	line := []rune(strings.Repeat(" ", weeks+2))
	next := 0
	for m := time.January; m <= time.December; m++ {
		col := dayDiff(origin, time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)) / 7
		if col < next {
			continue
		}
		label := []rune(m.String()[:3])
		if col+len(label) > len(line) {
			break
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func (r Renderer) cell(count, max int) string {
	if count <= 0 {
		return cellZero
	}
	i := level(count, max)
	return r.paint(shadeColors[i], shades[i])
}

// level 将计数映射到 0..3 档。
func level(count, max int) int {
	if max <= 0 {
		return 0
	}
	i := int(math.Ceil(float64(count)/float64(max)*float64(len(shades)))) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return i
}

// scale 为色阶说明：Less · ░ ▒ ▓ █ More (max N/day)。
func (r Renderer) scale(max int) string {
	parts := []string{"Less", cellZero}
	for i := range shades {
		parts = append(parts, r.paint(shadeColors[i], shades[i]))
	}
	parts = append(parts, "More", fmt.Sprintf("(max %d/day)", max))
	return strings.Join(parts, " ")
}

// summary 用表格给出区间、总数与活跃天数。
func summary(s timeline.Series) string {
	active := 0
	for _, d := range s.Days {
		if d.Count > 0 {
			active++
		}
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"From", "To", "Days", "Active", "Total", "Max"})
	tw.AppendRow(table.Row{
		s.Start().Format(time.DateOnly),
		s.End().Format(time.DateOnly),
		len(s.Days), active, s.Total(), s.Max(),
	})
	return tw.Render()
}

// weekdayIndex 周一为 0。
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func dayDiff(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
