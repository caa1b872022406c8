// 包 report 在终端渲染参与情况的可视化：
// - 三张"饼图"（提问/回答、收到的票、投出的票），以占比表格加比例条呈现
// - 三张日历热力图（提问、回答、总活跃度），按年分块，行为周一至周日
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"go-forum-profile/internal/model"
)

// Slice 为饼图中的一块。
type Slice struct {
	Label string
	Count int
	Color text.Colors
}

// Legend 返回图例文本，如 "Questions (12)"。
func (s Slice) Legend() string {
	return fmt.Sprintf("%s (%d)", s.Label, s.Count)
}

// PieData 为一张饼图的数据。
type PieData struct {
	Title  string
	Slices []Slice
}

// Total 返回各块计数之和。
func (p PieData) Total() int {
	n := 0
	for _, c := range p.Counts() {
		n += c
	}
	return n
}

// Counts 返回各块计数，顺序与 Slices 一致。
func (p PieData) Counts() []int {
	out := make([]int, len(p.Slices))
	for i, s := range p.Slices {
		out[i] = s.Count
	}
	return out
}

// Share 返回第 i 块的百分比，总数为 0 时为 0。
func (p PieData) Share(i int) float64 {
	t := p.Total()
	if t == 0 {
		return 0
	}
	return float64(p.Slices[i].Count) / float64(t) * 100
}

var (
	colorFirst  = text.Colors{text.FgHiBlue}
	colorSecond = text.Colors{text.FgHiYellow}
	colorPos    = text.Colors{text.FgHiGreen}
	colorNeg    = text.Colors{text.FgHiRed}
)

// QAPie 为提问数与回答数。
func QAPie(d model.Dataset) PieData {
	return PieData{Title: "Questions & Answers", Slices: []Slice{
		{Label: "Questions", Count: len(d.Questions.Section(model.AskedSection)), Color: colorFirst},
		{Label: "Answers", Count: len(d.Answers), Color: colorSecond},
	}}
}

// VotesReceivedPie 为资料页上收到的赞成/反对票。
func VotesReceivedPie(d model.Dataset) PieData {
	return PieData{Title: "Votes Received", Slices: []Slice{
		{Label: "Positive", Count: d.Profile.PositiveVotes, Color: colorPos},
		{Label: "Negative", Count: d.Profile.NegativeVotes, Color: colorNeg},
	}}
}

// VotesGivenPie 为用户投出的赞成/反对票。
func VotesGivenPie(d model.Dataset) PieData {
	pos, neg := d.VotesGivenSplit()
	return PieData{Title: "Votes Given", Slices: []Slice{
		{Label: "Positive", Count: pos, Color: colorPos},
		{Label: "Negative", Count: neg, Color: colorNeg},
	}}
}

const barWidth = 30

// Pie 渲染一张饼图：标题含总数，每行为图例、百分比与比例条。
func (r Renderer) Pie(w io.Writer, p PieData) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(fmt.Sprintf("%s (%d)", p.Title, p.Total()))
	tw.AppendHeader(table.Row{"", "%", ""})
	// 比例条列保持固定宽度，否则全为 0 时表格过窄，标题会被折行
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMin: barWidth}})
	for i, s := range p.Slices {
		share := p.Share(i)
		bar := strings.Repeat("█", int(math.Round(share/100*barWidth)))
		tw.AppendRow(table.Row{
			r.paint(s.Color, s.Legend()),
			fmt.Sprintf("%.0f%%", share),
			r.paint(s.Color, bar),
		})
	}
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func (r Renderer) paint(c text.Colors, s string) string {
	if !r.Color || len(c) == 0 || s == "" {
		return s
	}
	return c.Sprint(s)
}
