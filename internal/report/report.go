package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go-forum-profile/internal/logx"
	"go-forum-profile/internal/model"
	"go-forum-profile/internal/timeline"
)

// Renderer 无状态；Color 控制是否输出 ANSI 颜色。
type Renderer struct {
	Color bool
}

// Report 依次渲染三张饼图与三张热力图。
// 时间格式不符立即返回错误；某类没有任何日期时只跳过该热力图。
func (r Renderer) Report(w io.Writer, d model.Dataset) error {
	for _, p := range []PieData{QAPie(d), VotesReceivedPie(d), VotesGivenPie(d)} {
		if err := r.Pie(w, p); err != nil {
			return fmt.Errorf("render %s: %w", p.Title, err)
		}
	}
	days, err := timeline.Days(d)
	if err != nil {
		return err
	}
	heatmaps := []struct {
		title string
		dates []time.Time
	}{
		{"Questions Asked", days.Questions},
		{"Answers Given", days.Answers},
		{"Activity", days.Activity},
	}
	for _, h := range heatmaps {
		s, err := timeline.DailyCounts(h.dates)
		if errors.Is(err, timeline.ErrEmptyRange) {
			logx.Warnf("%s：没有任何日期，跳过热力图", h.title)
			continue
		}
		if err != nil {
			return err
		}
		logx.Debugf("%s：%s 至 %s，共 %d 次", h.title, s.Start().Format(time.DateOnly), s.End().Format(time.DateOnly), s.Total())
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := r.Calendar(w, h.title, s); err != nil {
			return fmt.Errorf("render %s: %w", h.title, err)
		}
	}
	return nil
}
