package timeline

import (
	"errors"
	"strings"
	"time"

	"go-forum-profile/internal/model"
)

// ErrEmptyRange 表示没有任何日期，无法构造序列（只影响对应的那张图）。
var ErrEmptyRange = errors.New("empty date range")

// DayCount 为某一天的事件数。
type DayCount struct {
	Date  time.Time
	Count int
}

// Series 为 [最早日期, 最晚日期] 上逐日连续的计数，无事件的日子为 0。
type Series struct {
	Days []DayCount
}

// DailyCounts 将日期列表统计为稠密的按天序列，同一天的多次事件累加。
func DailyCounts(dates []time.Time) (Series, error) {
	if len(dates) == 0 {
		return Series{}, ErrEmptyRange
	}
	first, last := Day(dates[0]), Day(dates[0])
	for _, d := range dates[1:] {
		d = Day(d)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	n := daysBetween(first, last) + 1
	days := make([]DayCount, n)
	for i := range days {
		days[i].Date = first.AddDate(0, 0, i)
	}
	for _, d := range dates {
		days[daysBetween(first, Day(d))].Count++
	}
	return Series{Days: days}, nil
}

// daysBetween 按 UTC 零点计算相差天数。
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Start 返回序列第一天。
func (s Series) Start() time.Time {
	if len(s.Days) == 0 {
		return time.Time{}
	}
	return s.Days[0].Date
}

// End 返回序列最后一天。
func (s Series) End() time.Time {
	if len(s.Days) == 0 {
		return time.Time{}
	}
	return s.Days[len(s.Days)-1].Date
}

// Count 返回某天的计数，超出范围为 0。
func (s Series) Count(d time.Time) int {
	if len(s.Days) == 0 {
		return 0
	}
	i := daysBetween(s.Start(), Day(d))
	if i < 0 || i >= len(s.Days) {
		return 0
	}
	return s.Days[i].Count
}

// Max 返回单日最大计数。
func (s Series) Max() int {
	m := 0
	for _, d := range s.Days {
		if d.Count > m {
			m = d.Count
		}
	}
	return m
}

// Total 返回全部计数之和。
func (s Series) Total() int {
	n := 0
	for _, d := range s.Days {
		n += d.Count
	}
	return n
}

// ExcludeNewActivity 过滤类型中含 "New" 的动态（如 New Question / New Answer），
// 这些事件已由问题与回答两类数据计入。
func ExcludeNewActivity(e model.ActivityEntry) bool {
	return strings.Contains(e.Type, "New")
}

// CombinedActivityDays 合并加入日期、提问、回答与其余动态日期，用于总活跃度热力图。
func CombinedActivityDays(joined time.Time, questions, answers []time.Time, activity []model.ActivityEntry) ([]time.Time, error) {
	other, err := ActivityDays(activity, ExcludeNewActivity)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, 1+len(questions)+len(answers)+len(other))
	out = append(out, Day(joined))
	out = append(out, questions...)
	out = append(out, answers...)
	out = append(out, other...)
	return out, nil
}

// DatasetDays 为报表准备的全部日期集合。
type DatasetDays struct {
	Joined    time.Time
	Questions []time.Time
	Answers   []time.Time
	Activity  []time.Time // 合并后的总活跃日期
	Votes     []time.Time
}

// Days 解析数据集中的全部时间文本；任何一条格式不符都返回 DateParseError。
func Days(d model.Dataset) (DatasetDays, error) {
	var out DatasetDays
	var err error
	if out.Joined, err = ParseJoined(d.Profile.Joined); err != nil {
		return out, err
	}
	if out.Questions, err = QuestionDays(d.Questions.Section(model.AskedSection)); err != nil {
		return out, err
	}
	if out.Answers, err = AnswerDays(d.Answers); err != nil {
		return out, err
	}
	if out.Activity, err = CombinedActivityDays(out.Joined, out.Questions, out.Answers, d.Activity); err != nil {
		return out, err
	}
	if out.Votes, err = VoteDays(d.Votes); err != nil {
		return out, err
	}
	return out, nil
}
