// 包 timeline 把各类记录的时间文本归一化为日期，并统计为按天的稠密序列。
package timeline

import (
	"fmt"
	"strings"
	"time"

	"go-forum-profile/internal/model"
)

// 各来源的时间格式。
const (
	// 加入日期与问题/回答时间，如 "20 Aug 2022" 或 "20 August 2022"
	LayoutPostShort = "2 Jan 2006"
	LayoutPostLong  = "2 January 2006"
	// 动态日志，如 "08/20/22, 08:40 AM"
	LayoutActivity = "01/02/06, 03:04 PM"
	// 投票，如 "2022-08-20 08:40:38"（小数秒在解析前截掉）
	LayoutVote = "2006-01-02 15:04:05"
)

// DateParseError 表示时间文本与所属类别的格式不符，通常意味着抓取结果与页面不匹配。
type DateParseError struct {
	Kind  string
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse %s date %q: %v", e.Kind, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// ParsePostDate 解析加入日期与问题/回答时间，月份可为缩写或全称。
func ParsePostDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	t, err := time.Parse(LayoutPostShort, v)
	if err != nil {
		var err2 error
		if t, err2 = time.Parse(LayoutPostLong, v); err2 != nil {
			return time.Time{}, &DateParseError{Kind: "post", Value: s, Err: err}
		}
	}
	return t, nil
}

// ParseJoined 为加入日期的别名，格式与问题时间一致。
func ParseJoined(s string) (time.Time, error) {
	t, err := ParsePostDate(s)
	if err != nil {
		err.(*DateParseError).Kind = "joined"
	}
	return t, err
}

// ParseActivityTime 解析动态日志时间，只保留日期部分。
func ParseActivityTime(s string) (time.Time, error) {
	t, err := time.Parse(LayoutActivity, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &DateParseError{Kind: "activity", Value: s, Err: err}
	}
	return Day(t), nil
}

// ParseVoteTime 解析投票时间，先截掉 "." 之后的小数秒。
func ParseVoteTime(s string) (time.Time, error) {
	v, _, _ := strings.Cut(strings.TrimSpace(s), ".")
	t, err := time.Parse(LayoutVote, v)
	if err != nil {
		return time.Time{}, &DateParseError{Kind: "vote", Value: s, Err: err}
	}
	return Day(t), nil
}

// Day 截断到当天 00:00 UTC。
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// QuestionDays 返回一组问题的日期。
func QuestionDays(qs []model.RelatedQuestion) ([]time.Time, error) {
	out := make([]time.Time, 0, len(qs))
	for _, q := range qs {
		d, err := ParsePostDate(q.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// AnswerDays 返回全部回答的日期。
func AnswerDays(as []model.Answer) ([]time.Time, error) {
	out := make([]time.Time, 0, len(as))
	for _, a := range as {
		d, err := ParsePostDate(a.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ActivityDays 返回动态日志的日期；exclude 为 true 的条目被跳过。
func ActivityDays(entries []model.ActivityEntry, exclude func(model.ActivityEntry) bool) ([]time.Time, error) {
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if exclude != nil && exclude(e) {
			continue
		}
		d, err := ParseActivityTime(e.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// VoteDays 返回全部投票的日期。
func VoteDays(vs []model.VoteGiven) ([]time.Time, error) {
	out := make([]time.Time, 0, len(vs))
	for _, v := range vs {
		d, err := ParseVoteTime(v.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
