// 包 model 定义抓取结果的数据模型（资料/徽章/问题/回答/动态/投票）。
// JSON 键名与 data/<user_id>/*.json 的既有格式保持一致。
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserProfile 为个人资料页的汇总信息。
// 可选字段为指针：页面缺失时写出 null。
type UserProfile struct {
	ID        string  `json:"ID"`
	Name      string  `json:"Name"`
	Website   *string `json:"Website"`
	City      *string `json:"City"`
	Country   *string `json:"Country"`
	Biography *string `json:"Biography"`

	CurrentRank      string  `json:"Current rank"`
	CurrentRankIcon  string  `json:"Current rank icon"`
	Joined           string  `json:"Joined"`
	PositiveVotes    int     `json:"Positive votes"`
	NegativeVotes    int     `json:"Negative votes"`
	NextRank         string  `json:"Next rank"`
	CurrentXP        int     `json:"Current xp"`
	NextRankXP       int     `json:"Next rank xp"`
	NextRankProgress float64 `json:"Next rank progress"`
	NextRankIcon     string  `json:"Next rank icon"`
	AvatarImage      string  `json:"Avatar image"`
}

// Progress 计算升级进度百分比；NextRankXP 为 0 时返回 0。
func (p UserProfile) Progress() float64 {
	if p.NextRankXP <= 0 {
		return 0
	}
	return float64(p.CurrentXP) / float64(p.NextRankXP) * 100
}

// Badge 为一枚徽章。
type Badge struct {
	Name    string `json:"badge_name"`
	IconURL string `json:"badge_url"`
}

// Post 为问题详情页中问题本身的字段，回答记录中也会内嵌。
type Post struct {
	Time    string `json:"time"`
	Votes   int    `json:"votes"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RelatedQuestion 为与用户相关的一个问题（提问/收藏/关注）。
type RelatedQuestion struct {
	URL     string `json:"URL"`
	Time    string `json:"time"`
	Votes   int    `json:"votes"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// QuestionSection 为资料页上的一个问题分组，如 Questions/Favourites/Followed。
type QuestionSection struct {
	Name      string
	Questions []RelatedQuestion
}

// RelatedQuestions 保留分组在页面上的顺序；JSON 编码为 {分组名: [问题...]}。
type RelatedQuestions []QuestionSection

// Section 按名称查找分组，不存在时返回 nil。
func (rq RelatedQuestions) Section(name string) []RelatedQuestion {
	for _, s := range rq {
		if s.Name == name {
			return s.Questions
		}
	}
	return nil
}

// Total 返回全部分组的问题数。
func (rq RelatedQuestions) Total() int {
	n := 0
	for _, s := range rq {
		n += len(s.Questions)
	}
	return n
}

// MarshalJSON 按分组顺序写出对象，空分组写为 []。
func (rq RelatedQuestions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range rq {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		qs := s.Questions
		if qs == nil {
			qs = []RelatedQuestion{}
		}
		v, err := json.Marshal(qs)
		if err != nil {
			return nil, fmt.Errorf("encode section %q: %w", s.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 逐个读取对象键，保持文件中的分组顺序。
func (rq *RelatedQuestions) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("related questions: expect object, got %v", tok)
	}
	out := RelatedQuestions{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("related questions: expect key, got %v", tok)
		}
		var qs []RelatedQuestion
		if err := dec.Decode(&qs); err != nil {
			return fmt.Errorf("decode section %q: %w", name, err)
		}
		if qs == nil {
			qs = []RelatedQuestion{}
		}
		out = append(out, QuestionSection{Name: name, Questions: qs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*rq = out
	return nil
}

// Answer 为用户发布的一条回答，附带被回答问题的信息。
type Answer struct {
	URL              string `json:"URL"`
	Time             string `json:"time"`
	Votes            int    `json:"votes"`
	Accepted         bool   `json:"accepted"`
	Content          string `json:"content"`
	AnsweredQuestion Post   `json:"answered_question"`
}

// ActivityEntry 为动态日志中的一条记录。
type ActivityEntry struct {
	Type string `json:"type"`
	Time string `json:"time"`
	URL  string `json:"URL"`
}

// VoteGiven 为用户投出的一票。
type VoteGiven struct {
	Time       string `json:"time"`
	IsPositive bool   `json:"is_positive"`
	Title      string `json:"title"`
	URL        string `json:"URL"`
}

// Dataset 为一次运行的全部抓取结果，供报表阶段使用。
type Dataset struct {
	Profile   UserProfile
	Badges    []Badge
	Questions RelatedQuestions
	Answers   []Answer
	Activity  []ActivityEntry
	Votes     []VoteGiven
}

// 资料页上"提问"分组的名称。
const AskedSection = "Questions"

// VotesGivenSplit 统计投出的赞成/反对票数。
func (d Dataset) VotesGivenSplit() (positive, negative int) {
	for _, v := range d.Votes {
		if v.IsPositive {
			positive++
		} else {
			negative++
		}
	}
	return positive, negative
}
