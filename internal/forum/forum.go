// 包 forum 负责解析论坛资料页及问题/回答详情页：
// - 每类数据对应一个小接口（资料/徽章/问题/回答/动态/投票），调用方只依赖接口
// - 必填字段缺失时返回包装了 ErrExtraction 的错误；可选字段缺失时降级为 nil/空值
// - 相对链接按站点根地址绝对化
package forum

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/model"
)

// ErrExtraction 表示页面结构中缺少必填字段（通常是站点改版）。
var ErrExtraction = errors.New("extraction error")

func missing(field string) error {
	return fmt.Errorf("%w: %s not found", ErrExtraction, field)
}

// Fetcher 获取一个详情页；*fetch.Session 满足该接口。
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// ProfileParser 从资料页解析个人资料。
type ProfileParser interface {
	ParseProfile(doc *goquery.Document, userID string) (model.UserProfile, error)
}

// BadgeParser 从资料页解析徽章。
type BadgeParser interface {
	ParseBadges(doc *goquery.Document) []model.Badge
}

// QuestionCollector 从资料页列出相关问题，并逐个抓取详情页。
type QuestionCollector interface {
	CollectQuestions(ctx context.Context, doc *goquery.Document, f Fetcher) (model.RelatedQuestions, error)
}

// AnswerCollector 从资料页列出回答，并逐个抓取所在问题页。
type AnswerCollector interface {
	CollectAnswers(ctx context.Context, doc *goquery.Document, f Fetcher) ([]model.Answer, error)
}

// ActivityParser 从资料页解析动态日志。
type ActivityParser interface {
	ParseActivity(doc *goquery.Document) []model.ActivityEntry
}

// VoteParser 从资料页解析投出的票。
type VoteParser interface {
	ParseVotes(doc *goquery.Document) []model.VoteGiven
}

// Parser 是基于 goquery 的实现，满足以上全部接口。
type Parser struct {
	base *url.URL
	// MaxItems 限制每个分组抓取的详情页数量，0 表示不限
	MaxItems int
}

var (
	_ ProfileParser     = (*Parser)(nil)
	_ BadgeParser       = (*Parser)(nil)
	_ QuestionCollector = (*Parser)(nil)
	_ AnswerCollector   = (*Parser)(nil)
	_ ActivityParser    = (*Parser)(nil)
	_ VoteParser        = (*Parser)(nil)
)

// NewParser 创建解析器，base 用于把相对链接绝对化。
func NewParser(base *url.URL) *Parser {
	return &Parser{base: base}
}

// abs 将相对链接（含 //host 形式）转换为绝对 URL。
func (p *Parser) abs(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if ru.IsAbs() || p.base == nil {
		return ru.String()
	}
	return p.base.ResolveReference(ru).String()
}

// limitReached 判断是否已达到 MaxItems。
func (p *Parser) limitReached(n int) bool {
	return p.MaxItems > 0 && n >= p.MaxItems
}

// text 返回选择结果第一个元素的去空白文本；未命中时 ok=false。
func text(s *goquery.Selection) (string, bool) {
	if s.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(s.First().Text()), true
}

// optional 将未命中或空白的文本映射为 nil。
func optional(s *goquery.Selection) *string {
	v, ok := text(s)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// atoi 去掉千分位逗号后转为整数。
func atoi(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// requiredInt 读取必填数字字段。
func requiredInt(s *goquery.Selection, field string) (int, error) {
	v, ok := text(s)
	if !ok {
		return 0, missing(field)
	}
	n, err := atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrExtraction, field, err)
	}
	return n, nil
}

// outerHTML 返回第一个元素的 HTML 片段，未命中时为空串。
func outerHTML(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	h, err := goquery.OuterHtml(s.First())
	if err != nil {
		return ""
	}
	return h
}

// thValue 在表格中找到文本为 label 的 th，返回其后一个兄弟元素。
func thValue(table *goquery.Selection, label string) *goquery.Selection {
	th := table.Find("th").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	}).First()
	return th.Next()
}
