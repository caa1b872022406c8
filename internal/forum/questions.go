package forum

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/logx"
	"go-forum-profile/internal/model"
)

// CollectQuestions 遍历 #questions 下的各分组（提问/收藏/关注），
// 逐个抓取问题详情页。空分组保留为空列表。
func (p *Parser) CollectQuestions(ctx context.Context, doc *goquery.Document, f Fetcher) (model.RelatedQuestions, error) {
	out := model.RelatedQuestions{}
	sections := doc.Find("#questions").Children()
	for i := range sections.Nodes {
		sec := sections.Eq(i)
		name, ok := text(sec.Find("h5:first-child"))
		if !ok {
			return out, missing(fmt.Sprintf("question section #%d name", i+1))
		}
		links := cardLinks(sec)
		logx.Infof("问题分组 %q：%d 个", name, len(links))
		qs := []model.RelatedQuestion{}
		for _, href := range links {
			if p.limitReached(len(qs)) {
				break
			}
			qURL := p.abs(href)
			qdoc, err := f.Fetch(ctx, qURL)
			if err != nil {
				return out, fmt.Errorf("question %s: %w", qURL, err)
			}
			post, err := parsePost(qdoc)
			if err != nil {
				return out, fmt.Errorf("question %s: %w", qURL, err)
			}
			qs = append(qs, model.RelatedQuestion{
				URL:     qURL,
				Time:    post.Time,
				Votes:   post.Votes,
				Title:   post.Title,
				Content: post.Content,
			})
		}
		out = append(out, model.QuestionSection{Name: name, Questions: qs})
	}
	return out, nil
}

// cardLinks 返回每张卡片中第一个链接的 href。
func cardLinks(scope *goquery.Selection) []string {
	var out []string
	scope.Find(".card").Each(func(_ int, card *goquery.Selection) {
		if href, ok := card.Find("a").First().Attr("href"); ok {
			out = append(out, href)
		}
	})
	return out
}

// parsePost 解析问题详情页中问题本身：时间、票数、标题（必填）与正文 HTML。
func parsePost(doc *goquery.Document) (model.Post, error) {
	var post model.Post
	var ok bool
	if post.Time, ok = text(doc.Find("article time")); !ok {
		return post, missing("question time")
	}
	votes, err := requiredInt(doc.Find(".vote_count"), "question votes")
	if err != nil {
		return post, err
	}
	post.Votes = votes
	if post.Title, ok = text(doc.Find("article header")); !ok {
		return post, missing("question title")
	}
	post.Content = outerHTML(doc.Find("article .o_wforum_post_content"))
	return post, nil
}
