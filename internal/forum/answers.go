package forum

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/logx"
	"go-forum-profile/internal/model"
)

// CollectAnswers 遍历 #answers 的卡片；链接指向问题页并以 #answer-<id> 定位回答，
// 页面中对应元素的 id 为 answer_<id>。
func (p *Parser) CollectAnswers(ctx context.Context, doc *goquery.Document, f Fetcher) ([]model.Answer, error) {
	links := cardLinks(doc.Find("#answers"))
	logx.Infof("回答：%d 个", len(links))
	out := []model.Answer{}
	for _, href := range links {
		if p.limitReached(len(out)) {
			break
		}
		aURL := p.abs(href)
		id, err := answerID(aURL)
		if err != nil {
			return out, err
		}
		qdoc, err := f.Fetch(ctx, aURL)
		if err != nil {
			return out, fmt.Errorf("answer %s: %w", aURL, err)
		}
		a, err := parseAnswer(qdoc, id)
		if err != nil {
			return out, fmt.Errorf("answer %s: %w", aURL, err)
		}
		a.URL = aURL
		out = append(out, a)
	}
	return out, nil
}

// answerID 由链接片段推导回答元素 id："answer-42" -> "answer_42"。
func answerID(aURL string) (string, error) {
	u, err := url.Parse(aURL)
	if err != nil {
		return "", fmt.Errorf("%w: answer url %q: %v", ErrExtraction, aURL, err)
	}
	if u.Fragment == "" {
		return "", fmt.Errorf("%w: answer url %q has no fragment", ErrExtraction, aURL)
	}
	return strings.ReplaceAll(u.Fragment, "-", "_"), nil
}

func parseAnswer(doc *goquery.Document, id string) (model.Answer, error) {
	var a model.Answer
	node := doc.Find(`[id="` + id + `"]`).First()
	if node.Length() == 0 {
		return a, missing("answer #" + id)
	}
	var ok bool
	if a.Time, ok = text(node.Find("time")); !ok {
		return a, missing("answer time")
	}
	votes, err := requiredInt(node.Find(".vote_count"), "answer votes")
	if err != nil {
		return a, err
	}
	a.Votes = votes
	a.Accepted = node.HasClass("o_wforum_answer_correct")
	a.Content = outerHTML(node.Find(".o_wforum_readable"))
	if a.AnsweredQuestion, err = parsePost(doc); err != nil {
		return a, err
	}
	return a, nil
}
