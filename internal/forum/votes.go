package forum

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"go-forum-profile/internal/model"
)

// ParseVotes 读取投票列表；没有赞/踩图标的行（如分组标题）跳过。
func (p *Parser) ParseVotes(doc *goquery.Document) []model.VoteGiven {
	out := []model.VoteGiven{}
	doc.Find("#votes > div > div").Each(func(_ int, row *goquery.Selection) {
		marker := row.Find("span").First()
		if marker.Length() == 0 {
			return
		}
		link := row.Find("a").First()
		href, _ := link.Attr("href")
		out = append(out, model.VoteGiven{
			Time:       leadingText(row),
			IsPositive: marker.HasClass("fa-thumbs-up"),
			Title:      strings.TrimSpace(link.Text()),
			URL:        p.abs(href),
		})
	})
	return out
}

// leadingText 返回行内第一个子节点的文本（投票时间在最前面的文本节点中）。
func leadingText(row *goquery.Selection) string {
	if row.Length() == 0 {
		return ""
	}
	first := row.Get(0).FirstChild
	if first == nil {
		return ""
	}
	if first.Type == html.TextNode {
		return strings.TrimSpace(first.Data)
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(first).Text())
}
