package forum

import (
	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/model"
)

// ParseActivity 读取动态卡片：第 1/2/3 个 span 依次为类型、时间、链接。
func (p *Parser) ParseActivity(doc *goquery.Document) []model.ActivityEntry {
	out := []model.ActivityEntry{}
	doc.Find("#activity .card").Each(func(_ int, card *goquery.Selection) {
		body := card.Find(".card-body")
		typ, _ := text(body.Find("span:nth-child(1)"))
		when, _ := text(body.Find("span:nth-child(2)"))
		href, _ := body.Find("span:nth-child(3) a").First().Attr("href")
		out = append(out, model.ActivityEntry{
			Type: typ,
			Time: when,
			URL:  p.abs(href),
		})
	})
	return out
}
