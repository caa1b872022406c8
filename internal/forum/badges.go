package forum

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/model"
)

// ParseBadges 每张徽章卡片对应一条记录，顺序与页面一致。
func (p *Parser) ParseBadges(doc *goquery.Document) []model.Badge {
	out := []model.Badge{}
	doc.Find("#profile_about_badge .card").Each(func(_ int, card *goquery.Selection) {
		src, _ := card.Find("img").First().Attr("src")
		out = append(out, model.Badge{
			Name:    strings.TrimSpace(card.Text()),
			IconURL: p.abs(src),
		})
	})
	return out
}
