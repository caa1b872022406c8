package forum

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/model"
)

// ParseProfile 解析资料页头部与侧栏。
// 必填：姓名、当前等级及图标、加入日期、得票、下一等级与经验值。
// 可选：网站、城市、国家、简介（缺失为 nil），头像（缺失为空串）。
func (p *Parser) ParseProfile(doc *goquery.Document, userID string) (model.UserProfile, error) {
	up := model.UserProfile{ID: userID}
	header := doc.Find(".o_wprofile_header")

	name, ok := text(header.Find(".o_card_people_name"))
	if !ok {
		return up, missing("name")
	}
	up.Name = name
	up.Website = optional(header.Find("i.fa-globe").First().Parent())
	up.City, up.Country = location(header)
	up.Biography = biography(doc)

	top := doc.Find(".o_wprofile_sidebar .o_wprofile_sidebar_top")
	if up.CurrentRank, ok = text(top.Find("a")); !ok {
		return up, missing("current rank")
	}
	icon, ok := top.Find("img").First().Attr("src")
	if !ok {
		return up, missing("current rank icon")
	}
	up.CurrentRankIcon = p.abs(icon)

	table := doc.Find("table#o_wprofile_sidebar_table").First()
	if up.Joined, ok = text(thValue(table, "Joined")); !ok {
		return up, missing("joined")
	}
	votes, ok := text(thValue(table, "Votes"))
	if !ok {
		return up, missing("votes")
	}
	var err error
	if up.PositiveVotes, up.NegativeVotes, err = parseVotes(votes); err != nil {
		return up, err
	}

	circle := doc.Find("#o_wprofile_sidebar_collapse .o_wprofile_progress_circle").First()
	if circle.Length() == 0 {
		return up, missing("rank progress")
	}
	if up.NextRank, up.CurrentXP, up.NextRankXP, err = parseProgress(circle.Text()); err != nil {
		return up, err
	}
	up.NextRankProgress = up.Progress()
	nextIcon, ok := circle.Find("img").First().Attr("src")
	if !ok {
		return up, missing("next rank icon")
	}
	up.NextRankIcon = p.abs(nextIcon)
	up.AvatarImage = p.abs(avatarURL(doc))
	return up, nil
}

// location 读取定位图标之后的兄弟元素：第一个为城市，第二个内的 span 为国家。
func location(header *goquery.Selection) (city, country *string) {
	marker := header.Find("i.fa-map-marker").First()
	if marker.Length() == 0 {
		return nil, nil
	}
	entries := marker.NextAll()
	city = optional(entries.Eq(0))
	country = optional(entries.Eq(1).Find("span"))
	return city, country
}

// biography 返回 "Biography" 标题后一个元素的 HTML；内容为空时返回 nil。
func biography(doc *goquery.Document) *string {
	h5 := doc.Find("h5").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == "Biography"
	}).First()
	body := h5.Next()
	if body.Length() == 0 || strings.TrimSpace(body.Text()) == "" {
		return nil
	}
	h := outerHTML(body)
	return &h
}

// parseVotes 解析 "12 3" 形式的赞成/反对票数。
func parseVotes(s string) (pos, neg int, err error) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("%w: votes: unexpected text %q", ErrExtraction, s)
	}
	if pos, err = atoi(f[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: positive votes: %v", ErrExtraction, err)
	}
	if neg, err = atoi(f[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: negative votes: %v", ErrExtraction, err)
	}
	return pos, neg, nil
}

// parseProgress 解析 "<下一等级> <当前xp> / <所需xp> xp"。
// 等级名可能含空格，因此数字从末尾取。
func parseProgress(s string) (next string, cur, need int, err error) {
	f := strings.Fields(s)
	n := len(f)
	if n < 5 {
		return "", 0, 0, fmt.Errorf("%w: rank progress: unexpected text %q", ErrExtraction, s)
	}
	next = strings.Join(f[:n-4], " ")
	if cur, err = atoi(f[n-4]); err != nil {
		return "", 0, 0, fmt.Errorf("%w: current xp: %v", ErrExtraction, err)
	}
	if need, err = atoi(f[n-2]); err != nil {
		return "", 0, 0, fmt.Errorf("%w: next rank xp: %v", ErrExtraction, err)
	}
	return next, cur, need, nil
}

// avatarURL 从 style="background-image: url(...)" 中取出头像地址。
func avatarURL(doc *goquery.Document) string {
	style, ok := doc.Find(".o_wprofile_pict").First().Attr("style")
	if !ok {
		return ""
	}
	_, rest, found := strings.Cut(style, "url(")
	if !found {
		return ""
	}
	u, _, _ := strings.Cut(rest, ")")
	return strings.Trim(strings.TrimSpace(u), `'"`)
}
