package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/config"
	"go-forum-profile/internal/logx"
)

// 登录端点；登录表单的 action 也指向它。
const LoginPath = "/web/login"

// ErrNoCSRFToken 表示登录页中没有找到表单内嵌的 csrf_token。
var ErrNoCSRFToken = errors.New("csrf token not found on login page")

// ProfilePath 返回用户资料页路径。
func ProfilePath(userID string) string {
	return "/profile/user/" + userID
}

// Login 先 GET 登录页取得 csrf_token，再带同一 Cookie 罐 POST 凭据，
// 并通过 redirect 字段直接落到资料页。返回的文档即资料页，供各解析器使用。
// 登录失败不重试。
func (s *Session) Login(ctx context.Context, creds config.Credentials) (*goquery.Document, error) {
	res, err := s.http.R().SetContext(ctx).Get(LoginPath)
	if err != nil {
		return nil, fmt.Errorf("GET login page: %w", err)
	}
	page, err := s.document(res)
	if err != nil {
		return nil, fmt.Errorf("login page: %w", err)
	}
	token, err := csrfToken(page)
	if err != nil {
		return nil, err
	}
	logx.Debugf("已获取 csrf_token，提交登录：%s", creds)

	res, err = s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"login":      creds.Email,
			"password":   creds.Password,
			"redirect":   ProfilePath(creds.UserID),
			"csrf_token": token,
		}).
		Post(LoginPath)
	if err != nil {
		return nil, fmt.Errorf("POST login: %w", err)
	}
	doc, err := s.document(res)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return doc, nil
}

// csrfToken 只接受 action 指向登录端点的 POST 表单中的隐藏字段。
func csrfToken(doc *goquery.Document) (string, error) {
	var token string
	doc.Find("form").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		action, _ := f.Attr("action")
		method, _ := f.Attr("method")
		if action != LoginPath || !strings.EqualFold(method, "post") {
			return true
		}
		if v, ok := f.Find(`input[name="csrf_token"]`).First().Attr("value"); ok && v != "" {
			token = v
			return false
		}
		return true
	})
	if token == "" {
		return "", ErrNoCSRFToken
	}
	return token, nil
}
