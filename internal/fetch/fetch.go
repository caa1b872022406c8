// 包 fetch 封装登录后的 HTTP 会话（Cookie/代理/礼貌延迟），
// 用于登录论坛并抓取资料页与问题/回答详情页。
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"go-forum-profile/internal/logx"
)

const maxRedirects = 10

const defaultUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"

// StatusError 表示服务端返回了非 2xx 状态码；不做重试。
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP response status code: %d (%s %s)", e.Code, e.Method, e.URL)
}

// Session 为整个运行共享的会话：同一个 Cookie 罐贯穿所有请求。
type Session struct {
	base     *url.URL
	http     *resty.Client
	delayMin time.Duration
	delayMax time.Duration
	sleep    func(context.Context, time.Duration) error
}

// Options 为会话构造参数。
type Options struct {
	BaseURL    string
	ProxyHTTP  string
	ProxyHTTPS string
	// Timeout 为 0 时不设超时
	Timeout  time.Duration
	DelayMin time.Duration
	DelayMax time.Duration
}

// New 创建会话，支持 http/https 代理；User-Agent 可由环境变量 FORUM_UA 覆盖。
func New(opts Options) (*Session, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	cl := resty.New()
	cl.SetBaseURL(base.String())
	cl.SetCookieJar(jar)
	cl.SetTransport(&http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && opts.ProxyHTTPS != "" {
				return url.Parse(opts.ProxyHTTPS)
			}
			if req.URL.Scheme == "http" && opts.ProxyHTTP != "" {
				return url.Parse(opts.ProxyHTTP)
			}
			return http.ProxyFromEnvironment(req)
		},
	})
	// 最多跟随 10 次重定向，且只在站点域名内跳转
	cl.SetRedirectPolicy(
		resty.FlexibleRedirectPolicy(maxRedirects),
		resty.DomainCheckRedirectPolicy(base.Hostname()),
	)
	if opts.Timeout > 0 {
		cl.SetTimeout(opts.Timeout)
	}
	ua := os.Getenv("FORUM_UA")
	if ua == "" {
		ua = defaultUA
	}
	cl.SetHeader("User-Agent", ua)

	if opts.DelayMax < opts.DelayMin {
		opts.DelayMax = opts.DelayMin
	}
	return &Session{
		base:     base,
		http:     cl,
		delayMin: opts.DelayMin,
		delayMax: opts.DelayMax,
		sleep:    sleepCtx,
	}, nil
}

// Base 返回站点根地址，供解析器把相对链接绝对化。
func (s *Session) Base() *url.URL {
	u := *s.base
	return &u
}

// Fetch 在礼貌延迟之后 GET 一个详情页并解析为文档。
func (s *Session) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	d := s.courtesyDelay()
	logx.Debugf("等待 %s 后请求：%s", d, pageURL)
	if err := s.sleep(ctx, d); err != nil {
		return nil, err
	}
	res, err := s.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", pageURL, err)
	}
	return s.document(res)
}

// document 检查状态码并解析响应体；文档 Url 为跟随重定向后的最终地址。
func (s *Session) document(res *resty.Response) (*goquery.Document, error) {
	req := res.Request
	if !res.IsSuccess() {
		return nil, &StatusError{Method: req.Method, URL: req.URL, Code: res.StatusCode()}
	}
	logx.Debugf("HTTP response status code: %d (%s %s)", res.StatusCode(), req.Method, req.URL)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", req.URL, err)
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		doc.Url = res.RawResponse.Request.URL
	}
	return doc, nil
}

// courtesyDelay 在 [delayMin, delayMax] 内取随机值；区间不小于 1 秒时按整秒取值。
func (s *Session) courtesyDelay() time.Duration {
	span := s.delayMax - s.delayMin
	if span <= 0 {
		return s.delayMin
	}
	if steps := int64(span / time.Second); steps > 0 {
		return s.delayMin + time.Duration(rand.Int63n(steps+1))*time.Second
	}
	return s.delayMin + time.Duration(rand.Int63n(int64(span)+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
