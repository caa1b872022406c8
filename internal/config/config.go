// 包 config 负责加载与校验应用配置（settings.yaml）与登录凭据（secret 文件），
// 对外提供结构体 Config/Credentials 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfig 标记配置或凭据缺失/非法，运行在发起任何网络请求前即终止。
var ErrConfig = errors.New("config error")

// 论坛站点默认地址。
const DefaultBaseURL = "https://www.odoo.com"

// 仅保留当前需要的字段（KISS/YAGNI）。
type Config struct {
	BaseURL   string `yaml:"BASE_URL"`
	DataDir   string `yaml:"DATA_DIR"`
	DelayMin  *int   `yaml:"DELAY_MIN"` // 秒
	DelayMax  *int   `yaml:"DELAY_MAX"` // 秒
	Timeout   int    `yaml:"TIMEOUT"`   // 秒，0 表示不设超时
	MaxItems  int    `yaml:"MAX_ITEMS"` // 每个分组最多抓取的详情页，0 表示不限
	Proxy     Proxy  `yaml:"PROXY"`
	Color     string `yaml:"COLOR"` // 报表着色 auto|always|never
	LogLevel  string `yaml:"LOG_LEVEL"`
	LogFormat string `yaml:"LOG_FORMAT"` // pretty|text|json|tint
	LogLocale string `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor  string `yaml:"LOG_COLOR"`  // auto|always|never
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// Load 从文件读取 YAML 并反序列化为 Config；文件不存在时全部使用默认值。
func Load(path string) (*Config, error) {
	var c Config
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// 无配置文件：走默认值
	case err != nil:
		return nil, fmt.Errorf("open config %s: %w", path, err)
	default:
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid BASE_URL %q", ErrConfig, c.BaseURL)
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.DelayMin == nil {
		c.DelayMin = intPtr(1)
	}
	if c.DelayMax == nil {
		c.DelayMax = intPtr(3)
	}
	if *c.DelayMin < 0 || *c.DelayMax < *c.DelayMin {
		return fmt.Errorf("%w: need 0 <= DELAY_MIN <= DELAY_MAX, got %d..%d", ErrConfig, *c.DelayMin, *c.DelayMax)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: TIMEOUT must be >= 0", ErrConfig)
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("%w: MAX_ITEMS must be >= 0", ErrConfig)
	}
	if c.Color == "" {
		c.Color = "auto"
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

// CourtesyDelay 返回两次详情页请求之间的随机等待区间。
func (c *Config) CourtesyDelay() (min, max time.Duration) {
	return time.Duration(*c.DelayMin) * time.Second, time.Duration(*c.DelayMax) * time.Second
}

// RequestTimeout 返回 HTTP 客户端超时，0 表示不限。
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func intPtr(v int) *int { return &v }
