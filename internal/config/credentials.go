package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Credentials 为登录论坛所需的用户标识与密码，只读，不会写入任何输出文件。
type Credentials struct {
	UserID   string `yaml:"user_id" validate:"required,notblank"`
	Email    string `yaml:"email" validate:"required,notblank"`
	Password string `yaml:"password" validate:"required,notblank"`
}

// String 隐藏密码，便于调试日志直接打印。
func (c Credentials) String() string {
	return fmt.Sprintf("user_id=%s email=%s password=***", c.UserID, c.Email)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 报错时使用 secret 文件中的键名，而不是 Go 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("yaml")
	})
	// 仅含空白的值与缺失同等对待
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Validate 检查三个键均存在且不为空白。
func (c Credentials) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	if ves, ok := err.(validator.ValidationErrors); ok {
		keys := make([]string, 0, len(ves))
		for _, fe := range ves {
			keys = append(keys, fe.Field())
		}
		return fmt.Errorf("%w: missing or empty credentials: %s", ErrConfig, strings.Join(keys, ", "))
	}
	return fmt.Errorf("%w: %v", ErrConfig, err)
}

// LoadCredentials 读取 secret 文件：.env 使用 godotenv 解析，
// 其余（.json/.yaml/.yml）交给 yaml.v3（JSON 是 YAML 的子集）。
func LoadCredentials(path string) (Credentials, error) {
	raw, err := readSecret(path)
	if err != nil {
		return Credentials{}, err
	}
	c := Credentials{
		UserID:   strings.TrimSpace(lookup(raw, "user_id")),
		Email:    strings.TrimSpace(lookup(raw, "email")),
		Password: lookup(raw, "password"),
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("credentials %s: %w", path, err)
	}
	return c, nil
}

func readSecret(path string) (map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".env") {
		m, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read secret %s: %v", ErrConfig, path, err)
		}
		return m, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read secret %s: %v", ErrConfig, path, err)
	}
	var anyMap map[string]any
	if err := yaml.Unmarshal(b, &anyMap); err != nil {
		return nil, fmt.Errorf("%w: parse secret %s: %v", ErrConfig, path, err)
	}
	out := make(map[string]string, len(anyMap))
	for k, v := range anyMap {
		out[k] = scalar(v)
	}
	return out, nil
}

// lookup 先按原键名查找，再尝试大写形式（.env 习惯）。值原样返回，密码中的首尾空格有意义。
func lookup(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return m[strings.ToUpper(key)]
}

// scalar 将 YAML 标量转为字符串；零值（0/false/null）视为空。
func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
