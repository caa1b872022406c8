// 包 export 负责把各类抓取结果写为 JSON 文件，并能从目录中读回整次运行的数据。
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-forum-profile/internal/model"
)

// 各类数据的文件名（不含 .json 后缀）。
const (
	ProfileFile   = "user_profile"
	BadgesFile    = "user_badges"
	QuestionsFile = "related_questions"
	AnswersFile   = "answers"
	ActivityFile  = "activity"
	VotesFile     = "votes"
)

// Path 返回 dir/name.json。
func Path(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// Save 将 v 编码为带缩进的 JSON 写入 dir/name.json，已存在则覆盖。
func Save(dir, name string, v any) error {
	path := Path(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	// 正文是 HTML 片段，保留原样便于阅读
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	return f.Close()
}

// Load 读取 dir/name.json 并解码到 v。
func Load(dir, name string, v any) error {
	path := Path(dir, name)
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// LoadDataset 读回一次运行写出的全部文件，供离线生成报表。
func LoadDataset(dir string) (model.Dataset, error) {
	var d model.Dataset
	targets := []struct {
		name string
		v    any
	}{
		{ProfileFile, &d.Profile},
		{BadgesFile, &d.Badges},
		{QuestionsFile, &d.Questions},
		{AnswersFile, &d.Answers},
		{ActivityFile, &d.Activity},
		{VotesFile, &d.Votes},
	}
	for _, t := range targets {
		if err := Load(dir, t.name, t.v); err != nil {
			return d, err
		}
	}
	return d, nil
}
