// 包 aggregate 负责主流程编排：
// - 重建用户数据目录
// - 登录并落到资料页
// - 按类别依次解析并写出 JSON（资料→徽章→问题→回答→动态→投票）
// 任何一步失败立即返回，之后的类别不会写出。
package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-forum-profile/internal/config"
	"go-forum-profile/internal/export"
	"go-forum-profile/internal/forum"
	"go-forum-profile/internal/logx"
	"go-forum-profile/internal/model"
	"go-forum-profile/internal/store"
)

// Authenticator 登录并返回资料页；*fetch.Session 满足该接口。
type Authenticator interface {
	forum.Fetcher
	Login(ctx context.Context, creds config.Credentials) (*goquery.Document, error)
}

// Extractors 汇集各类解析能力，默认全部由 *forum.Parser 提供。
type Extractors struct {
	Profile   forum.ProfileParser
	Badges    forum.BadgeParser
	Questions forum.QuestionCollector
	Answers   forum.AnswerCollector
	Activity  forum.ActivityParser
	Votes     forum.VoteParser
}

// FromParser 用同一个解析器填充全部能力。
func FromParser(p *forum.Parser) Extractors {
	return Extractors{
		Profile:   p,
		Badges:    p,
		Questions: p,
		Answers:   p,
		Activity:  p,
		Votes:     p,
	}
}

// Runner 持有凭据/会话/目录/解析器，执行一次完整抓取。
type Runner struct {
	creds   config.Credentials
	session Authenticator
	dir     *store.Dir
	ex      Extractors
}

// New 创建 Runner。
func New(creds config.Credentials, session Authenticator, dir *store.Dir, ex Extractors) *Runner {
	return &Runner{creds: creds, session: session, dir: dir, ex: ex}
}

// Run 执行一轮抓取并返回全部数据。
func (r *Runner) Run(ctx context.Context) (model.Dataset, error) {
	var ds model.Dataset
	started := time.Now()

	if err := r.dir.ResetAndPrepare(); err != nil {
		return ds, fmt.Errorf("prepare data dir: %w", err)
	}
	logx.Infof("数据目录：%s", r.dir.Path())

	doc, err := r.session.Login(ctx, r.creds)
	if err != nil {
		return ds, fmt.Errorf("login: %w", err)
	}
	logx.Infof("登录成功，已进入资料页（用户 %s）", r.creds.UserID)

	if ds.Profile, err = r.ex.Profile.ParseProfile(doc, r.creds.UserID); err != nil {
		return ds, fmt.Errorf("profile: %w", err)
	}
	if err := r.save(export.ProfileFile, ds.Profile); err != nil {
		return ds, err
	}

	ds.Badges = r.ex.Badges.ParseBadges(doc)
	logx.Infof("徽章：%d 枚", len(ds.Badges))
	if err := r.save(export.BadgesFile, ds.Badges); err != nil {
		return ds, err
	}

	if ds.Questions, err = r.ex.Questions.CollectQuestions(ctx, doc, r.session); err != nil {
		return ds, fmt.Errorf("questions: %w", err)
	}
	if err := r.save(export.QuestionsFile, ds.Questions); err != nil {
		return ds, err
	}

	if ds.Answers, err = r.ex.Answers.CollectAnswers(ctx, doc, r.session); err != nil {
		return ds, fmt.Errorf("answers: %w", err)
	}
	if err := r.save(export.AnswersFile, ds.Answers); err != nil {
		return ds, err
	}

	ds.Activity = r.ex.Activity.ParseActivity(doc)
	logx.Infof("动态：%d 条", len(ds.Activity))
	if err := r.save(export.ActivityFile, ds.Activity); err != nil {
		return ds, err
	}

	ds.Votes = r.ex.Votes.ParseVotes(doc)
	logx.Infof("投票：%d 次", len(ds.Votes))
	if err := r.save(export.VotesFile, ds.Votes); err != nil {
		return ds, err
	}

	logx.Infof("抓取完成，用时 %s", time.Since(started).Round(time.Millisecond))
	return ds, nil
}

func (r *Runner) save(name string, v any) error {
	if err := export.Save(r.dir.Path(), name, v); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	logx.Debugf("已保存 %s", export.Path(r.dir.Path(), name))
	return nil
}
