// 命令行入口：
// - 解析 flags 与 settings.yaml / secret 文件
// - 初始化日志、HTTP 会话、用户数据目录
// - collect（默认）：登录抓取并写出 JSON，随后输出报表
// - report：从已保存的 JSON 重新输出报表，不访问网络
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"go-forum-profile/internal/aggregate"
	"go-forum-profile/internal/config"
	"go-forum-profile/internal/export"
	"go-forum-profile/internal/fetch"
	"go-forum-profile/internal/forum"
	"go-forum-profile/internal/logx"
	"go-forum-profile/internal/report"
	"go-forum-profile/internal/store"
)

var (
	configPath string
	secretPath string
	noReport   bool
	reportDir  string
)

var rootCmd = &cobra.Command{
	Use:           "forum-profile",
	Short:         "Collect and chart one user's participation in the Odoo community forum",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCollect,
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Log in, scrape the profile into <DATA_DIR>/<user_id>/*.json and print the report",
	RunE:  runCollect,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the report from previously collected JSON files",
	RunE:  runReport,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "settings.yaml", "path to settings.yaml (optional)")
	pf.StringVar(&secretPath, "secret", "secret.json", "path to the secret file with user_id/email/password (.json/.yaml/.env)")
	rootCmd.Flags().BoolVar(&noReport, "no-report", false, "only collect data, skip charts")
	collectCmd.Flags().BoolVar(&noReport, "no-report", false, "only collect data, skip charts")
	reportCmd.Flags().StringVar(&reportDir, "data", "", "directory holding the JSON files (default <DATA_DIR>/<user_id>)")
	rootCmd.AddCommand(collectCmd, reportCmd)
}

func main() {
	// 工作目录下的 .env 可提供 FORUM_UA / NO_COLOR 等环境变量
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logx.Errorf("运行失败：%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup 加载配置并初始化日志。
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logx.Init(logx.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Locale: cfg.LogLocale,
		Color:  cfg.LogColor,
	})
	return cfg, nil
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	started := time.Now().UTC()
	logx.Infof("开始运行：%s UTC", started.Format(time.DateTime))

	// 1) 凭据不完整时在任何网络请求之前终止
	creds, err := config.LoadCredentials(secretPath)
	if err != nil {
		return err
	}
	dir, err := store.Open(cfg.DataDir, creds.UserID)
	if err != nil {
		return err
	}

	// 2) 会话：单一 Cookie 罐，礼貌延迟
	delayMin, delayMax := cfg.CourtesyDelay()
	sess, err := fetch.New(fetch.Options{
		BaseURL:    cfg.BaseURL,
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		Timeout:    cfg.RequestTimeout(),
		DelayMin:   delayMin,
		DelayMax:   delayMax,
	})
	if err != nil {
		return fmt.Errorf("http session: %w", err)
	}
	parser := forum.NewParser(sess.Base())
	parser.MaxItems = cfg.MaxItems

	// 3) 抓取并落盘
	ds, err := aggregate.New(creds, sess, dir, aggregate.FromParser(parser)).Run(cmd.Context())
	if err != nil {
		return err
	}

	// 4) 报表
	if !noReport {
		r := report.Renderer{Color: logx.ShouldColor(os.Stdout, cfg.Color)}
		if err := r.Report(cmd.OutOrStdout(), ds); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	logx.Infof("总用时 %s，结束于 %s UTC", time.Since(started).Round(time.Millisecond), time.Now().UTC().Format(time.DateTime))
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	dir := reportDir
	if dir == "" {
		creds, err := config.LoadCredentials(secretPath)
		if err != nil {
			return fmt.Errorf("no --data given: %w", err)
		}
		dir = filepath.Join(cfg.DataDir, creds.UserID)
	}
	ds, err := export.LoadDataset(dir)
	if err != nil {
		return err
	}
	logx.Infof("已读取 %s", dir)
	r := report.Renderer{Color: logx.ShouldColor(os.Stdout, cfg.Color)}
	return r.Report(cmd.OutOrStdout(), ds)
}
