package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shenliangsheng/tmbilling/internal/config"
	"github.com/shenliangsheng/tmbilling/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func printVersion() {
	fmt.Printf("tmbilling %s\n", version)
	fmt.Printf("  build time: %s\n", buildTime)
	fmt.Printf("  git commit: %s\n", gitCommit)
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		if strings.Contains(err.Error(), "version requested") {
			printVersion()
			os.Exit(0)
		}
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Version = version

	setupLogging(cfg)
	if cfg.IsDebug() {
		log.Printf("Configuration: %s", cfg)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config) error {
	sess := pipeline.NewSession(cfg)
	log.Printf("Session %s: processing PDFs in %s (mode=%s)", sess.ID(), cfg.InputDir, cfg.Mode)

	if err := sess.ProcessBatch(); err != nil {
		return err
	}

	for _, fe := range sess.FileErrors() {
		log.Printf("跳过文件 %s", fe)
	}
	for _, w := range sess.Warnings() {
		log.Printf("警告 %s", w)
	}

	records := sess.Records()
	if len(records) == 0 {
		return fmt.Errorf("no files could be processed (%d failed)", len(sess.FileErrors()))
	}
	log.Printf("成功处理 %d 个文件, %d 个文件失败", len(records), len(sess.FileErrors()))

	for _, mark := range sess.UnresolvedMarks() {
		log.Printf("商标 %q (申请人 %s) 需要手动输入类别, 请在参数文件的 classes 中补充",
			mark.Trademark, mark.Applicant)
	}

	if err := sess.Generate(); err != nil {
		return fmt.Errorf("document generation failed (extraction results are preserved, fix and rerun): %w", err)
	}

	for _, g := range sess.Generated() {
		log.Printf("生成 %s", g.Path)
	}
	log.Printf("共发现 %d 个申请人, 生成 %d 个文件", len(sess.Groups()), len(sess.Generated()))
	return nil
}
