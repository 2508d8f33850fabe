// =============================================================================
// skillrouter 主入口
// =============================================================================
// 技能检索与激活的命令行入口
//
// 使用方法:
//
//	skillrouter search "分析单细胞RNA数据"        # 检索技能
//	skillrouter search --limit 10 --category devops "docker deployment"
//	skillrouter load scanpy pdf-extract           # 激活技能
//	skillrouter unload scanpy                     # 取消激活
//	skillrouter list                              # 列出激活技能
//
// 目录来源与激活目录通过 --config 或 SKILLROUTER_* 环境变量配置。
// =============================================================================
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/BaSui01/skillrouter"
	"github.com/BaSui01/skillrouter/config"
	"github.com/BaSui01/skillrouter/service"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "search":
		err = runSearch(os.Args[2:])
	case "load":
		err = runLoad(os.Args[2:])
	case "unload":
		err = runUnload(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "version":
		fmt.Printf("skillrouter %s (%s)\n", Version, GitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`skillrouter - route task descriptions to agent skills

Commands:
  search <query>         rank matching skills for a task description
  load <id>...           activate skills (symlink into the activation dir)
  unload <id>            deactivate a skill
  list                   list active skills
  version                show version`)
}

// buildService 加载配置并组装服务。
func buildService(configPath string) (*service.Service, *zap.Logger, error) {
	cfg, err := config.NewLoader().WithConfigPath(configPath).Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		return nil, nil, err
	}

	svc, err := skillrouter.New(
		skillrouter.WithConfig(cfg),
		skillrouter.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	limit := fs.Int("limit", 0, "max results")
	category := fs.String("category", "", "category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: skillrouter search [flags] <query>")
	}

	svc, logger, err := buildService(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := svc.FindSkills(context.Background(), fs.Arg(0), *limit, *category)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runLoad(args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: skillrouter load <id>...")
	}

	svc, logger, err := buildService(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := svc.LoadSkills(context.Background(), fs.Args())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runUnload(args []string) error {
	fs := flag.NewFlagSet("unload", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: skillrouter unload <id>")
	}

	svc, logger, err := buildService(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := svc.UnloadSkill(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, logger, err := buildService(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := svc.ListActiveSkills(context.Background())
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
