package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/han-fei/hostmon/agent"
	"github.com/han-fei/hostmon/agent/internal/config"
	"github.com/han-fei/hostmon/internal/utils"
)

var (
	configFile string
	maxCycles  int
)

func init() {
	flag.StringVar(&configFile, "config", "config.json", "配置文件路径")
	flag.IntVar(&maxCycles, "cycles", 0, "执行的采集周期数，0表示一直运行")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	// 加载配置
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置文件失败: %v\n", err)
		return 1
	}

	logger, err := utils.NewLogger(utils.LoggerOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建日志器失败: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// 等待信号，收到后在当前周期结束时退出
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := agent.NewAgent(cfg, agent.WithLogger(logger), agent.WithMaxCycles(maxCycles))
	if err != nil {
		logger.Error("创建采集代理失败", zap.String("resource", utils.ResourceOf(err)), zap.Error(err))
		return 1
	}
	printSystemInfo(logger, a)

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		logger.Error("释放资源失败", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("采集代理异常终止", zap.String("resource", utils.ResourceOf(runErr)), zap.Error(runErr))
		return 1
	}

	logger.Info("数据采集代理已关闭", zap.Int("cycles", a.Cycles()))
	return 0
}

// printSystemInfo 打印系统信息
func printSystemInfo(logger *zap.Logger, a *agent.Agent) {
	logger.Info("数据采集代理已启动",
		zap.String("config", configFile),
		zap.String("hostname", a.Host.Hostname),
		zap.String("os", a.Host.OS),
		zap.String("platform", a.Host.Platform),
		zap.String("kernel", a.Host.KernelVersion),
		zap.Int("cpu_cores", a.Host.CPUCores),
		zap.Duration("period", a.Config.PeriodDuration()),
		zap.Int("metrics", len(a.Config.Metrics)),
		zap.Int("outputs", len(a.Config.Outputs)),
	)
}
