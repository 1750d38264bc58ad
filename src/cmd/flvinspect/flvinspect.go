package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bluele/gcache"

	_ "github.com/yuhaohwang/flv-inspector/src/cmd/flvinspect/internal"
	"github.com/yuhaohwang/flv-inspector/src/analyzer"
	"github.com/yuhaohwang/flv-inspector/src/cmd/flvinspect/internal/flag"
	"github.com/yuhaohwang/flv-inspector/src/configs"
	"github.com/yuhaohwang/flv-inspector/src/consts"
	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/log"
	"github.com/yuhaohwang/flv-inspector/src/metrics"
	"github.com/yuhaohwang/flv-inspector/src/pkg/events"
	"github.com/yuhaohwang/flv-inspector/src/servers"
)

// getConfig 函数用于获取程序的配置信息。
func getConfig() (*configs.Config, error) {
	var config *configs.Config

	if *flag.Conf != "" {
		// 指定了配置文件时从文件加载配置，位置参数仍然生效
		c, err := configs.NewConfigWithFile(*flag.Conf)
		if err != nil {
			return nil, err
		}
		if *flag.Input != "" {
			c.Input = *flag.Input
		}
		config = c
	} else {
		config = flag.GenConfigFromFlags()
	}

	return config, config.Verify()
}

func main() {
	os.Exit(run())
}

// run 返回进程退出码：流在标签边界正常结束时为 0，否则为 1。
func run() int {
	config, err := getConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	inst := new(instance.Instance)
	inst.Config = config

	ctx, cancel := context.WithCancel(instance.WithInstance(context.Background(), inst))
	defer cancel()

	logger, err := log.New(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	logger.Debugf("%s 版本: %s", consts.AppName, consts.AppVersion)
	if config.File != "" {
		logger.Debugf("配置路径: %s.", config.File)
		logger.Debugf("其他标志已被忽略.")
	} else {
		logger.Debugf("标志: %s 被使用.", os.Args)
	}
	logger.Debugf("%+v", consts.AppInfo)
	logger.Debugf("%+v", inst.Config)

	// 创建事件分发器
	ed := events.NewDispatcher(ctx)
	defer ed.Close(ctx)

	// 初始化指标收集器
	if config.Metrics.Enable {
		mc := metrics.NewCollector(ctx)
		if err := mc.Start(ctx); err != nil {
			logger.WithError(err).Error("初始化指标收集器失败")
			return 1
		}
		defer mc.Close(ctx)
	}

	a, err := analyzer.NewAnalyzer(ctx, config.Input)
	if err != nil {
		logger.WithError(err).Error("初始化分析器失败")
		return 1
	}

	// 启动检查服务器
	if config.RPC.Enable {
		inst.Cache = gcache.New(1024).LRU().Build()
		s := servers.NewServer(ctx)
		if err := s.Start(ctx); err != nil {
			logger.WithError(err).Error("启动检查服务器失败")
			return 1
		}
		defer s.Close(ctx)
	}

	// 收到信号后在当前标签处理完时停止
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			a.Close()
		case <-ctx.Done():
		}
	}()

	if err := a.Run(ctx); err != nil {
		logger.WithError(err).Error("分析失败")
		return 1
	}
	return 0
}
