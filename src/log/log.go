package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/interfaces"
)

// New 根据实例中的配置创建日志记录器，并设置为实例的日志记录器。
// 报告可能写到标准输出，日志只写标准错误和日志文件。
func New(ctx context.Context) (*interfaces.Logger, error) {
	inst := instance.GetInstance(ctx)
	config := inst.Config

	logLevel := logrus.InfoLevel
	if config.Debug {
		logLevel = logrus.DebugLevel
	}

	writers := []io.Writer{os.Stderr}
	outputFolder := config.Log.OutPutFolder

	// 为当前运行创建一个日志文件
	if config.Log.SaveEveryLog {
		runID := time.Now().Format("run-2006-01-02-15-04-05")
		logLocation := filepath.Join(outputFolder, runID+".log")
		logFile, err := os.OpenFile(logLocation, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "无法打开日志文件 %s", logLocation)
		}
		writers = append(writers, logFile)
	}

	// 创建或截断默认的日志文件
	if config.Log.SaveLastLog {
		logLocation := filepath.Join(outputFolder, "flv-inspector.log")
		logFile, err := os.OpenFile(logLocation, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "无法打开默认日志文件 %s", logLocation)
		}
		writers = append(writers, logFile)
	}

	logger := &interfaces.Logger{Logger: &logrus.Logger{
		Out: io.MultiWriter(writers...),
		Formatter: &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLevel,
	}}

	inst.Logger = logger
	return logger, nil
}
