package analyzer

import (
	"context"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lthibault/jitterbug"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/flv-inspector/src/configs"
	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/interfaces"
	"github.com/yuhaohwang/flv-inspector/src/pkg/counter"
	"github.com/yuhaohwang/flv-inspector/src/pkg/events"
	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
	"github.com/yuhaohwang/flv-inspector/src/report"
)

const (
	begin uint32 = iota
	running
	stopped
)

// for test
var (
	newParser = func(cfg configs.Parser) (parser.Parser, error) {
		return parser.New(cfg.Name, cfg.BuildConfig())
	}

	newSink = func(cfg configs.Report, w io.Writer) (parser.Sink, error) {
		return report.New(cfg.Format, w, report.Options{
			Template:  cfg.Template,
			ShowUnits: cfg.ShowUnits,
			Filter:    cfg.Filter,
		})
	}

	openInput = func(name string) (io.ReadCloser, error) {
		switch {
		case isStdio(name):
			return io.NopCloser(os.Stdin), nil
		case isRemote(name):
			return openRemote(name)
		}
		return os.Open(name)
	}

	createOutput = func(name string) (io.WriteCloser, error) {
		if isStdio(name) {
			return nopWriteCloser{os.Stdout}, nil
		}
		return os.Create(name)
	}
)

func isStdio(name string) bool {
	return name == "" || name == "-"
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Analyzer 定义 Analyzer 接口，一个 Analyzer 分析一个输入。
type Analyzer interface {
	Run(ctx context.Context) error
	StartTime() time.Time
	GetStatus() (map[string]string, error)
	Close()
}

// analyzer 是 Analyzer 接口的实现。
type analyzer struct {
	Input string

	config     *configs.Config
	ed         events.Dispatcher
	logger     *interfaces.Logger
	session    string
	startTime  time.Time
	parser     parser.Parser
	parserLock *sync.RWMutex
	output     counter.CountWriter

	stop  chan struct{}
	state uint32
}

// NewAnalyzer 创建一个新的 Analyzer 实例，input 为空或 "-" 时读取标准输入，
// 为 http(s) 地址时读取 HTTP-FLV 流。
func NewAnalyzer(ctx context.Context, input string) (Analyzer, error) {
	inst := instance.GetInstance(ctx)
	if inst == nil || inst.Config == nil {
		return nil, errors.New("实例未初始化")
	}
	session, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "无法生成会话ID")
	}
	ed, _ := inst.EventDispatcher.(events.Dispatcher)
	logger := inst.Logger
	if logger == nil {
		logger = &interfaces.Logger{Logger: logrus.StandardLogger()}
	}
	a := &analyzer{
		Input:      input,
		config:     inst.Config,
		ed:         ed,
		logger:     logger,
		session:    session.String(),
		startTime:  time.Now(),
		state:      begin,
		stop:       make(chan struct{}),
		parserLock: new(sync.RWMutex),
	}
	inst.Analyzer = a
	return a, nil
}

// Run 分析输入直到流结束、出错或被关闭。流恰好在标签边界结束时返回 nil。
func (a *analyzer) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapUint32(&a.state, begin, running) {
		return ErrAnalyzerStarted
	}

	p, err := newParser(a.config.Parser)
	if err != nil {
		return errors.Wrap(err, "初始化解析器失败")
	}
	a.setParser(p)
	// Close 可能先于解析器就绪被调用
	select {
	case <-a.stop:
		p.Stop()
	default:
	}

	in, err := openInput(a.Input)
	if err != nil {
		return errors.Wrapf(err, "无法打开输入[%s]", a.inputName())
	}
	defer in.Close()

	out, err := createOutput(a.config.Report.Output)
	if err != nil {
		return errors.Wrapf(err, "无法创建输出[%s]", a.config.Report.Output)
	}
	defer out.Close()

	a.setOutput(counter.NewCountWriter(out))
	sink, err := newSink(a.config.Report, a.getOutput())
	if err != nil {
		return errors.Wrap(err, "初始化报告失败")
	}

	a.startTime = time.Now()
	a.getLogger().Debug("开始分析")
	a.dispatch(AnalyzeStart)

	done := make(chan struct{})
	if interval := a.config.ProgressInterval; interval > 0 {
		go a.progress(interval, done)
	}
	err = p.ParseStream(ctx, in, sink)
	close(done)

	entry := a.getLogger().WithField("elapsed", time.Since(a.startTime).String())
	if status, serr := a.GetStatus(); serr == nil {
		entry = entry.WithFields(statusFields(status))
	}
	if err != nil {
		entry.WithError(err).Debug("分析失败")
	} else {
		entry.Debug("分析结束")
	}
	a.dispatch(AnalyzeStop)

	return errors.Wrapf(err, "分析[%s]失败", a.inputName())
}

// progress 按带随机抖动的间隔输出解析进度
func (a *analyzer) progress(interval time.Duration, done <-chan struct{}) {
	ticker := jitterbug.New(
		interval,
		jitterbug.Norm{
			Stdev: interval / 10,
		},
	)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-a.stop:
			return
		case <-ticker.C:
			status, err := a.GetStatus()
			if err != nil {
				continue
			}
			a.getLogger().WithFields(statusFields(status)).Info("解析进度")
		}
	}
}

func statusFields(status map[string]string) logrus.Fields {
	fields := make(logrus.Fields, len(status))
	for k, v := range status {
		fields[k] = v
	}
	return fields
}

func (a *analyzer) dispatch(t events.EventType) {
	if a.ed != nil {
		a.ed.DispatchEvent(events.NewEvent(t, a))
	}
}

func (a *analyzer) inputName() string {
	if isStdio(a.Input) {
		return "stdin"
	}
	return a.Input
}

// getParser 获取当前解析器。
func (a *analyzer) getParser() parser.Parser {
	a.parserLock.RLock()
	defer a.parserLock.RUnlock()
	return a.parser
}

func (a *analyzer) setParser(p parser.Parser) {
	a.parserLock.Lock()
	defer a.parserLock.Unlock()
	a.parser = p
}

func (a *analyzer) getOutput() counter.CountWriter {
	a.parserLock.RLock()
	defer a.parserLock.RUnlock()
	return a.output
}

func (a *analyzer) setOutput(w counter.CountWriter) {
	a.parserLock.Lock()
	defer a.parserLock.Unlock()
	a.output = w
}

// StartTime 返回开始分析的时间。
func (a *analyzer) StartTime() time.Time {
	return a.startTime
}

// Close 停止分析，Run 在当前标签处理完后返回。
func (a *analyzer) Close() {
	if !atomic.CompareAndSwapUint32(&a.state, running, stopped) {
		return
	}
	close(a.stop)
	if p := a.getParser(); p != nil {
		p.Stop()
	}
	a.getLogger().Info("分析已停止")
}

// getLogger 返回带有会话字段的日志记录器。
func (a *analyzer) getLogger() *logrus.Entry {
	return a.logger.WithFields(logrus.Fields{
		"session": a.session,
		"input":   a.inputName(),
	})
}

// GetStatus 获取解析器的状态，附加报告已输出的字节数。
func (a *analyzer) GetStatus() (map[string]string, error) {
	statusP, ok := a.getParser().(parser.StatusParser)
	if !ok {
		return nil, ErrParserNotSupportStatus
	}
	status, err := statusP.Status()
	if err != nil {
		return nil, err
	}
	if w := a.getOutput(); w != nil {
		status["report_bytes"] = strconv.FormatInt(w.Count(), 10)
	}
	return status, nil
}
