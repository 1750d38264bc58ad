package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/interfaces"
	"github.com/yuhaohwang/flv-inspector/src/pkg/events"
	"github.com/yuhaohwang/flv-inspector/src/pkg/parser/native/flv"
)

// 定义 Prometheus 指标的描述符
var (
	tagsTotal = prometheus.NewDesc(
		prometheus.BuildFQName("flv", "tags", "total"),
		"Number of parsed FLV tags.",
		[]string{"tag_type"},
		nil,
	)
	payloadBytesTotal = prometheus.NewDesc(
		prometheus.BuildFQName("flv", "payload", "bytes_total"),
		"Declared payload bytes of parsed FLV tags.",
		[]string{"tag_type"},
		nil,
	)
	parseErrorsTotal = prometheus.NewDesc(
		prometheus.BuildFQName("flv", "parse", "errors_total"),
		"Number of fatal parse errors.",
		[]string{"kind"},
		nil,
	)
	lastTimestamp = prometheus.NewDesc(
		prometheus.BuildFQName("flv", "last_timestamp", "milliseconds"),
		"Extended timestamp of the last parsed tag.",
		nil,
		nil,
	)
)

// tagTypeLabel 返回标签类型对应的指标标签值
func tagTypeLabel(t flv.TagType) string {
	switch t {
	case flv.AudioTag:
		return "audio"
	case flv.VideoTag:
		return "video"
	case flv.ScriptTag:
		return "script"
	default:
		return "unknown"
	}
}

// collector 由解析事件驱动的 Prometheus 指标收集器
type collector struct {
	inst     *instance.Instance
	registry *prometheus.Registry

	lock          sync.Mutex
	tags          map[string]float64
	payloadBytes  map[string]float64
	parseErrors   map[string]float64
	lastTimestamp float64

	listeners map[events.EventType]*events.EventListener
}

// NewCollector 创建一个新的收集器实例，并挂到上下文中的实例上
func NewCollector(ctx context.Context) interfaces.Module {
	c := &collector{
		inst:         instance.GetInstance(ctx),
		registry:     prometheus.NewRegistry(),
		tags:         make(map[string]float64),
		payloadBytes: make(map[string]float64),
		parseErrors:  make(map[string]float64),
	}
	if c.inst != nil {
		c.inst.MetricsCollector = c
	}
	return c
}

func (c *collector) onTagParsed(event *events.Event) {
	tag, ok := event.Object.(*flv.Tag)
	if !ok {
		return
	}
	label := tagTypeLabel(tag.Type)

	c.lock.Lock()
	defer c.lock.Unlock()
	c.tags[label]++
	c.payloadBytes[label] += float64(tag.DataSize)
	c.lastTimestamp = float64(tag.ExtendedTimestamp())
}

func (c *collector) onParseFailed(event *events.Event) {
	err, ok := event.Object.(error)
	if !ok {
		return
	}
	kind := "Other"
	var pe *flv.ParseError
	if errors.As(err, &pe) {
		kind = pe.Kind.String()
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.parseErrors[kind]++
}

// Collect 收集 Prometheus 指标
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for label, v := range c.tags {
		ch <- prometheus.MustNewConstMetric(tagsTotal, prometheus.CounterValue, v, label)
	}
	for label, v := range c.payloadBytes {
		ch <- prometheus.MustNewConstMetric(payloadBytesTotal, prometheus.CounterValue, v, label)
	}
	for kind, v := range c.parseErrors {
		ch <- prometheus.MustNewConstMetric(parseErrorsTotal, prometheus.CounterValue, v, kind)
	}
	ch <- prometheus.MustNewConstMetric(lastTimestamp, prometheus.GaugeValue, c.lastTimestamp)
}

// Describe 描述 Prometheus 指标
func (*collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- tagsTotal
	ch <- payloadBytesTotal
	ch <- parseErrorsTotal
	ch <- lastTimestamp
}

// Start 注册到独立的 Registry，并开始监听解析事件
func (c *collector) Start(ctx context.Context) error {
	if err := c.registry.Register(c); err != nil {
		return err
	}
	ed := events.GetDispatcher(ctx)
	if ed == nil {
		return errors.New("事件分发器未初始化")
	}
	c.listeners = map[events.EventType]*events.EventListener{
		flv.TagParsed:   events.NewEventListener(c.onTagParsed),
		flv.ParseFailed: events.NewEventListener(c.onParseFailed),
	}
	for t, l := range c.listeners {
		ed.AddEventListener(t, l)
	}
	return nil
}

// Close 移除监听器，配置了文本文件时写出全部指标
func (c *collector) Close(ctx context.Context) {
	if ed := events.GetDispatcher(ctx); ed != nil {
		for t, l := range c.listeners {
			ed.RemoveEventListener(t, l)
		}
	}
	if c.inst == nil || c.inst.Config == nil || c.inst.Config.Metrics.Textfile == "" {
		return
	}
	if err := c.WriteTextfile(c.inst.Config.Metrics.Textfile); err != nil && c.inst.Logger != nil {
		c.inst.Logger.WithError(err).Error("写出指标文件失败")
	}
}

// WriteTextfile 以 Prometheus 文本格式写出全部指标
func (c *collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Handler 返回实例中指标收集器的 HTTP 处理器，未启用指标时返回 404。
func Handler(ctx context.Context) http.Handler {
	if inst := instance.GetInstance(ctx); inst != nil {
		if c, ok := inst.MetricsCollector.(*collector); ok {
			return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
		}
	}
	return http.NotFoundHandler()
}
