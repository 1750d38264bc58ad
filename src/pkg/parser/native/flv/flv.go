package flv

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/pkg/events"
	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

const (
	Name = "native"

	// 构建配置中的键
	CfgScriptValuePolicy         = "script_value_policy"
	CfgSkipUnknownTags           = "skip_unknown_tags"
	CfgSignExtendCompositionTime = "sign_extend_composition_time"
)

func init() {
	parser.Register(Name, new(builder))
}

type builder struct{}

func (b *builder) Build(cfg map[string]string) (parser.Parser, error) {
	opts := DefaultOptions()
	policy, err := ParseValuePolicy(cfg[CfgScriptValuePolicy])
	if err != nil {
		return nil, err
	}
	opts.ScriptValuePolicy = policy
	if v, ok := cfg[CfgSignExtendCompositionTime]; ok && v != "" {
		if opts.SignExtendCompositionTime, err = strconv.ParseBool(v); err != nil {
			return nil, err
		}
	}
	skip := false
	if v, ok := cfg[CfgSkipUnknownTags]; ok && v != "" {
		if skip, err = strconv.ParseBool(v); err != nil {
			return nil, err
		}
	}
	return NewParser(opts, skip), nil
}

// Metadata 从文件头得到的流信息。
type Metadata struct {
	HasVideo, HasAudio bool
}

// Summary 一次解析结束时的统计。
type Summary struct {
	Bytes         int64
	Tags          uint32
	AudioTags     uint32
	VideoTags     uint32
	ScriptTags    uint32
	SkippedTags   uint32
	LastTimestamp uint32

	// 最后一个标签之后的 PreviousTagSize，流在该字段之前结束时 HasLastPreviousTagSize 为 false
	LastPreviousTagSize    uint32
	HasLastPreviousTagSize bool
}

// Parser 解析一个FLV流，将结果写入 parser.Sink。
type Parser struct {
	Metadata Metadata

	opts            Options
	skipUnknownTags bool

	lock    sync.RWMutex
	summary Summary

	stopCh    chan struct{}
	closeOnce *sync.Once
}

// NewParser 创建解析器。skipUnknownTags 为 true 时未知类型的标签被跳过而不是终止解析。
func NewParser(opts Options, skipUnknownTags bool) *Parser {
	return &Parser{
		opts:            opts,
		skipUnknownTags: skipUnknownTags,
		stopCh:          make(chan struct{}),
		closeOnce:       new(sync.Once),
	}
}

// Stop 停止解析，ParseStream 在当前标签处理完后返回 nil。
func (p *Parser) Stop() error {
	p.closeOnce.Do(func() {
		close(p.stopCh)
	})
	return nil
}

// Status 返回当前的解析统计。
func (p *Parser) Status() (map[string]string, error) {
	s := p.Summary()
	status := map[string]string{
		"total_bytes":    strconv.FormatInt(s.Bytes, 10),
		"tag_count":      strconv.FormatUint(uint64(s.Tags), 10),
		"audio_tags":     strconv.FormatUint(uint64(s.AudioTags), 10),
		"video_tags":     strconv.FormatUint(uint64(s.VideoTags), 10),
		"script_tags":    strconv.FormatUint(uint64(s.ScriptTags), 10),
		"skipped_tags":   strconv.FormatUint(uint64(s.SkippedTags), 10),
		"last_timestamp": strconv.FormatUint(uint64(s.LastTimestamp), 10),
	}
	if s.HasLastPreviousTagSize {
		status["last_previous_tag_size"] = strconv.FormatUint(uint64(s.LastPreviousTagSize), 10)
	}
	return status, nil
}

// Summary 返回统计的一份拷贝。
func (p *Parser) Summary() Summary {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.summary
}

// ParseStream 解析FLV流。流恰好在标签边界结束时返回 nil，
// 否则返回 *ParseError、sink 的写入错误或 ctx.Err()。
func (p *Parser) ParseStream(ctx context.Context, r io.Reader, sink parser.Sink) error {
	logger := getLogger(ctx)
	ed := events.GetDispatcher(ctx)
	dispatch := func(t events.EventType, obj interface{}) {
		if ed != nil {
			ed.DispatchEvent(events.NewEvent(t, obj))
		}
	}

	tr := NewTagReader(r, p.opts)
	fail := func(err error) error {
		p.updateBytes(tr.Offset())
		logger.WithError(err).Error("FLV解析失败")
		dispatch(ParseFailed, err)
		return err
	}

	// 解析FLV文件头
	h, err := tr.ReadHeader()
	if err != nil {
		return fail(err)
	}
	p.Metadata.HasAudio = h.HasAudio
	p.Metadata.HasVideo = h.HasVideo
	p.updateBytes(tr.Offset())
	logger.WithFields(logrus.Fields{
		"version":   h.Version,
		"has_audio": h.HasAudio,
		"has_video": h.HasVideo,
	}).Debug("FLV文件头")
	if err := sink.WriteRecord(HeaderRecord(h)); err != nil {
		return err
	}
	dispatch(HeaderParsed, h)

	// 开始解析标签
	for {
		select {
		case <-p.stopCh:
			logger.Info("解析已停止")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tag, err := tr.Next()
		if errors.Is(err, ErrEndOfStream) {
			p.finish(tr)
			break
		}
		if err != nil {
			var pe *ParseError
			if p.skipUnknownTags && errors.As(err, &pe) && pe.Kind == KindUnknownTagType {
				logger.WithField("tag", pe.TagIndex).WithField("offset", pe.Offset).Warn("跳过未知类型的标签")
				if err := tr.Skip(); err != nil {
					return fail(err)
				}
				p.countSkipped(tr.Offset())
				continue
			}
			return fail(err)
		}

		p.countTag(tag, tr.Offset())
		if err := sink.WriteRecord(TagRecord(tag)); err != nil {
			return err
		}
		dispatch(TagParsed, tag)
	}

	s := p.Summary()
	logger.WithFields(logrus.Fields{
		"tags":  s.Tags,
		"bytes": s.Bytes,
	}).Debug("FLV解析完成")
	if err := sink.WriteRecord(SummaryRecord(&s)); err != nil {
		return err
	}
	dispatch(ParseFinished, &s)
	return nil
}

// finish 记录流结束时的偏移和最后一个 PreviousTagSize
func (p *Parser) finish(tr *TagReader) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.summary.Bytes = tr.Offset()
	p.summary.LastPreviousTagSize, p.summary.HasLastPreviousTagSize = tr.LastPreviousTagSize()
}

func (p *Parser) updateBytes(offset int64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.summary.Bytes = offset
}

func (p *Parser) countSkipped(offset int64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.summary.Bytes = offset
	p.summary.Tags++
	p.summary.SkippedTags++
}

func (p *Parser) countTag(tag *Tag, offset int64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.summary.Bytes = offset
	p.summary.Tags++
	p.summary.LastTimestamp = tag.ExtendedTimestamp()
	switch tag.Type {
	case AudioTag:
		p.summary.AudioTags++
	case VideoTag:
		p.summary.VideoTags++
	case ScriptTag:
		p.summary.ScriptTags++
	}
}

func getLogger(ctx context.Context) *logrus.Entry {
	if inst := instance.GetInstance(ctx); inst != nil && inst.Logger != nil {
		return inst.Logger.WithField("parser", Name)
	}
	return logrus.StandardLogger().WithField("parser", Name)
}
