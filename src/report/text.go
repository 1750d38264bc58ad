package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

var (
	groupIndent = map[string]string{
		"AVC video tag": "    ",
	}
	fieldNames = map[string]string{
		"DataSize":          "Data size",
		"Timestamp":         "Timestamp",
		"TimestampExtended": "Timestamp extended",
		"ExtendedTimestamp": "Extended timestamp",
		"StreamID":          "StreamID",
		"Filter":            "Filter",
	}
)

// TextSink 输出可读的文本报告。
type TextSink struct {
	w         *bufio.Writer
	showUnits bool
}

// NewTextSink 创建文本报告。
func NewTextSink(w io.Writer, showUnits bool) *TextSink {
	return &TextSink{w: bufio.NewWriter(w), showUnits: showUnits}
}

// WriteRecord 写出一条记录，每条记录写完即刷新。
func (s *TextSink) WriteRecord(rec *parser.Record) error {
	switch rec.Kind {
	case parser.RecordHeader:
		s.writeHeader(rec)
	case parser.RecordTag:
		s.writeTag(rec)
	case parser.RecordSummary:
		s.writeSummary(rec)
	}
	return s.w.Flush()
}

func (s *TextSink) writeHeader(rec *parser.Record) {
	version, _ := rec.Lookup("Version")
	fmt.Fprintf(s.w, "FLV file version %v\n", version.Value)
	for _, name := range []string{"HasAudio", "HasVideo"} {
		f, _ := rec.Lookup(name)
		kind := "audio"
		if name == "HasVideo" {
			kind = "video"
		}
		fmt.Fprintf(s.w, "  Contains %s tags: %s\n", kind, f.Label)
	}
	offset, _ := rec.Lookup("DataOffset")
	fmt.Fprintf(s.w, "  Data offset: %v\n", offset.Value)
}

func (s *TextSink) writeTag(rec *parser.Record) {
	group := ""
	for _, f := range rec.Fields {
		switch {
		case f.Group == "":
			s.writeTagField(rec, f)
			continue
		case f.Group != group:
			group = f.Group
			fmt.Fprintf(s.w, "  %s%s:\n", groupIndent[group], group)
		}

		indent := "    " + groupIndent[group]
		switch {
		case group == "Metadata":
			unit := ""
			if s.showUnits && Unit(f.Name) != "" {
				unit = " " + Unit(f.Name)
			}
			fmt.Fprintf(s.w, "%sProperty: %s - value: %s%s\n", indent, f.Name, FormatValue(f.Value), unit)
		case f.Label != "":
			fmt.Fprintf(s.w, "%s%s: %s - %s\n", indent, f.Name, FormatValue(f.Value), f.Label)
		default:
			fmt.Fprintf(s.w, "%s%s: %s\n", indent, f.Name, FormatValue(f.Value))
		}
	}
}

func (s *TextSink) writeTagField(rec *parser.Record, f parser.Field) {
	switch f.Name {
	case "PreviousTagSize":
		fmt.Fprintf(s.w, "\nPreviousTagSize%d: %v\n", rec.Index-1, f.Value)
	case "TagType":
		fmt.Fprintf(s.w, "Tag%d\nTag type: %v - %s\n", rec.Index, f.Value, f.Label)
	default:
		name, ok := fieldNames[f.Name]
		if !ok {
			name = f.Name
		}
		fmt.Fprintf(s.w, "  %s: %s\n", name, FormatValue(f.Value))
	}
}

// writeSummary 先输出最后一个标签之后的 PreviousTagSize<N>，再输出统计。
func (s *TextSink) writeSummary(rec *parser.Record) {
	if f, ok := rec.Lookup("PreviousTagSize"); ok {
		fmt.Fprintf(s.w, "\nPreviousTagSize%d: %v\n", rec.Index, f.Value)
	}
	fmt.Fprintf(s.w, "\nFinished: %d tags, %d bytes\n", rec.Index, rec.Offset)
	for _, f := range rec.Fields {
		if f.Name == "PreviousTagSize" {
			continue
		}
		fmt.Fprintf(s.w, "  %s: %s\n", f.Name, FormatValue(f.Value))
	}
}
