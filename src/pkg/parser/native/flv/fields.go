package flv

import (
	"math"
	"time"

	"github.com/yuhaohwang/flv-inspector/src/pkg/parser"
)

const (
	groupAudio    = "Audio tag"
	groupVideo    = "Video tag"
	groupAVC      = "AVC video tag"
	groupScript   = "Script data"
	groupMetadata = "Metadata"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// HeaderRecord 将文件头转换为结构化记录。
func HeaderRecord(h *Header) *parser.Record {
	return &parser.Record{
		Kind: parser.RecordHeader,
		Fields: []parser.Field{
			{Name: "Signature", Value: string(h.Signature[:])},
			{Name: "Version", Value: h.Version},
			{Name: "HasAudio", Value: h.HasAudio, Label: yesNo(h.HasAudio)},
			{Name: "HasVideo", Value: h.HasVideo, Label: yesNo(h.HasVideo)},
			{Name: "DataOffset", Value: h.DataOffset},
		},
	}
}

// TagRecord 将标签及其负载转换为结构化记录。
func TagRecord(t *Tag) *parser.Record {
	rec := &parser.Record{
		Kind:   parser.RecordTag,
		Index:  t.Index,
		Offset: t.Offset,
		Fields: []parser.Field{
			{Name: "PreviousTagSize", Value: t.PreviousTagSize},
			{Name: "TagType", Value: uint8(t.Type), Label: t.Type.String()},
			{Name: "Filter", Value: t.Filter},
			{Name: "DataSize", Value: t.DataSize},
			{Name: "Timestamp", Value: t.Timestamp},
			{Name: "TimestampExtended", Value: t.TimestampExtended},
			{Name: "ExtendedTimestamp", Value: t.ExtendedTimestamp()},
			{Name: "StreamID", Value: t.StreamID},
		},
	}

	switch p := t.Payload.(type) {
	case *AudioData:
		rec.Fields = append(rec.Fields, audioFields(p)...)
	case *VideoData:
		rec.Fields = append(rec.Fields, videoFields(p)...)
	case *ScriptData:
		rec.Fields = append(rec.Fields, scriptFields(p)...)
	}
	return rec
}

func audioFields(a *AudioData) []parser.Field {
	fields := []parser.Field{
		{Group: groupAudio, Name: "SoundFormat", Value: uint8(a.SoundFormat), Label: a.SoundFormat.String()},
		{Group: groupAudio, Name: "SoundRate", Value: uint8(a.SoundRate), Label: a.SoundRate.String()},
		{Group: groupAudio, Name: "SoundSize", Value: uint8(a.SoundSize), Label: a.SoundSize.String()},
		{Group: groupAudio, Name: "SoundType", Value: uint8(a.SoundType), Label: a.SoundType.String()},
	}
	if a.HasAACPacketType() {
		fields = append(fields, parser.Field{
			Group: groupAudio, Name: "AACPacketType", Value: uint8(a.AACPacketType), Label: a.AACPacketType.String(),
		})
	}
	return append(fields, parser.Field{Group: groupAudio, Name: "SoundDataLength", Value: len(a.Data)})
}

func videoFields(v *VideoData) []parser.Field {
	fields := []parser.Field{
		{Group: groupVideo, Name: "FrameType", Value: uint8(v.FrameType), Label: v.FrameType.String()},
		{Group: groupVideo, Name: "CodecID", Value: uint8(v.CodeID), Label: v.CodeID.String()},
	}

	switch b := v.Body.(type) {
	case *SeekMarker:
		label := "End of client-side seeking video frame sequence"
		if b.IsStart() {
			label = "Start of client-side seeking video frame sequence"
		}
		fields = append(fields, parser.Field{Group: groupVideo, Name: "SeekMarker", Value: b.Marker, Label: label})
		if b.Discarded > 0 {
			fields = append(fields, parser.Field{Group: groupVideo, Name: "Discarded", Value: b.Discarded})
		}
	case *AVCPacket:
		fields = append(fields,
			parser.Field{Group: groupAVC, Name: "AVCPacketType", Value: uint8(b.AVCPacketType), Label: b.AVCPacketType.String()},
			parser.Field{Group: groupAVC, Name: "CompositionTime", Value: b.CompositionTime},
		)
		if b.AVCPacketType == AVCNALU {
			fields = append(fields, parser.Field{Group: groupAVC, Name: "NALULength", Value: b.NALULength})
		}
		fields = append(fields, parser.Field{Group: groupAVC, Name: "DataLength", Value: len(b.Data)})
	case *OpaqueData:
		fields = append(fields,
			parser.Field{Group: groupVideo, Name: "Packet", Value: v.CodeID.PacketName()},
			parser.Field{Group: groupVideo, Name: "DataLength", Value: len(b.Data)},
		)
	}
	return fields
}

func scriptFields(s *ScriptData) []parser.Field {
	fields := []parser.Field{
		{Group: groupScript, Name: "Name", Value: s.Name},
		{Group: groupScript, Name: "ElementCount", Value: s.Count},
	}
	for _, p := range s.Properties {
		fields = append(fields, parser.Field{Group: groupMetadata, Name: p.Name, Value: PlainValue(p.Value)})
	}
	if s.Incomplete {
		fields = append(fields, parser.Field{Group: groupScript, Name: "Incomplete", Value: true})
	}
	if s.Discarded > 0 {
		fields = append(fields, parser.Field{Group: groupScript, Name: "Discarded", Value: s.Discarded})
	}
	return fields
}

// PlainValue 将AMF值转换为普通的 Go 值，容器转换为 []parser.Field 或 []interface{}。
func PlainValue(v Value) interface{} {
	switch x := v.(type) {
	case NumberValue:
		return float64(x)
	case BooleanValue:
		return bool(x)
	case StringValue:
		return string(x)
	case DateValue:
		if math.IsNaN(x.Millis) || math.IsInf(x.Millis, 0) {
			return x.Millis
		}
		return time.UnixMilli(int64(x.Millis)).UTC()
	case ObjectValue:
		return plainProperties(x)
	case ECMAArrayValue:
		return plainProperties(x)
	case StrictArrayValue:
		values := make([]interface{}, 0, len(x))
		for _, e := range x {
			values = append(values, PlainValue(e))
		}
		return values
	default:
		return nil
	}
}

func plainProperties(props []Property) []parser.Field {
	fields := make([]parser.Field, 0, len(props))
	for _, p := range props {
		fields = append(fields, parser.Field{Name: p.Name, Value: PlainValue(p.Value)})
	}
	return fields
}

// SummaryRecord 将解析统计转换为结构化记录。
func SummaryRecord(s *Summary) *parser.Record {
	rec := &parser.Record{
		Kind:   parser.RecordSummary,
		Index:  s.Tags,
		Offset: s.Bytes,
		Fields: []parser.Field{
			{Name: "TotalBytes", Value: s.Bytes},
			{Name: "Tags", Value: s.Tags},
			{Name: "AudioTags", Value: s.AudioTags},
			{Name: "VideoTags", Value: s.VideoTags},
			{Name: "ScriptTags", Value: s.ScriptTags},
			{Name: "SkippedTags", Value: s.SkippedTags},
			{Name: "LastTimestamp", Value: s.LastTimestamp},
		},
	}
	if s.HasLastPreviousTagSize {
		rec.Fields = append([]parser.Field{{Name: "PreviousTagSize", Value: s.LastPreviousTagSize}}, rec.Fields...)
	}
	return rec
}
