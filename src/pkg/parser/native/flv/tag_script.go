package flv

import (
	"errors"
	"fmt"
)

// DataType AMF0 数据类型标记。
type DataType uint8

const (
	Number          DataType = 0
	Boolean         DataType = 1
	String          DataType = 2
	Object          DataType = 3
	MovieClip       DataType = 4
	Null            DataType = 5
	Undefined       DataType = 6
	Reference       DataType = 7
	ECMAArray       DataType = 8
	ObjectEndMarker DataType = 9
	StrictArray     DataType = 10
	Date            DataType = 11
	LongString      DataType = 12
	Unsupported     DataType = 13
	RecordSet       DataType = 14
	XMLDocument     DataType = 15
	TypedObject     DataType = 16
	AVMPlusObject   DataType = 17
)

// ValuePolicy 决定遇到无法确定长度的AMF类型时如何处理。
type ValuePolicy uint8

const (
	// PolicyFail 返回 ErrUnsupportedValueType。
	PolicyFail ValuePolicy = iota
	// PolicyStop 保留已解析的属性，丢弃脚本负载的剩余部分。
	PolicyStop
)

// ParseValuePolicy 解析配置中的策略名称。
func ParseValuePolicy(s string) (ValuePolicy, error) {
	switch s {
	case "", "fail":
		return PolicyFail, nil
	case "stop":
		return PolicyStop, nil
	default:
		return PolicyFail, fmt.Errorf("未知的脚本数据策略: %s", s)
	}
}

const maxNestingDepth = 32

type (
	// Value AMF0 值。
	Value interface {
		Type() DataType
	}

	NumberValue    float64
	BooleanValue   bool
	StringValue    string
	NullValue      struct{}
	UndefinedValue struct{}

	DateValue struct {
		Millis   float64 // 自 1970-01-01 UTC 起的毫秒数
		TimeZone int16
	}

	ObjectValue      []Property
	ECMAArrayValue   []Property
	StrictArrayValue []Value

	// Property 命名属性，同名属性允许重复出现，保持原始顺序。
	Property struct {
		Name  string
		Value Value
	}

	// ScriptData 脚本标签的负载。
	ScriptData struct {
		Name       string // 通常为 "onMetaData"
		Container  DataType
		Count      uint32 // ECMA数组声明的元素个数
		Properties []Property
		Incomplete bool   // PolicyStop 下遇到不支持的类型后为 true
		Discarded  uint32 // 负载中未被解析的字节数
		size       uint32
	}
)

func (NumberValue) Type() DataType      { return Number }
func (BooleanValue) Type() DataType     { return Boolean }
func (StringValue) Type() DataType      { return String }
func (NullValue) Type() DataType        { return Null }
func (UndefinedValue) Type() DataType   { return Undefined }
func (DateValue) Type() DataType        { return Date }
func (ObjectValue) Type() DataType      { return Object }
func (ECMAArrayValue) Type() DataType   { return ECMAArray }
func (StrictArrayValue) Type() DataType { return StrictArray }

func (*ScriptData) isPayload() {}

// Len 脚本负载总是按声明长度整体读出。
func (s *ScriptData) Len() uint32 {
	return s.size
}

// Get 返回第一个名为 name 的属性值。
func (s *ScriptData) Get(name string) (Value, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// errStop 仅在 PolicyStop 下用于结束解析
var errStop = fmt.Errorf("%w: 停止解析", ErrUnsupportedValueType)

type scriptDecoder struct {
	c      *Cursor
	policy ValuePolicy
	depth  int
	ended  bool // 顶层属性已遇到结束标记
}

// readScriptData 解析脚本标签。负载按声明长度整体读出后在窗口内解析，
// 因此无论AMF内容如何，外层流都保持对齐。
func readScriptData(c *Cursor, size uint32, policy ValuePolicy) (*ScriptData, error) {
	w, err := c.Window(size)
	if err != nil {
		return nil, readErr(c, "ScriptData", err)
	}
	d := &scriptDecoder{c: w, policy: policy}
	tag := &ScriptData{size: size}

	// 1. 名称，通常为 0x02 + "onMetaData"，类型不做校验
	if _, err = w.ReadU8(); err != nil {
		return nil, readErr(w, "NameType", err)
	}
	if tag.Name, err = d.readString(); err != nil {
		return nil, readErr(w, "Name", err)
	}

	// 2. 属性容器，通常为ECMA数组
	t, err := w.ReadU8()
	if err != nil {
		return nil, readErr(w, "ContainerType", err)
	}
	tag.Container = DataType(t)
	if tag.Container == Object {
		tag.Properties, err = d.readObjectProperties()
	} else {
		if tag.Count, err = w.ReadU32BE(); err != nil {
			return nil, readErr(w, "ECMAArrayLength", err)
		}
		tag.Properties, err = d.readProperties(tag.Count)
		if err == nil && !d.ended {
			// 3. 对象结束标记 00 00 09，不做校验
			err = w.Discard(3)
		}
	}
	if errors.Is(err, errStop) {
		tag.Incomplete = true
		err = nil
	}
	if err != nil {
		return nil, readErr(w, "ScriptDataObjectEnd", err)
	}

	tag.Discarded = uint32(w.Remaining())
	return tag, nil
}

// readString 读取 UI16 长度前缀的字符串
func (d *scriptDecoder) readString() (string, error) {
	l, err := d.c.ReadU16BE()
	if err != nil {
		return "", err
	}
	b, err := d.c.ReadBytes(int(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *scriptDecoder) readLongString() (string, error) {
	l, err := d.c.ReadU32BE()
	if err != nil {
		return "", err
	}
	b, err := d.c.ReadBytes(int(l))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readProperties 按声明个数读取属性，提前遇到结束标记时停止
func (d *scriptDecoder) readProperties(n uint32) ([]Property, error) {
	props := make([]Property, 0, minInt(int(n), 64))
	for i := uint32(0); i < n; i++ {
		name, err := d.readString()
		if err != nil {
			return props, readErr(d.c, "PropertyName", err)
		}
		if name == "" && d.peekObjectEnd() {
			_, _ = d.c.ReadU8()
			d.ended = true
			return props, nil
		}
		v, err := d.readValue()
		if err != nil {
			return props, readErr(d.c, "PropertyData["+name+"]", err)
		}
		props = append(props, Property{Name: name, Value: v})
	}
	return props, nil
}

// readObjectProperties 读取属性直到遇到空名称加对象结束标记
func (d *scriptDecoder) readObjectProperties() ([]Property, error) {
	props := make([]Property, 0)
	for {
		name, err := d.readString()
		if err != nil {
			return props, readErr(d.c, "PropertyName", err)
		}
		if name == "" && d.peekObjectEnd() {
			_, _ = d.c.ReadU8()
			return props, nil
		}
		v, err := d.readValue()
		if err != nil {
			return props, readErr(d.c, "PropertyData["+name+"]", err)
		}
		props = append(props, Property{Name: name, Value: v})
	}
}

func (d *scriptDecoder) peekObjectEnd() bool {
	b, err := d.c.buf.Peek(1)
	return err == nil && DataType(b[0]) == ObjectEndMarker
}

// readValue 读取类型标记及其对应的值
func (d *scriptDecoder) readValue() (Value, error) {
	t, err := d.c.ReadU8()
	if err != nil {
		return nil, err
	}

	switch DataType(t) {
	case Number:
		f, err := d.c.ReadF64BE()
		return NumberValue(f), err
	case Boolean:
		b, err := d.c.ReadU8()
		return BooleanValue(b != 0), err
	case String:
		s, err := d.readString()
		return StringValue(s), err
	case LongString:
		s, err := d.readLongString()
		return StringValue(s), err
	case Null:
		return NullValue{}, nil
	case Undefined:
		return UndefinedValue{}, nil
	case Date:
		v := DateValue{}
		if v.Millis, err = d.c.ReadF64BE(); err != nil {
			return nil, err
		}
		tz, err := d.c.ReadU16BE()
		v.TimeZone = int16(tz)
		return v, err
	case Object, ECMAArray, StrictArray:
		return d.readContainer(DataType(t))
	default:
		if d.policy == PolicyStop {
			return nil, errStop
		}
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnsupportedValueType, t)
	}
}

func (d *scriptDecoder) readContainer(t DataType) (Value, error) {
	if d.depth >= maxNestingDepth {
		return nil, fmt.Errorf("%w: 嵌套层级超过%d", ErrUnsupportedValueType, maxNestingDepth)
	}
	d.depth++
	defer func() { d.depth-- }()

	switch t {
	case Object:
		props, err := d.readObjectProperties()
		return ObjectValue(props), err
	case ECMAArray:
		// 嵌套ECMA数组的声明个数并不可靠，以结束标记为准
		if _, err := d.c.ReadU32BE(); err != nil {
			return nil, err
		}
		props, err := d.readObjectProperties()
		return ECMAArrayValue(props), err
	default:
		n, err := d.c.ReadU32BE()
		if err != nil {
			return nil, err
		}
		values := make(StrictArrayValue, 0, minInt(int(n), 64))
		for i := uint32(0); i < n; i++ {
			v, err := d.readValue()
			if err != nil {
				return values, err
			}
			values = append(values, v)
		}
		return values, nil
	}
}
