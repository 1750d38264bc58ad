package configs

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/yuhaohwang/flv-inspector/src/report"
)

// Log包含日志相关信息。
type Log struct {
	OutPutFolder string `yaml:"out_put_folder"` // 输出日志文件夹
	SaveLastLog  bool   `yaml:"save_last_log"`  // 是否保存最后一次运行的日志
	SaveEveryLog bool   `yaml:"save_every_log"` // 是否为每次运行保存日志
}

// verify 日志文件夹只在需要写日志文件时检查。
func (l *Log) verify() error {
	if !l.SaveLastLog && !l.SaveEveryLog {
		return nil
	}
	if _, err := os.Stat(l.OutPutFolder); err != nil {
		return fmt.Errorf(`日志输出文件夹 "%s" 不存在`, l.OutPutFolder)
	}
	return nil
}

// Parser包含解析器相关信息。
type Parser struct {
	Name                      string `yaml:"name"`                         // 解析器名称
	ScriptValuePolicy         string `yaml:"script_value_policy"`          // 遇到不支持的AMF类型时的策略：fail 或 stop
	SkipUnknownTags           bool   `yaml:"skip_unknown_tags"`            // 是否跳过未知类型的标签
	SignExtendCompositionTime bool   `yaml:"sign_extend_composition_time"` // CompositionTime 是否按有符号数解释
}

func (p *Parser) verify() error {
	if p.Name == "" {
		return fmt.Errorf("未设置解析器")
	}
	switch p.ScriptValuePolicy {
	case "", "fail", "stop":
		return nil
	default:
		return fmt.Errorf("未知的脚本数据策略: %s", p.ScriptValuePolicy)
	}
}

// BuildConfig 返回传给解析器构建器的配置。
func (p Parser) BuildConfig() map[string]string {
	return map[string]string{
		"script_value_policy":          p.ScriptValuePolicy,
		"skip_unknown_tags":            strconv.FormatBool(p.SkipUnknownTags),
		"sign_extend_composition_time": strconv.FormatBool(p.SignExtendCompositionTime),
	}
}

// Report包含报告输出相关信息。
type Report struct {
	Format    string `yaml:"format"`     // text、json 或 template
	Template  string `yaml:"template"`   // template 格式使用的模板
	Output    string `yaml:"output"`     // 输出文件，空表示标准输出
	ShowUnits bool   `yaml:"show_units"` // 是否为元数据属性附加单位
	Filter    string `yaml:"filter"`     // 标签过滤表达式，空表示输出全部标签
}

func (r *Report) verify() error {
	known := false
	for _, f := range report.Formats() {
		known = known || r.Format == f
	}
	if !known {
		return fmt.Errorf("未知的报告格式: %s", r.Format)
	}
	if r.Format == report.FormatTemplate && r.Template == "" {
		return fmt.Errorf("template 格式需要设置模板")
	}
	return nil
}

// RPC包含检查服务器相关信息。
type RPC struct {
	Enable bool   `yaml:"enable"` // 是否启用检查服务器
	Bind   string `yaml:"bind"`   // 绑定地址
}

func (r *RPC) verify() error {
	if !r.Enable {
		return nil
	}
	if r.Bind == "" {
		return fmt.Errorf("未设置检查服务器的绑定地址")
	}
	return nil
}

// Metrics包含指标相关信息。
type Metrics struct {
	Enable   bool   `yaml:"enable"`   // 是否收集指标
	Textfile string `yaml:"textfile"` // 结束时写出的 Prometheus 文本文件
}

func (m *Metrics) verify() error {
	if !m.Enable || m.Textfile == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(m.Textfile)); err != nil {
		return fmt.Errorf(`指标文件目录 "%s" 不存在`, filepath.Dir(m.Textfile))
	}
	return nil
}

// Config包含所有配置信息。
type Config struct {
	File             string        `yaml:"-"`                 // 配置文件路径
	Input            string        `yaml:"input"`             // 输入文件，空或 "-" 表示标准输入
	Debug            bool          `yaml:"debug"`             // 是否启用调试模式
	Log              Log           `yaml:"log"`               // 日志配置
	Parser           Parser        `yaml:"parser"`            // 解析器配置
	Report           Report        `yaml:"report"`            // 报告配置
	RPC              RPC           `yaml:"rpc"`               // 检查服务器配置
	Metrics          Metrics       `yaml:"metrics"`           // 指标配置
	ProgressInterval time.Duration `yaml:"progress_interval"` // 进度日志间隔，0 表示关闭
}

var defaultConfig = Config{
	Debug: false,
	Log: Log{
		OutPutFolder: "./",
		SaveLastLog:  false,
		SaveEveryLog: false,
	},
	Parser: Parser{
		Name:                      "native",
		ScriptValuePolicy:         "fail",
		SkipUnknownTags:           false,
		SignExtendCompositionTime: true,
	},
	Report: Report{
		Format:    report.FormatText,
		ShowUnits: true,
	},
	RPC: RPC{
		Enable: false,
		Bind:   "127.0.0.1:8080",
	},
	Metrics: Metrics{
		Enable: false,
	},
	ProgressInterval: 0,
}

// NewConfig 创建新的Config对象。
func NewConfig() *Config {
	config := defaultConfig
	return &config
}

// Verify 验证配置的有效性。
func (c *Config) Verify() error {
	if c == nil {
		return fmt.Errorf("配置为空")
	}
	if err := c.Log.verify(); err != nil {
		return err
	}
	if err := c.Parser.verify(); err != nil {
		return err
	}
	if err := c.Report.verify(); err != nil {
		return err
	}
	if err := c.RPC.verify(); err != nil {
		return err
	}
	if err := c.Metrics.verify(); err != nil {
		return err
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval不能小于0")
	}
	if c.ProgressInterval > 0 && c.ProgressInterval < 100*time.Millisecond {
		return fmt.Errorf("progress_interval的最小值为100毫秒")
	}
	return nil
}

// NewConfigWithBytes 使用字节数组创建Config对象。
func NewConfigWithBytes(b []byte) (*Config, error) {
	config := defaultConfig
	if err := yaml.Unmarshal(b, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// NewConfigWithFile 使用文件创建Config对象。
func NewConfigWithFile(file string) (*Config, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件：%s", file)
	}
	config, err := NewConfigWithBytes(b)
	if err != nil {
		return nil, err
	}
	config.File = file
	return config, nil
}
