package consts

import (
	"fmt"
	"os"
	"runtime"
)

// AppName 是应用程序的名称常量。
const AppName = "FLV-Inspector"

// Info 存储应用程序的信息。
type Info struct {
	AppName    string `json:"app_name"`    // 应用程序名称
	AppVersion string `json:"app_version"` // 应用程序版本
	BuildTime  string `json:"build_time"`  // 构建时间
	GitHash    string `json:"git_hash"`    // Git哈希值
	Pid        int    `json:"pid"`         // 进程ID
	Platform   string `json:"platform"`    // 平台信息
	GoVersion  string `json:"go_version"`  // Go版本
}

var (
	// BuildTime 构建时通过 -ldflags 注入。
	BuildTime string
	// AppVersion 构建时通过 -ldflags 注入。
	AppVersion string
	// GitHash 构建时通过 -ldflags 注入。
	GitHash string
	// AppInfo 包含应用程序的信息。
	AppInfo = Info{
		AppName:    AppName,
		AppVersion: AppVersion,
		BuildTime:  BuildTime,
		GitHash:    GitHash,
		Pid:        os.Getpid(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		GoVersion:  runtime.Version(),
	}
)
