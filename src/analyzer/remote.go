package analyzer

import (
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/yuhaohwang/requests"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// isRemote 判断输入是否为 HTTP-FLV 地址
func isRemote(name string) bool {
	u, err := url.Parse(name)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// openRemote 请求 HTTP-FLV 流，返回的响应体由调用方关闭。
func openRemote(name string) (io.ReadCloser, error) {
	resp, err := requests.Get(name, requests.UserAgent(userAgent))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("意外的状态码: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
