package servers

import (
	"net/http"

	"github.com/yuhaohwang/flv-inspector/src/instance"
)

// log 函数是一个中间件，用于记录 HTTP 请求的日志信息。
func log(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inst := instance.GetInstance(r.Context()); inst != nil && inst.Logger != nil {
			inst.Logger.WithFields(map[string]interface{}{
				"Method":     r.Method,
				"Path":       r.RequestURI,
				"RemoteAddr": r.RemoteAddr,
			}).Debug("Http Request")
		}
		handler.ServeHTTP(w, r)
	})
}
