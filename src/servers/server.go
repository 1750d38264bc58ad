package servers

import (
	"context"
	"net"
	"net/http"
	_ "net/http/pprof" // 导入 net/http/pprof 包，用于性能分析

	"github.com/gorilla/mux"

	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/metrics"
)

const (
	apiRouterPrefix = "/api" // 定义 API 路由的前缀
)

// Server 分析期间提供状态查询和实时推送的 HTTP 服务器。
type Server struct {
	server    *http.Server
	listener  net.Listener
	wsManager *WebSocketManager
}

// initMux 函数初始化路由处理器，并添加中间件。
func initMux(ctx context.Context, wsManager *WebSocketManager) *mux.Router {
	m := mux.NewRouter()
	m.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler.ServeHTTP(w,
				r.WithContext(
					instance.WithInstance(r.Context(), instance.GetInstance(ctx)),
				),
			)
		})
	}, log) // 使用 log 中间件记录请求日志

	// 设置 API 路由
	apiRoute := m.PathPrefix(apiRouterPrefix).Subrouter()
	apiRoute.Use(mux.CORSMethodMiddleware(apiRoute))
	apiRoute.HandleFunc("/info", getInfo).Methods("GET")
	apiRoute.HandleFunc("/config", getConfig).Methods("GET")
	apiRoute.HandleFunc("/status", getStatus).Methods("GET")
	apiRoute.HandleFunc("/tags", getRecentTags).Methods("GET")
	apiRoute.HandleFunc("/tags/{index:[0-9]+}", getTag).Methods("GET")
	apiRoute.Handle("/metrics", metrics.Handler(ctx)) // 用于处理 Prometheus 监控数据
	m.HandleFunc("/ws", wsManager.HandleConnection)   // 实时推送解析事件

	// 启用 pprof 性能分析
	if inst := instance.GetInstance(ctx); inst != nil && inst.Config != nil && inst.Config.Debug {
		m.PathPrefix("/debug/").Handler(http.DefaultServeMux)
	}
	return m
}

// NewServer 函数创建一个新的服务器实例。
func NewServer(ctx context.Context) *Server {
	inst := instance.GetInstance(ctx)
	wsManager := NewWebSocketManager(ctx)
	server := &Server{
		server: &http.Server{
			Addr:    inst.Config.RPC.Bind,
			Handler: initMux(ctx, wsManager),
		},
		wsManager: wsManager,
	}
	inst.Server = server
	return server
}

// Start 监听配置的地址，开始缓存和推送解析事件。
// 地址无法监听时直接返回错误，不会进入后台。
func (s *Server) Start(ctx context.Context) error {
	inst := instance.GetInstance(ctx)
	if err := s.wsManager.Start(ctx); err != nil {
		return err
	}
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.wsManager.Close(ctx)
		return err
	}
	s.listener = l
	go func() {
		switch err := s.server.Serve(l); err {
		case nil, http.ErrServerClosed:
		default:
			inst.Logger.Error(err)
		}
	}()
	inst.Logger.Infof("Server start at %s", l.Addr())
	return nil
}

// Addr 返回实际监听的地址，未启动时返回配置的地址。
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Close 方法关闭服务器。
func (s *Server) Close(ctx context.Context) {
	inst := instance.GetInstance(ctx)
	s.wsManager.Close(ctx)
	if err := s.server.Shutdown(ctx); err != nil {
		inst.Logger.WithError(err).Error("failed to shutdown server")
	}
	inst.Logger.Infof("Server close")
}
