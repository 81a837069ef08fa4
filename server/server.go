package server

import (
	"context"
	"embed"
	"fmt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"html/template"
	"maestro-dashboard/logging"
	"maestro-dashboard/server/common"
	"maestro-dashboard/server/handler"
	"maestro-dashboard/utils"
	"net/http"
	"time"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

const shutdownTimeout = 5 * time.Second

/*
Config 描述 HTTP 服务。

	RateLimit 每秒允许的请求数，不大于 0 时不限流；
	RateBurst 允许的突发请求数；
*/
type Config struct {
	Host      string
	Port      int
	DebugMode bool
	RateLimit float64
	RateBurst int
}

type Server struct {
	engine *gin.Engine
	config *Config
}

func New(config *Config, loader handler.TableLoader) (*Server, error) {
	if config.DebugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.tmpl")
	if err != nil {
		return nil, utils.WrapError(err, "parse page templates fail")
	}

	eng := gin.New()
	eng.Use(common.Recovery())
	eng.Use(common.LogRequest)
	eng.Use(cors.Default())
	eng.SetHTMLTemplate(tmpl)

	eng.GET("/healthz", handler.Health)

	h := handler.New(loader)

	limited := eng.Group("")
	{
		limited.Use(common.RateLimit(config.RateLimit, config.RateBurst))

		limited.GET("/", h.Page)
	}

	apiGroup := eng.Group("api")
	{
		apiGroup.Use(common.RateLimit(config.RateLimit, config.RateBurst))

		apiGroup.GET("/status", h.Status)
		apiGroup.GET("/lookup", h.Lookup)
		apiGroup.GET("/export", h.Export)
	}

	return &Server{
		engine: eng,
		config: config,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// RunServer 阻塞运行，ctx 结束后优雅退出。
func (s *Server) RunServer(ctx context.Context) error {
	logger := logging.NewLogger()

	srv := &http.Server{
		Addr:    s.Addr(),
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("maestro dashboard listening on %s", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err == http.ErrServerClosed {
			return nil
		}
		return utils.WrapErrorf(err, "listen on %s fail", srv.Addr)
	case <-ctx.Done():
	}

	logger.Infof("shutting down maestro dashboard")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return utils.WrapError(err, "shutdown server fail")
	}

	return nil
}
