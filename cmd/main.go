// 程序入口：读取配置、初始化依赖、挂载地图视图并启动服务；API 注册在 internal/api
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crew-map/internal/api"
	"crew-map/internal/boundary"
	"crew-map/internal/config"
	"crew-map/internal/kakao"
	"crew-map/internal/logger"
	"crew-map/internal/middleware"
	"crew-map/internal/ranking"
	"crew-map/internal/ready"
	"crew-map/internal/utils"
	"crew-map/internal/view"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	l := logger.Setup()
	if err != nil {
		l.Error("config_load_error", "err", err)
		os.Exit(1)
	}
	// 后端缺失仅告警不退出：地图仍可渲染边界与区名，排行降级为空
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingBackend) {
			l.Error("config_backend_missing", "hint", "set SUPABASE_URL and SUPABASE_ANON_KEY")
		}
		l.Warn("config_invalid", "err", err)
	}
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "boundary_url", cfg.BoundaryURL, "fn", cfg.RankingFunction)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hc := &http.Client{Timeout: cfg.HTTPTimeout()}
	gate := ready.New("kakao_sdk", kakao.NewProbe(hc, cfg.SDKURL()), cfg.ReadyInterval(), cfg.ReadyMaxAttempts)
	loader := boundary.NewLoader(cfg.BoundaryURL, hc)
	fetcher := ranking.NewFetcher(ranking.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, hc), cfg.RankingFunction)
	composer := view.NewComposer(loader, fetcher, func(ctx context.Context) error {
		_, err := gate.Await(ctx)
		return err
	})
	composer.Mount(ctx)
	defer composer.Teardown()

	deps := api.Deps{View: composer, AdminToken: cfg.AdminToken, BaseCtx: ctx}
	if rc := utils.OpenRedis(cfg); rc != nil {
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		deps.Redis = rc
		defer rc.Close()
	} else {
		l.Info("redis_disabled")
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(deps)))
	mux.Handle("/", http.FileServer(http.Dir(cfg.UIDist)))
	// 向前端暴露 API 基础路径与地图 SDK 地址，避免前端硬编码密钥
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__=" + jsString(cfg.APIBase) + "\n"))
		_, _ = w.Write([]byte("window.__KAKAO_SDK_URL__=" + jsString(cfg.SDKURL()) + "\n"))
	})

	handler := chimw.RequestID(logger.AccessMiddleware(l)(mux))
	if cfg.RateLimitEnabled {
		handler = middleware.RateLimit(cfg.RateLimitQPS)(handler)
	}
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "crew-map.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
	}
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
