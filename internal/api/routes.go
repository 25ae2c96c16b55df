// 包 api：集中注册 HTTP API 路由以解耦主入口
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"crew-map/internal/districts"
	"crew-map/internal/logger"
	"crew-map/internal/metrics"
	"crew-map/internal/palette"
	"crew-map/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// Viewer：路由依赖的视图能力
type Viewer interface {
	Layers() (*view.MapView, bool)
	Reload(ctx context.Context) string
}

type Deps struct {
	View       Viewer
	Redis      redis.Cmdable
	AdminToken string
	// 重新挂载使用的根上下文，不能是请求上下文
	BaseCtx context.Context
}

type mapResponse struct {
	Status string `json:"status"`
	*view.MapView
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// BuildRoutes：独立路由树，便于在主入口挂载到 API 前缀
func BuildRoutes(d Deps) http.Handler {
	if d.BaseCtx == nil {
		d.BaseCtx = context.Background()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/map", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 500*time.Millisecond)
		countVisitor(ctx, d.Redis, req)
		cancel()
		v, ok := d.View.Layers()
		if !ok {
			metrics.MapRequestsTotal.WithLabelValues("loading").Inc()
			writeJSON(w, http.StatusAccepted, mapResponse{Status: "loading"})
			return
		}
		metrics.MapRequestsTotal.WithLabelValues("ready").Inc()
		writeJSON(w, http.StatusOK, mapResponse{Status: "ready", MapView: v})
	})

	r.Get("/districts", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, districts.All())
	})

	r.Get("/color", func(w http.ResponseWriter, req *http.Request) {
		name := req.URL.Query().Get("name")
		writeJSON(w, http.StatusOK, map[string]string{"name": name, "color": palette.ColorFor(name)})
	})

	r.Post("/reload", func(w http.ResponseWriter, req *http.Request) {
		t := req.Header.Get("x-admin-token")
		if d.AdminToken == "" || t != d.AdminToken {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		id := d.View.Reload(d.BaseCtx)
		logger.L().Info("view_reloaded", "mount_id", id, "req_id", middleware.GetReqID(req.Context()))
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Handle("/metrics", metrics.Handler())
	return r
}
