package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	app "github.com/okian/strongman/internal/app"
	"github.com/okian/strongman/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		_ = os.Setenv("STRONGMAN_ADDR", ":8181")
		_ = os.Setenv("STRONGMAN_MAX_LEADERBOARD_LIMIT", "5")
		defer func() {
			_ = os.Unsetenv("STRONGMAN_ADDR")
			_ = os.Unsetenv("STRONGMAN_MAX_LEADERBOARD_LIMIT")
		}()

		ctx := context.Background()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
		convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 5)

		convey.Convey("When the mux is built", func() {
			mux := newMux(ctx, app.New(), cfg)

			convey.Convey("Then business and docs routes are served", func() {
				req := httptest.NewRequest(http.MethodPost, "/event", strings.NewReader(`{"name":"Yoke","type":"distance"}`))
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)
				convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)

				rec = httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("Then the configured leaderboard limit applies", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=6", http.NoBody))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given a context that expires", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updater returns without panicking", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
