package server

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	cfgpkg "github.com/rioporto/p2p/pkg/config"
)

func TestRunServer_CleanShutdownDoesNotPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &cfgpkg.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	lc := fxtest.NewLifecycle(t)
	runServer(lc, zap.NewNop().Sugar(), cfg, gin.New())

	lc.RequireStart()
	// a clean stop makes ListenAndServe return http.ErrServerClosed, which
	// must not take down the process
	lc.RequireStop()
	time.Sleep(100 * time.Millisecond)
}
