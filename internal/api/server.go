package api

import (
	"net/http"
	"time"

	"github.com/uniwatch/uniwatch/internal/config"
	"github.com/uniwatch/uniwatch/internal/logger"
)

// readHeaderTimeout bounds header reads regardless of configuration.
const readHeaderTimeout = 10 * time.Second

// NewHTTPServer builds the HTTP server around the configured router.
// The caller owns the listen/shutdown lifecycle.
func NewHTTPServer(log logger.Interface, cfg config.Interface, runner Runner) *http.Server {
	srvCfg := cfg.GetServerConfig()

	return &http.Server{
		Addr:              srvCfg.Address,
		Handler:           SetupRouter(log, runner),
		ReadTimeout:       srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		IdleTimeout:       srvCfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
