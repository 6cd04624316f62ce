package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartPprofServer serves the pprof endpoints on their own port, reachable
// only internally or through a tunnel. A serve failure is logged rather than
// fatal so profiling never takes the API down with it.
func StartPprofServer(addr string, logger *zap.Logger) {
	router := gin.New()
	pprof.Register(router)

	go func() {
		logger.Info("Starting pprof server", zap.String("addr", addr))
		if err := router.Run(addr); err != nil {
			logger.Error("Pprof server stopped", zap.Error(err))
		}
	}()
}
