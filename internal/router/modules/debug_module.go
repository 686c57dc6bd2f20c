package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugModule exposes Prometheus metrics and expvar.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", gin.WrapH(promhttp.Handler()))
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
