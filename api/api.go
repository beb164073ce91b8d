package api

import (
	"aprcalc/internal/logger"
	"aprcalc/internal/service"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// cacheInvalidator is implemented by the cached asset repository
type cacheInvalidator interface {
	Invalidate()
}

type ApiHandler struct {
	AssetService service.AssetService
	TableService service.TableService
	AssetCache   cacheInvalidator
	ImageBaseURL string
	DefaultTotal string
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to aprcalc"})
	})
	router.GET("/assets", m.listAssets)
	router.POST("/assets/refresh", m.refreshAssets)
	router.POST("/allocate", m.allocate)
	router.GET("/allocate.csv", m.allocateCsv)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c).Errorw("request failed", "error", err.Error(), "status", code)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware tags every request with an id and stores a request
// scoped logger on the gin context
func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New()
	lg := logger.FromContext(ctx).With(
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
	)
	ctx.Set(logger.ContextKey, lg)
	ctx.Header("X-Request-ID", requestID.String())

	start := time.Now().UTC()
	ctx.Next()

	lg.Infow("handled request",
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
		"ip", ctx.ClientIP(),
	)
}
