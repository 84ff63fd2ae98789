package server

import (
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appmiddleware "github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/routes"
)

const serviceName = "servomart"

// SetupRouter configures the Gin engine with all middleware and routes.
func SetupRouter(dbPool *pgxpool.Pool, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(appmiddleware.OTELGinMiddleware(serviceName))
	r.Use(appmiddleware.MetricsMiddleware())
	r.Use(appmiddleware.CORSMiddleware())
	r.Use(appmiddleware.SecurityMiddleware())
	r.Use(sessions.Sessions("servomart_session", cookie.NewStore(sessionSecret(logger))))

	routes.Setup(r, dbPool, logger)
	return r
}

func sessionSecret(logger *zap.Logger) []byte {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "insecure-dev-session-secret"
		logger.Warn("SESSION_SECRET not set, using insecure default")
	}
	return []byte(secret)
}

// zapContextFunc enriches access logs with request and trace ids.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if userID := appmiddleware.GetUserIDFromContext(c); userID != "anonymous" {
			fields = append(fields, zap.String("user_id", userID))
		}

		return fields
	}
}
