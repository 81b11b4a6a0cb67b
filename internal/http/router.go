package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfare/internal/repository"
	"wayfare/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	users repository.UserRepository,
	accountH *AccountHandler,
	profileH *ProfileHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/check-availability", accountH.CheckAvailability)
	auth.POST("/signup", accountH.Signup)
	auth.POST("/verify-code", accountH.VerifyCode)
	auth.GET("/verify-email/:token", accountH.VerifyEmail)
	auth.POST("/verify-phone", accountH.VerifyPhone)
	auth.POST("/resend-code", accountH.ResendCode)
	auth.POST("/resend-verification-email", accountH.ResendVerificationEmail)
	auth.POST("/resend-verification-phone", accountH.ResendVerificationPhone)
	auth.POST("/signin", accountH.Signin)
	auth.POST("/forgot-password", accountH.ForgotPassword)
	auth.POST("/verify-reset-code", accountH.VerifyResetCode)
	auth.POST("/reset-password", accountH.ResetPassword)
	auth.POST("/refresh-token", accountH.RefreshToken)
	auth.POST("/signout", accountH.Signout)
	auth.GET("/me", RequireAuth(jwtServ, users), accountH.Me)

	// El segmento "me" se resuelve dentro del handler de perfil, por lo
	// que ambas vistas cuelgan de la misma ruta con auth opcional.
	usersGroup := r.Group("/users", OptionalAuth(jwtServ, users))
	usersGroup.GET("/:userId/profile", profileH.GetProfile)
	usersGroup.GET("/:userId/profile/complete", profileH.GetCompleteProfile)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
