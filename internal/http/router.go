package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/curtesyflush1/booster-sub007/internal/http/handlers"
	"github.com/curtesyflush1/booster-sub007/internal/http/middleware"
)

// BuildRouter wires the HTTP surface. Everything outside /auth and /health
// requires a verified, unrevoked access token; /kms and /admin additionally
// go through the policy enforcer.
func BuildRouter(ah *handlers.AuthHandlers, ch *handlers.CredentialHandlers, kh *handlers.KMSHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/password-reset", ah.RequestPasswordReset)
	auth.POST("/password-reset/confirm", ah.ResetPassword)
	auth.GET("/verify-email/:token", ah.VerifyEmail)

	v := r.Group("/").Use(jwtmw.WithJWT())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.POST("/auth/logout-all", ah.LogoutAll)
	v.POST("/auth/change-password", ah.ChangePassword)

	creds := r.Group("/credentials").Use(jwtmw.WithJWT())
	creds.POST("", ch.Store)
	creds.GET("", ch.List)
	creds.POST("/migrate", ch.MigrateAll)
	creds.POST("/:retailer/reveal", ch.Reveal)
	creds.POST("/:retailer/verify", ch.VerifyHealth)
	creds.POST("/:retailer/migrate", ch.Migrate)
	creds.DELETE("/:retailer", ch.Delete)

	kms := r.Group("/kms").Use(jwtmw.WithJWT(), cb.Enforce())
	kms.GET("/status", kh.Status)
	kms.GET("/key", kh.KeyMetadata)
	kms.POST("/key", kh.CreateKey)
	kms.POST("/rotate", kh.RotateKey)
	kms.GET("/config", kh.GetConfiguration)
	kms.POST("/config/test", kh.TestConfiguration)
	kms.PUT("/config", kh.UpdateConfiguration)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
