package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curtesyflush1/booster-sub007/internal/config"
	httpx "github.com/curtesyflush1/booster-sub007/internal/http"
	"github.com/curtesyflush1/booster-sub007/internal/http/handlers"
	"github.com/curtesyflush1/booster-sub007/internal/http/middleware"
	"github.com/curtesyflush1/booster-sub007/internal/services"
)

// Run assembles the container, seeds authorization policies on first boot,
// and serves the HTTP surface until the process exits.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	authH := handlers.NewAuthHandlers(container.AuthSvc)
	credH := handlers.NewCredentialHandlers(container.CredSvc)
	kmsH := handlers.NewKMSHandlers(container.KeyManager)
	polH := handlers.NewPolicyHandlers(container.PolicySvc)

	jwtMW := middleware.NewAuthMW(container.TokenSvc, container.Revocations, container.UserRepo)
	casbinMW := middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(container.Casbin.E))

	r := httpx.BuildRouter(authH, credH, kmsH, polH, jwtMW, casbinMW)

	seedDefaultPolicies(container)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedDefaultPolicies installs the baseline role grants on an empty policy
// table: admins hold the key-management and policy surfaces, users hold
// their own sessions and credentials.
func seedDefaultPolicies(c *Container) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}

	c.Casbin.E.AddPolicy("role_admin", "/kms/*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	if err := c.Casbin.E.SavePolicy(); err != nil {
		log.Printf("casbin: failed to persist seeded policies: %v", err)
		return
	}
	log.Println("casbin: seeded default policies")
}
