package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// KMSHandlers exposes the key-management admin surface. Every response uses
// the same success/message envelope so operator tooling can treat validation
// failures as data rather than transport errors.
type KMSHandlers struct {
	keys domain.KeyManager
}

// NewKMSHandlers creates new KMS admin handlers
func NewKMSHandlers(keys domain.KeyManager) *KMSHandlers {
	return &KMSHandlers{keys: keys}
}

// KMSConfigRequest carries a candidate key-management configuration
type KMSConfigRequest struct {
	Provider    string `json:"provider" binding:"required"`
	Region      string `json:"region"`
	KeyID       string `json:"key_id"`
	KeyMaterial string `json:"key_material"`
}

// CreateKeyRequest creates a new master key
type CreateKeyRequest struct {
	KeyID       string `json:"key_id"`
	Description string `json:"description"`
}

func (r *KMSConfigRequest) toDomain() domain.KMSConfig {
	return domain.KMSConfig{
		Provider:    r.Provider,
		Region:      r.Region,
		KeyID:       r.KeyID,
		KeyMaterial: r.KeyMaterial,
	}
}

// Status reports provider reachability
func (h *KMSHandlers) Status(c *gin.Context) {
	healthy := h.keys.HealthCheck(c.Request.Context())
	result := &domain.KMSResult{
		Success: healthy,
		Message: "KMS provider healthy",
		Data:    gin.H{"healthy": healthy},
	}
	if !healthy {
		result.Message = "KMS provider unreachable"
		result.Error = domain.ErrKMSConnectivity.Error()
	}
	c.JSON(http.StatusOK, result)
}

// KeyMetadata returns the active key's metadata
func (h *KMSHandlers) KeyMetadata(c *gin.Context) {
	meta, err := h.keys.GetKeyMetadata(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, &domain.KMSResult{
			Success: false,
			Message: "Failed to read key metadata",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, &domain.KMSResult{
		Success: true,
		Message: "Key metadata",
		Data: gin.H{
			"key_id":     meta.KeyID,
			"version":    meta.Version,
			"provider":   meta.Provider,
			"created_at": meta.CreatedAt,
			"rotated_at": meta.RotatedAt,
		},
	})
}

// RotateKey rotates the active master key and invalidates derived-key caches
func (h *KMSHandlers) RotateKey(c *gin.Context) {
	version, err := h.keys.RotateKey(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, &domain.KMSResult{
			Success: false,
			Message: "Key rotation failed",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, &domain.KMSResult{
		Success: true,
		Message: "Key rotated",
		Data:    gin.H{"key_version": version},
	})
}

// CreateKey provisions a new master key with the active provider
func (h *KMSHandlers) CreateKey(c *gin.Context) {
	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &domain.KMSResult{
			Success: false,
			Message: "Invalid request",
			Error:   err.Error(),
		})
		return
	}

	keyID, err := h.keys.CreateKey(c.Request.Context(), req.KeyID, req.Description)
	if err != nil {
		c.JSON(http.StatusOK, &domain.KMSResult{
			Success: false,
			Message: "Key creation failed",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, &domain.KMSResult{
		Success: true,
		Message: "Key created",
		Data:    gin.H{"key_id": keyID},
	})
}

// GetConfiguration returns the active configuration with key material redacted
func (h *KMSHandlers) GetConfiguration(c *gin.Context) {
	c.JSON(http.StatusOK, h.keys.GetConfiguration(c.Request.Context()))
}

// TestConfiguration validates a candidate configuration without applying it
func (h *KMSHandlers) TestConfiguration(c *gin.Context) {
	var req KMSConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &domain.KMSResult{
			Success: false,
			Message: "Invalid request",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.keys.TestConfiguration(c.Request.Context(), req.toDomain()))
}

// UpdateConfiguration validates and applies a candidate configuration. On a
// failed health check the active configuration is left untouched.
func (h *KMSHandlers) UpdateConfiguration(c *gin.Context) {
	var req KMSConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &domain.KMSResult{
			Success: false,
			Message: "Invalid request",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.keys.UpdateConfiguration(c.Request.Context(), req.toDomain()))
}
