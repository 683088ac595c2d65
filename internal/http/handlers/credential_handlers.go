package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// CredentialHandlers exposes the encrypted retailer credential operations.
// The user secret travels only in request bodies and is never persisted.
type CredentialHandlers struct {
	credSvc domain.CredentialService
}

// NewCredentialHandlers creates new credential handlers
func NewCredentialHandlers(credSvc domain.CredentialService) *CredentialHandlers {
	return &CredentialHandlers{credSvc: credSvc}
}

// StoreCredentialRequest stores or replaces a retailer login
type StoreCredentialRequest struct {
	Retailer   string `json:"retailer" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	UserSecret string `json:"user_secret" binding:"required"`
	TwoFactor  bool   `json:"two_factor"`
}

// RevealCredentialRequest decrypts a stored retailer password
type RevealCredentialRequest struct {
	UserSecret string `json:"user_secret" binding:"required"`
}

// Store encrypts and persists a retailer credential
func (h *CredentialHandlers) Store(c *gin.Context) {
	var req StoreCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	err := h.credSvc.Store(c.Request.Context(), userID, req.Retailer, req.Username, req.Password, req.UserSecret, req.TwoFactor)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential payload"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store credential"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"retailer": req.Retailer, "message": "Credential stored"}})
}

// Reveal decrypts and returns the stored password for one retailer
func (h *CredentialHandlers) Reveal(c *gin.Context) {
	var req RevealCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	retailer := c.Param("retailer")
	password, err := h.credSvc.Get(c.Request.Context(), userID, retailer, req.UserSecret)
	if err != nil {
		switch err {
		case domain.ErrCredentialNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
		case domain.ErrDecryptionFailed:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Decryption failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read credential"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"retailer": retailer, "password": password}})
}

// List returns the user's stored credentials without ciphertext
func (h *CredentialHandlers) List(c *gin.Context) {
	userID := c.GetUint("user_id")
	creds, err := h.credSvc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credentials"})
		return
	}

	out := make([]gin.H, 0, len(creds))
	for _, cred := range creds {
		out = append(out, gin.H{
			"retailer":      cred.Retailer,
			"username":      cred.Username,
			"scheme":        cred.Scheme,
			"two_factor":    cred.TwoFactor,
			"active":        cred.Active,
			"last_verified": cred.LastVerified,
			"updated_at":    cred.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"credentials": out, "count": len(out)}})
}

// Delete removes a stored credential
func (h *CredentialHandlers) Delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	retailer := c.Param("retailer")
	if err := h.credSvc.Delete(c.Request.Context(), userID, retailer); err != nil {
		if err == domain.ErrCredentialNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete credential"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"retailer": retailer, "message": "Credential deleted"}})
}

// VerifyHealth round-trips the stored ciphertext and updates the
// credential's verification stamp
func (h *CredentialHandlers) VerifyHealth(c *gin.Context) {
	var req RevealCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	retailer := c.Param("retailer")
	if err := h.credSvc.Verify(c.Request.Context(), userID, retailer, req.UserSecret); err != nil {
		switch err {
		case domain.ErrCredentialNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
		case domain.ErrDecryptionFailed:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Credential failed verification"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"retailer": retailer, "message": "Credential healthy"}})
}

// Migrate re-encrypts one legacy credential under the user-specific scheme
func (h *CredentialHandlers) Migrate(c *gin.Context) {
	var req RevealCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	retailer := c.Param("retailer")
	if err := h.credSvc.Migrate(c.Request.Context(), userID, retailer, req.UserSecret); err != nil {
		switch err {
		case domain.ErrCredentialNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Credential not found"})
		case domain.ErrDecryptionFailed:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Legacy ciphertext could not be decrypted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Migration failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"retailer": retailer, "message": "Credential migrated"}})
}

// MigrateAll re-encrypts every legacy credential the user has. Partial
// failure is reported per retailer, never as a request failure.
func (h *CredentialHandlers) MigrateAll(c *gin.Context) {
	var req RevealCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	report, err := h.credSvc.MigrateAll(c.Request.Context(), userID, req.UserSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Migration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
