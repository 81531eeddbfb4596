package api

import (
	"net/http" // HTTP status codes

	"eduvault/internal/service" // Profile reconciliation
	"eduvault/internal/utils"   // Session cookie helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProfileRequest is the registration body
type ProfileRequest struct {
	FullName      string  `json:"fullName" binding:"required"` // Full name must be provided
	Email         string  `json:"email" binding:"required"`    // Email must be provided
	Institution   *string `json:"institution"`                 // Optional institution
	Country       *string `json:"country"`                     // Optional country
	Bio           *string `json:"bio"`                         // Optional bio
	WalletAddress *string `json:"walletAddress"`               // Optional wallet address
}

// CreateProfileHandler registers a profile and sets the session cookie
func CreateProfileHandler(profiles *service.ProfileService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		res, err := profiles.Register(c.Request.Context(), service.RegisterInput{
			FullName:      req.FullName,
			Email:         req.Email,
			Institution:   req.Institution,
			Country:       req.Country,
			Bio:           req.Bio,
			WalletAddress: req.WalletAddress,
		})
		if err != nil {
			respondError(c, "create profile", err) // 400, 409 or 500
			return
		}
		// Cookie-less mode when no secret is configured
		if res.Token != "" {
			utils.SetSessionCookie(c, res.Token, secureCookies)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": res.User, "emailSent": res.EmailSent})
	}
}

// LookupProfileHandler reports whether a wallet address has a profile and re-authenticates it
func LookupProfileHandler(profiles *service.ProfileService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := profiles.LookupByWallet(c.Request.Context(), c.Query("address"))
		if err != nil {
			respondError(c, "lookup profile", err) // 400 or 500
			return
		}
		if res.Token != "" {
			utils.SetSessionCookie(c, res.Token, secureCookies)
		}
		c.JSON(http.StatusOK, gin.H{"exists": res.Exists, "user": res.User})
	}
}
