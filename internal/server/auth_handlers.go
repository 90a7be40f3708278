package server

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"flappy-game/internal/auth"
	"flappy-game/internal/database"
	"flappy-game/internal/models"
)

// Register creates an account. Mobile numbers are normalized to the +880
// form before storage so every format a user types collapses to one account.
//
// POST /api/auth/register
func (s *GameServer) Register(c *gin.Context) {
	var req struct {
		Name       string  `json:"name" binding:"required"`
		Mobile     string  `json:"mobile" binding:"required"`
		Email      *string `json:"email"`
		Password   string  `json:"password" binding:"required,min=6"`
		ReferredBy string  `json:"referredBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	mobile, err := auth.NormalizeMobile(req.Mobile)
	if err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": "Please provide a valid Bangladeshi mobile number"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("failed to hash password", "err", err)
		c.JSON(500, gin.H{"error": "Error creating user"})
		return
	}

	user := &models.User{
		Name:     req.Name,
		Mobile:   mobile,
		Email:    req.Email,
		Password: hash,
	}

	// Resolve the referrer before inserting so a bogus code fails the whole
	// registration instead of silently dropping the credit.
	var referrer *models.User
	if req.ReferredBy != "" {
		referrer, err = s.db.GetUserByReferralID(c.Request.Context(), req.ReferredBy)
		if err != nil {
			s.registerError(c, err)
			return
		}
		user.ReferredBy = &referrer.ID
	}

	if err := s.db.CreateUser(c.Request.Context(), user); err != nil {
		s.registerError(c, err)
		return
	}

	if referrer != nil {
		if err := s.db.IncrementReferralCount(c.Request.Context(), referrer.ID); err != nil {
			s.log.Error("failed to credit referral", "referrerId", referrer.ID, "err", err)
		}
	}

	token, err := auth.GenerateToken(user.ID, []byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.log.Error("failed to issue token", "err", err)
		c.JSON(500, gin.H{"error": "Error creating user"})
		return
	}

	c.JSON(201, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// registerError maps storage failures during registration to responses.
func (s *GameServer) registerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidReferral):
		c.JSON(400, gin.H{"error": "Invalid referral code"})
	case errors.Is(err, database.ErrUserExists):
		c.JSON(400, gin.H{"error": "User already exists", "message": "This mobile number is already registered"})
	default:
		s.log.Error("failed to create user", "err", err)
		c.JSON(500, gin.H{"error": "Error creating user"})
	}
}

// Login verifies mobile + password and issues a JWT.
//
// POST /api/auth/login
func (s *GameServer) Login(c *gin.Context) {
	var req struct {
		Mobile   string `json:"mobile" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Validation failed", "message": err.Error()})
		return
	}

	mobile, err := auth.NormalizeMobile(req.Mobile)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	user, err := s.db.GetUserByMobile(c.Request.Context(), mobile)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		s.log.Error("failed to look up user", "err", err)
		c.JSON(500, gin.H{"error": "Error logging in"})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, []byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.log.Error("failed to issue token", "err", err)
		c.JSON(500, gin.H{"error": "Error logging in"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// GetProfile returns the authenticated user's account.
//
// GET /api/auth/profile
func (s *GameServer) GetProfile(c *gin.Context) {
	user, err := s.db.GetUserByID(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		s.log.Error("failed to fetch profile", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching profile"})
		return
	}
	c.JSON(200, gin.H{"success": true, "user": user})
}

// GetShareLink returns the user's referral link for the public frontend.
//
// GET /api/auth/share-link
func (s *GameServer) GetShareLink(c *gin.Context) {
	user, err := s.db.GetUserByID(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		s.log.Error("failed to fetch user for share link", "err", err)
		c.JSON(500, gin.H{"error": "Error generating share link"})
		return
	}

	shareLink := fmt.Sprintf("%s/register?ref=%s", s.cfg.FrontendURL, user.ReferralID)
	message := url.QueryEscape("Join me in the Flappy Bird competition! " + shareLink)

	c.JSON(200, gin.H{
		"success":    true,
		"referralId": user.ReferralID,
		"shareLink":  shareLink,
		"whatsapp":   "https://wa.me/?text=" + message,
		"facebook":   "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(shareLink),
	})
}

// GetReferrals lists the users who signed up through the caller's link.
//
// GET /api/auth/referrals
func (s *GameServer) GetReferrals(c *gin.Context) {
	referrals, err := s.db.GetReferrals(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		s.log.Error("failed to fetch referrals", "err", err)
		c.JSON(500, gin.H{"error": "Error fetching referrals"})
		return
	}

	c.JSON(200, gin.H{
		"success":   true,
		"count":     len(referrals),
		"referrals": referrals,
	})
}
