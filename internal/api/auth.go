package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"moneybook/internal/auth"  // Auth service
	"moneybook/internal/store" // Sentinel errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`           // Display name must be provided
	Email    string `json:"email" binding:"required,email"`    // Email must be provided and well-formed
	Password string `json:"password" binding:"required,min=6"` // Password must be at least 6 characters
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// RegisterHandler creates a new user account
func RegisterHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			fail(c, http.StatusBadRequest, "Invalid request: name, email and password (min 6) are required")
			return
		}
		u, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			// Duplicate email is the caller's mistake
			if errors.Is(err, store.ErrEmailTaken) {
				fail(c, http.StatusBadRequest, "Email already registered")
				return
			}
			// Anything else is a backend failure, reported generically
			logrus.WithFields(logrus.Fields{
				"email": req.Email,
				"error": err.Error(),
			}).Error("Registration failed")
			fail(c, http.StatusInternalServerError, "Failed to register user")
			return
		}
		// Return success without the stored credential
		c.JSON(http.StatusCreated, gin.H{
			"status":  "success",
			"message": "User registered successfully",
			"dataUser": gin.H{
				"user_id": u.UserID,
				"name":    u.Name,
				"email":   u.Email,
			},
		})
	}
}

// LoginHandler authenticates a user and returns a bearer token
func LoginHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request: email and password are required")
			return
		}
		token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			// Unknown email and wrong password report the same failure
			if errors.Is(err, auth.ErrInvalidCredentials) {
				fail(c, http.StatusBadRequest, "Invalid email or password")
				return
			}
			logrus.WithFields(logrus.Fields{
				"email": req.Email,
				"error": err.Error(),
			}).Error("Login failed")
			fail(c, http.StatusInternalServerError, "Failed to log in")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"token":  token, // Signed token, valid for utils.TokenTTL
		})
	}
}

// NameHandler returns the authenticated user's display name
func NameHandler(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := authedUser(c) // Set by the JWT middleware
		if userID == "" {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		u, err := svc.UserByID(c.Request.Context(), userID)
		if err != nil {
			// The token outlived the account
			if errors.Is(err, store.ErrNotFound) {
				fail(c, http.StatusNotFound, "User not found")
				return
			}
			fail(c, http.StatusInternalServerError, "Failed to fetch user")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"name":   u.Name,
		})
	}
}

// authedUser reads the owner ID the JWT middleware stored in the context
func authedUser(c *gin.Context) string {
	v, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}

// fail writes the error envelope shared by every endpoint
func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":  "fail",
		"message": message,
	})
}
