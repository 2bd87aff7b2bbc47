package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Mauthecat/tienda/config"
	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/register
func RegisterUser(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Username == "" {
			req.Username = req.Email
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		user := models.User{
			Email:    req.Email,
			Username: req.Username,
			Name:     req.Name,
			Phone:    req.Phone,
			Password: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email or username already registered"})
			return
		}

		access, refresh, err := issuePair(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":      user.ID,
			"email":   user.Email,
			"access":  access,
			"refresh": refresh,
		})
	}
}

// POST /api/token
func IssueTokenPair(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", req.Email).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		access, refresh, err := issuePair(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
	}
}

// POST /api/token/refresh
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Refresh string `json:"refresh" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := parseClaims(req.Refresh, cfg.JWTSecret)
		if err != nil || claims["typ"] != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		email, _ := claims["email"].(string)
		userID, _ := claims["user_id"].(float64)
		access, err := issueToken(cfg, uint(userID), email, "access", accessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

func issuePair(cfg *config.Config, user *models.User) (access, refresh string, err error) {
	if access, err = issueToken(cfg, user.ID, user.Email, "access", accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = issueToken(cfg, user.ID, user.Email, "refresh", refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func issueToken(cfg *config.Config, userID uint, email, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"typ":     typ,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseEmail extracts the email claim from a bearer token. A "Bearer "
// prefix is tolerated. Used by the tracking endpoint, which treats any
// error as "not the owner" instead of rejecting the request.
func ParseEmail(tokenString, secret string) (string, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tokenString), "Bearer"))
	if tokenString == "" {
		return "", errors.New("empty token")
	}
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errors.New("token has no email claim")
	}
	return email, nil
}
