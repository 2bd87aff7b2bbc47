package favoriteControllers

import (
	"errors"
	"net/http"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ToggleFavoriteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	ProductID uint   `json:"product_id" binding:"required"`
}

// POST /api/favorites/toggle
//
// One endpoint for both directions: an existing pair is removed, a
// missing one is created.
func ToggleFavoriteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ToggleFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", req.Email).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		var favorite models.Favorite
		err := db.First(&favorite, "user_id = ? AND product_id = ?", user.ID, req.ProductID).Error
		switch {
		case err == nil:
			if err := db.Delete(&favorite).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "removed"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			var product models.Product
			if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			favorite = models.Favorite{UserID: user.ID, ProductID: req.ProductID}
			if err := db.Create(&favorite).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "added"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

// GET /api/favorites?email=
func GetFavoritesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		var favorites []models.Favorite
		if err := db.
			Joins("JOIN users ON users.id = favorites.user_id").
			Where("users.email = ?", email).
			Preload("Product").
			Preload("Product.Images").
			Preload("Product.Category").
			Order("favorites.created_at DESC").
			Find(&favorites).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, favorites)
	}
}
