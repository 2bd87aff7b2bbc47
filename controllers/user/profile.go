package userControllers

import (
	"errors"
	"net/http"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Street *string `json:"street"`
	City   *string `json:"city"`
}

// GET /api/profile (JWT protected; email comes from the token)
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("email")

		var user models.User
		if err := db.Preload("Addresses").First(&user, "email = ?", email).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /api/profile
//
// Updates name/phone and the street/city of the user's first address,
// creating one when none exists yet.
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("email")

		var user models.User
		if err := db.Preload("Addresses").First(&user, "email = ?", email).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}

		if req.Street != nil || req.City != nil {
			if err := upsertFirstAddress(db, &user, req.Street, req.City); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
				return
			}
		}

		if err := db.Preload("Addresses").First(&user, user.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func upsertFirstAddress(db *gorm.DB, user *models.User, street, city *string) error {
	var address models.Address
	err := db.Order("id ASC").First(&address, "user_id = ?", user.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		address = models.Address{
			UserID:    user.ID,
			State:     "-",
			ZipCode:   "-",
			IsDefault: true,
		}
		if street != nil {
			address.Street = *street
		}
		if city != nil {
			address.City = *city
		}
		return db.Create(&address).Error
	}
	if err != nil {
		return err
	}

	if street != nil {
		address.Street = *street
	}
	if city != nil {
		address.City = *city
	}
	return db.Save(&address).Error
}
