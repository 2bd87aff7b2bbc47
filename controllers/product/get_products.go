package productControllers

import (
	"net/http"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// productView is what the storefront grid consumes: the live product plus
// the resolved main-image URL and the discount-applied price.
type productView struct {
	models.Product
	FinalPrice float64 `json:"final_price"`
	MainImage  string  `json:"main_image"`
}

// GET /api/products
//
// Only active products; images and category come nested so the frontend
// renders everything from one request.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).
			Preload("Images").
			Preload("Category").
			Where("is_active = ?", true)

		if c.Query("featured") == "true" {
			query = query.Where("is_featured = ?", true)
		}

		var products []models.Product
		if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		views := make([]productView, 0, len(products))
		for _, p := range products {
			views = append(views, productView{
				Product:    p,
				FinalPrice: p.FinalPrice(),
				MainImage:  p.MainImageURL(),
			})
		}
		c.JSON(http.StatusOK, views)
	}
}

// GET /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Images").Preload("Category").
			First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, productView{
			Product:    product,
			FinalPrice: product.FinalPrice(),
			MainImage:  product.MainImageURL(),
		})
	}
}
