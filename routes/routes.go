package routes

import (
	"github.com/Mauthecat/tienda/config"
	"github.com/Mauthecat/tienda/flow"
	"github.com/Mauthecat/tienda/mail"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps bundles everything built once in main() that handlers need.
type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Gateway *flow.Client
	Mailer  mail.Mailer
	Log     *logrus.Logger
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	SetupAuthRoutes(r, d)
	SetupAPIRoutes(r, d)
	SetupPaymentRoutes(r, d)
	SetupProfileRoutes(r, d)
	SetupAdminRoutes(r, d)
}
