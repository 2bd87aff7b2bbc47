package userControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Mauthecat/tienda/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Address{}))
	return db
}

// profileRouter injects the email the auth middleware would have set.
func profileRouter(db *gorm.DB, email string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("email", email) })
	r.GET("/api/profile", GetProfileHandler(db))
	r.PUT("/api/profile", UpdateProfileHandler(db))
	return r
}

func putProfile(t *testing.T, r *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Email: "yo@example.com", Username: "yo@example.com", Name: "Yo", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()
	profileRouter(db, "yo@example.com").ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Yo", body["name"])
	assert.NotContains(t, body, "password", "password hash never leaves the API")
}

func TestGetProfileUnknownUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()
	profileRouter(newTestDB(t), "nadie@example.com").ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfileCreatesAddress(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Email: "yo@example.com", Username: "yo@example.com", Name: "Yo"}
	require.NoError(t, db.Create(&user).Error)

	w := putProfile(t, profileRouter(db, "yo@example.com"), gin.H{
		"name":   "Yolanda",
		"phone":  "+56933334444",
		"street": "Pasaje Norte 9",
		"city":   "Valparaíso",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.User
	require.NoError(t, db.Preload("Addresses").First(&got, user.ID).Error)
	assert.Equal(t, "Yolanda", got.Name)
	assert.Equal(t, "+56933334444", got.Phone)
	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "Pasaje Norte 9", got.Addresses[0].Street)
	assert.Equal(t, "Valparaíso", got.Addresses[0].City)
	assert.Equal(t, "-", got.Addresses[0].State)
	assert.True(t, got.Addresses[0].IsDefault)
}

func TestUpdateProfileEditsExistingAddress(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Email: "yo@example.com", Username: "yo@example.com", Name: "Yo"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Address{
		UserID: user.ID, Street: "Vieja 1", City: "Santiago", State: "-", ZipCode: "-",
	}).Error)

	w := putProfile(t, profileRouter(db, "yo@example.com"), gin.H{"street": "Nueva 2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var addresses []models.Address
	require.NoError(t, db.Find(&addresses, "user_id = ?", user.ID).Error)
	require.Len(t, addresses, 1, "edits the first address instead of adding another")
	assert.Equal(t, "Nueva 2", addresses[0].Street)
	assert.Equal(t, "Santiago", addresses[0].City, "untouched field survives")
}

func TestUpdateProfilePartialUpdateLeavesRest(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Email: "yo@example.com", Username: "yo@example.com", Name: "Yo", Phone: "+56900000000"}
	require.NoError(t, db.Create(&user).Error)

	w := putProfile(t, profileRouter(db, "yo@example.com"), gin.H{"name": "Solo Nombre"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, "Solo Nombre", got.Name)
	assert.Equal(t, "+56900000000", got.Phone)

	var count int64
	db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count, "no address payload, no address row")
}
