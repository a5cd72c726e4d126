package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shopez/internal/cache"
	"shopez/internal/models"
	"shopez/internal/store"
)

type updateBannerRequest struct {
	Banner *string `json:"banner" binding:"required"`
}

type ensureCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func FetchBanner(catalog *store.Catalog, settingsCache *cache.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-banner"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if banner, ok := settingsCache.Banner(ctx); ok {
			c.JSON(http.StatusOK, banner)
			return
		}

		settings, err := catalog.Settings(ctx)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		settingsCache.SetBanner(ctx, settings.Banner)
		c.JSON(http.StatusOK, settings.Banner)
	}
}

func UpdateBanner(catalog *store.Catalog, settingsCache *cache.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /update-banner"
		defer handlePanic(c, route)

		var req updateBannerRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Banner == nil {
			respondWithError(c, http.StatusBadRequest, route, "Banner data is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := catalog.UpdateBanner(ctx, *req.Banner); err != nil {
			respondStoreError(c, route, err)
			return
		}

		settingsCache.Invalidate(ctx)
		c.JSON(http.StatusOK, gin.H{"message": "Banner updated successfully"})
	}
}

func FetchCategories(catalog *store.Catalog, settingsCache *cache.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-categories"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if categories, ok := settingsCache.Categories(ctx); ok {
			c.JSON(http.StatusOK, categories)
			return
		}

		settings, err := catalog.Settings(ctx)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		settingsCache.SetCategories(ctx, settings.Categories)
		c.JSON(http.StatusOK, settings.Categories)
	}
}

// EnsureCategory registers a category on its own, without piggybacking on a
// product save.
func EnsureCategory(catalog *store.Catalog, settingsCache *cache.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /ensure-category"
		defer handlePanic(c, route)

		var req ensureCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Category name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := catalog.EnsureCategory(ctx, req.Name); err != nil {
			respondStoreError(c, route, err)
			return
		}

		settingsCache.Invalidate(ctx)
		c.JSON(http.StatusOK, gin.H{"message": "Category registered successfully"})
	}
}

func FetchUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-users"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			respondStoreError(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		users := []models.User{}
		if err := cursor.All(ctx, &users); err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}
