package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopez/internal/cache"
	"shopez/internal/store"
)

// newCategorySentinel is the value the admin form sends in productCategory
// when the real name is carried in productNewCategory.
const newCategorySentinel = "new category"

type productRequest struct {
	ProductName        string   `json:"productName" binding:"required"`
	ProductDescription string   `json:"productDescription" binding:"required"`
	ProductMainImg     string   `json:"productMainImg"`
	ProductCarousel    []string `json:"productCarousel"`
	ProductSizes       []string `json:"productSizes"`
	ProductGender      string   `json:"productGender"`
	ProductCategory    string   `json:"productCategory"`
	ProductNewCategory string   `json:"productNewCategory"`
	ProductPrice       float64  `json:"productPrice" binding:"required"`
	ProductDiscount    float64  `json:"productDiscount"`
}

// resolveCategory picks the effective category name and reports whether it
// must be registered first.
func (r productRequest) resolveCategory() (name string, register bool, err error) {
	if r.ProductCategory != newCategorySentinel {
		return r.ProductCategory, false, nil
	}
	name = strings.TrimSpace(r.ProductNewCategory)
	if name == "" {
		return "", false, store.ValidationError{Reason: "New category name is required"}
	}
	return name, true, nil
}

func (r productRequest) toInput(category string) store.ProductInput {
	return store.ProductInput{
		Title:       r.ProductName,
		Description: r.ProductDescription,
		MainImg:     r.ProductMainImg,
		Carousel:    r.ProductCarousel,
		Category:    category,
		Sizes:       r.ProductSizes,
		Gender:      r.ProductGender,
		Price:       r.ProductPrice,
		Discount:    r.ProductDiscount,
	}
}

func FetchProducts(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-products"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := catalog.FetchProducts(ctx)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

func FetchProductDetails(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-product-details/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := catalog.FetchProduct(ctx, productID)
		if err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// AddProduct creates a catalog record. When the admin designates a new
// category it is registered explicitly before the product is written, never
// as a hidden side effect of the insert itself.
func AddProduct(catalog *store.Catalog, settingsCache *cache.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /add-new-product"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category, register, err := req.resolveCategory()
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if register {
			if err := catalog.EnsureCategory(ctx, category); err != nil {
				respondStoreError(c, route, err)
				return
			}
			settingsCache.Invalidate(ctx)
		}

		if _, err := catalog.CreateProduct(ctx, req.toInput(category)); err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product added successfully!"})
	}
}

func UpdateProduct(catalog *store.Catalog, settingsCache *cache.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /update-product/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid product ID format")
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category, register, err := req.resolveCategory()
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if register {
			if err := catalog.EnsureCategory(ctx, category); err != nil {
				respondStoreError(c, route, err)
				return
			}
			settingsCache.Invalidate(ctx)
		}

		if err := catalog.UpdateProduct(ctx, productID, req.toInput(category)); err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully!"})
	}
}
