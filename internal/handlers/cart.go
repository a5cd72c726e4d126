package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopez/internal/store"
)

type addToCartRequest struct {
	UserID      string  `json:"userId" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	MainImg     string  `json:"mainImg"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Discount    float64 `json:"discount"`
}

type cartItemIDRequest struct {
	ID string `json:"id" binding:"required"`
}

// AddToCart creates a new line item. Adding the same product and size twice
// on purpose yields two lines; merging is the client's job, not ours.
func AddToCart(carts *store.Cart) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /add-to-cart"
		defer handlePanic(c, route)

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid user ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := carts.Add(ctx, store.AddItemInput{
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
			MainImg:     req.MainImg,
			Size:        req.Size,
			Quantity:    req.Quantity,
			Price:       req.Price,
			Discount:    req.Discount,
		}); err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Added to cart successfully"})
	}
}

func IncreaseCartQuantity(carts *store.Cart) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /increase-cart-quantity"
		defer handlePanic(c, route)

		var req cartItemIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Cart item ID is required")
			return
		}

		itemID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid cart item ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := carts.Increase(ctx, itemID); err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Cart item not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quantity increased successfully"})
	}
}

func DecreaseCartQuantity(carts *store.Cart) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /decrease-cart-quantity"
		defer handlePanic(c, route)

		var req cartItemIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Cart item ID is required")
			return
		}

		itemID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid cart item ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		removed, err := carts.Decrease(ctx, itemID)
		if err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Cart item not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		if removed {
			c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quantity decreased successfully"})
	}
}

func RemoveCartItem(carts *store.Cart) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /remove-item/:id"
		defer handlePanic(c, route)

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid cart item ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := carts.Remove(ctx, itemID); err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Cart item not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed successfully"})
	}
}

// FetchCart lists one user's cart. The userId query parameter is mandatory;
// the cart collection is never dumped across users.
func FetchCart(carts *store.Cart) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-cart"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Query("userId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "userId query parameter is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		items, err := carts.ListByUser(ctx, userID)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}
