package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopez/internal/checkout"
	"shopez/internal/models"
	"shopez/internal/store"
)

type buyProductRequest struct {
	UserID        string  `json:"userId" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Mobile        string  `json:"mobile" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	Pincode       string  `json:"pincode"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	MainImg       string  `json:"mainImg"`
	Size          string  `json:"size"`
	Quantity      int     `json:"quantity" binding:"required"`
	Price         float64 `json:"price" binding:"required"`
	Discount      float64 `json:"discount"`
	PaymentMethod string  `json:"paymentMethod" binding:"required"`
	OrderDate     string  `json:"orderDate"`
}

type placeCartOrderRequest struct {
	UserID        string `json:"userId" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Mobile        string `json:"mobile" binding:"required"`
	Address       string `json:"address" binding:"required"`
	Pincode       string `json:"pincode"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	OrderDate     string `json:"orderDate"`
}

type orderIDRequest struct {
	ID string `json:"id" binding:"required"`
}

type updateOrderStatusRequest struct {
	ID           string `json:"id" binding:"required"`
	UpdateStatus string `json:"updateStatus" binding:"required"`
}

// parseOrderDate tolerates the storefront's RFC3339 timestamps and falls back
// to the server clock for anything else.
func parseOrderDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func BuyProduct(coord *checkout.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /buy-product"
		defer handlePanic(c, route)

		var req buyProductRequest
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

		_, err = coord.BuyProduct(ctx, checkout.DirectPurchase{
			BuyerInfo: checkout.BuyerInfo{
				UserID:        userID,
				Name:          req.Name,
				Email:         req.Email,
				Mobile:        req.Mobile,
				Address:       req.Address,
				Pincode:       req.Pincode,
				PaymentMethod: req.PaymentMethod,
				OrderDate:     parseOrderDate(req.OrderDate),
			},
			ProductSnapshot: models.ProductSnapshot{
				Title:       req.Title,
				Description: req.Description,
				MainImg:     req.MainImg,
				Size:        req.Size,
				Price:       req.Price,
				Discount:    req.Discount,
			},
			Quantity: req.Quantity,
		})
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully"})
	}
}

// PlaceCartOrder converts the whole cart into orders. On a partial failure
// the already-placed items stay durable and the caller is told to retry; the
// dedup index guarantees a retry never places an item twice.
func PlaceCartOrder(coord *checkout.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /place-cart-order"
		defer handlePanic(c, route)

		var req placeCartOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid user ID format")
			return
		}

		// Each per-item transaction gets its own slice of this budget.
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		report, err := coord.PlaceCartOrder(ctx, checkout.BuyerInfo{
			UserID:        userID,
			Name:          req.Name,
			Email:         req.Email,
			Mobile:        req.Mobile,
			Address:       req.Address,
			Pincode:       req.Pincode,
			PaymentMethod: req.PaymentMethod,
			OrderDate:     parseOrderDate(req.OrderDate),
		})
		if err != nil {
			var partial *checkout.PartialError
			if errors.As(err, &partial) {
				for _, failure := range partial.Report.Failed {
					log.Printf("[%s] item %s failed: %v", route, failure.CartItemID.Hex(), failure.Err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Some items could not be ordered, please retry",
					"error":   partial.Error(),
				})
				return
			}
			respondStoreError(c, route, err)
			return
		}

		log.Printf("[%s] placed %d orders for user %s (skipped %d)", route, report.Placed, userID.Hex(), report.Skipped)
		c.JSON(http.StatusOK, gin.H{"message": "Orders placed successfully"})
	}
}

func CancelOrder(coord *checkout.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cancel-order"
		defer handlePanic(c, route)

		var req orderIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Order ID is required")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid order ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := coord.Cancel(ctx, orderID); err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully"})
	}
}

func UpdateOrderStatus(coord *checkout.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /update-order-status"
		defer handlePanic(c, route)

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Order ID and status are required")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Invalid order ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := coord.UpdateStatus(ctx, orderID, req.UpdateStatus); err != nil {
			if err == store.ErrNotFound {
				respondWithError(c, http.StatusNotFound, route, "Order not found")
				return
			}
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

func FetchOrders(orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /fetch-orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		all, err := orders.ListAll(ctx)
		if err != nil {
			respondStoreError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, all)
	}
}
