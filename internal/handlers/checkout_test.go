package handlers

import (
	"net/http"
	"testing"
	"time"
)

func TestParseOrderDate(t *testing.T) {
	if got := parseOrderDate(""); !got.IsZero() {
		t.Fatalf("empty date should be zero, got %v", got)
	}
	if got := parseOrderDate("yesterday"); !got.IsZero() {
		t.Fatalf("garbage date should be zero, got %v", got)
	}

	want := time.Date(2025, 3, 9, 12, 30, 0, 0, time.UTC)
	if got := parseOrderDate("2025-03-09T12:30:00Z"); !got.Equal(want) {
		t.Fatalf("parseOrderDate = %v, want %v", got, want)
	}
}

func TestBuyProductRejectsMissingFields(t *testing.T) {
	handler := BuyProduct(nil)

	// Each payload drops one required field; binding must fail before the
	// coordinator is reached.
	base := map[string]interface{}{
		"userId":        "64a1f0aa3c2e4d5a6b7c8d9e",
		"name":          "Asha Rao",
		"email":         "asha@example.com",
		"mobile":        "9876543210",
		"address":       "14 Lake View Road",
		"title":         "Denim Jacket",
		"quantity":      1,
		"price":         1999,
		"paymentMethod": "cod",
	}
	for field := range base {
		body := map[string]interface{}{}
		for k, v := range base {
			if k != field {
				body[k] = v
			}
		}
		w := performJSON(t, handler, http.MethodPost, "/buy-product", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("missing %s: status = %d, want 400", field, w.Code)
		}
	}
}

func TestPlaceCartOrderRejectsInvalidUserID(t *testing.T) {
	handler := PlaceCartOrder(nil)
	w := performJSON(t, handler, http.MethodPost, "/place-cart-order", map[string]interface{}{
		"userId":        "nope",
		"name":          "Asha Rao",
		"email":         "asha@example.com",
		"mobile":        "9876543210",
		"address":       "14 Lake View Road",
		"paymentMethod": "cod",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateOrderStatusRejectsMissingBody(t *testing.T) {
	handler := UpdateOrderStatus(nil)
	w := performJSON(t, handler, http.MethodPut, "/update-order-status", map[string]interface{}{"id": "64a1f0aa3c2e4d5a6b7c8d9e"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
