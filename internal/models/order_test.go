package models

import "testing"

func TestParseOrderStatusAcceptsKnownValues(t *testing.T) {
	tests := map[string]OrderStatus{
		"placed":    StatusPlaced,
		"Cancelled": StatusCancelled,
		" shipped ": StatusShipped,
		"DELIVERED": StatusDelivered,
		"confirmed": StatusConfirmed,
	}
	for raw, want := range tests {
		got, err := ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseOrderStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseOrderStatusRejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"", "pending", "returned", "placed!"} {
		if _, err := ParseOrderStatus(raw); err == nil {
			t.Fatalf("ParseOrderStatus(%q) should fail", raw)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() {
		t.Fatal("delivered and cancelled must be terminal")
	}
	for _, s := range []OrderStatus{StatusPlaced, StatusConfirmed, StatusShipped} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}
