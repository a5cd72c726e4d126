package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validAddInput() AddItemInput {
	return AddItemInput{
		UserID:   primitive.NewObjectID(),
		Title:    "Denim Jacket",
		Size:     "L",
		Quantity: 2,
		Price:    1999,
	}
}

func TestAddItemInputValidate(t *testing.T) {
	if err := validAddInput().Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*AddItemInput)
	}{
		{"missing userId", func(in *AddItemInput) { in.UserID = primitive.NilObjectID }},
		{"missing title", func(in *AddItemInput) { in.Title = "   " }},
		{"negative quantity", func(in *AddItemInput) { in.Quantity = -1 }},
		{"missing price", func(in *AddItemInput) { in.Price = 0 }},
	}

	for _, tc := range tests {
		in := validAddInput()
		tc.mutate(&in)
		err := in.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !IsValidation(err) {
			t.Fatalf("%s: expected ValidationError, got %T", tc.name, err)
		}
	}
}

func TestNextQuantityNeverReachesZero(t *testing.T) {
	tests := []struct {
		current int
		next    int
		remove  bool
	}{
		{current: 1, next: 0, remove: true},
		{current: 2, next: 1, remove: false},
		{current: 5, next: 4, remove: false},
		// A corrupt document below the floor is removed, not decremented.
		{current: 0, next: -1, remove: true},
	}
	for _, tc := range tests {
		next, remove := nextQuantity(tc.current)
		if next != tc.next || remove != tc.remove {
			t.Fatalf("nextQuantity(%d) = (%d, %v), want (%d, %v)",
				tc.current, next, remove, tc.next, tc.remove)
		}
	}
}

func TestAddItemInputZeroQuantityIsAllowed(t *testing.T) {
	in := validAddInput()
	in.Quantity = 0
	if err := in.Validate(); err != nil {
		t.Fatalf("zero quantity should default rather than fail: %v", err)
	}
}
