package integration

import (
	"testing"
)

func TestZomatoAdapter_Normalize(t *testing.T) {
	body := []byte(`{
		"order_id": "Z-42",
		"restaurant_id": "zomato-rest-1001",
		"customer": {"name": "  Priya ", "phone": " 9876543210 "},
		"instructions": "ring the bell",
		"items": [
			{"item_id": "prod-1", "quantity": 2, "note": "extra chutney"},
			{"item_id": "prod-2", "quantity": 1}
		]
	}`)

	a := ZomatoAdapter{}
	if !a.IsValidPayload(body) {
		t.Fatal("valid payload rejected")
	}

	got, err := a.Normalize(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExternalOrderID != "Z-42" {
		t.Errorf("external order id = %q", got.ExternalOrderID)
	}
	if got.CustomerName != "Priya" || got.CustomerPhone != "9876543210" {
		t.Errorf("customer = %q / %q, want trimmed values", got.CustomerName, got.CustomerPhone)
	}
	if got.Notes != "ring the bell" {
		t.Errorf("notes = %q", got.Notes)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].ProductID != "prod-1" || got.Items[0].Quantity != 2 || got.Items[0].Notes != "extra chutney" {
		t.Errorf("first item = %+v", got.Items[0])
	}
}

func TestZomatoAdapter_InvalidPayloads(t *testing.T) {
	a := ZomatoAdapter{}
	cases := []struct {
		name string
		body string
	}{
		{"not json", `garbage`},
		{"missing order id", `{"restaurant_id": "r", "items": [{"item_id": "x", "quantity": 1}]}`},
		{"missing restaurant id", `{"order_id": "o", "items": [{"item_id": "x", "quantity": 1}]}`},
		{"no items", `{"order_id": "o", "restaurant_id": "r", "items": []}`},
		{"zero quantity", `{"order_id": "o", "restaurant_id": "r", "items": [{"item_id": "x", "quantity": 0}]}`},
		{"blank item id", `{"order_id": "o", "restaurant_id": "r", "items": [{"item_id": "", "quantity": 1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if a.IsValidPayload([]byte(tc.body)) {
				t.Fatal("invalid payload accepted")
			}
		})
	}
}

func TestSwiggyAdapter_Normalize(t *testing.T) {
	body := []byte(`{
		"orderId": "S-77",
		"restaurantId": "swiggy-rest-2001",
		"customerInfo": {"customerName": "Arun", "customerPhone": "9000000001"},
		"orderNotes": "leave at gate",
		"cart": {"items": [{"id": "prod-9", "quantity": 3, "notes": "no onion"}]}
	}`)

	a := SwiggyAdapter{}
	if !a.IsValidPayload(body) {
		t.Fatal("valid payload rejected")
	}

	restID, err := a.ExternalRestaurantID(body)
	if err != nil || restID != "swiggy-rest-2001" {
		t.Fatalf("restaurant id = %q, err %v", restID, err)
	}

	got, err := a.Normalize(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExternalOrderID != "S-77" || got.CustomerName != "Arun" || got.Notes != "leave at gate" {
		t.Errorf("normalized = %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "prod-9" || got.Items[0].Quantity != 3 {
		t.Errorf("items = %+v", got.Items)
	}
}
