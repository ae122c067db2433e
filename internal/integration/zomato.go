package integration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dinetab/api/internal/enum"
)

type zomatoPayload struct {
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	Customer     struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Instructions string `json:"instructions"`
	Items        []struct {
		ItemID   string `json:"item_id"`
		Quantity int32  `json:"quantity"`
		Note     string `json:"note"`
	} `json:"items"`
}

// ZomatoAdapter reads Zomato's webhook payload format.
type ZomatoAdapter struct{}

func (ZomatoAdapter) Source() string { return enum.OrderSourceZomato }

func (ZomatoAdapter) SignatureHeader() string { return "X-Zomato-Signature" }

func (ZomatoAdapter) ExternalRestaurantID(payload []byte) (string, error) {
	var p zomatoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("parse zomato payload: %w", err)
	}
	if p.RestaurantID == "" {
		return "", fmt.Errorf("zomato payload has no restaurant_id")
	}
	return p.RestaurantID, nil
}

func (ZomatoAdapter) ExternalOrderID(payload []byte) (string, error) {
	var p zomatoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("parse zomato payload: %w", err)
	}
	if p.OrderID == "" {
		return "", fmt.Errorf("zomato payload has no order_id")
	}
	return p.OrderID, nil
}

func (ZomatoAdapter) IsValidPayload(payload []byte) bool {
	var p zomatoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return false
	}
	if p.OrderID == "" || p.RestaurantID == "" || len(p.Items) == 0 {
		return false
	}
	for _, it := range p.Items {
		if it.ItemID == "" || it.Quantity <= 0 {
			return false
		}
	}
	return true
}

func (ZomatoAdapter) Normalize(payload []byte) (*NormalizedOrder, error) {
	var p zomatoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("parse zomato payload: %w", err)
	}
	order := &NormalizedOrder{
		ExternalOrderID: p.OrderID,
		CustomerName:    strings.TrimSpace(p.Customer.Name),
		CustomerPhone:   strings.TrimSpace(p.Customer.Phone),
		Notes:           strings.TrimSpace(p.Instructions),
	}
	for _, it := range p.Items {
		order.Items = append(order.Items, NormalizedItem{
			ProductID: it.ItemID,
			Quantity:  it.Quantity,
			Notes:     it.Note,
		})
	}
	return order, nil
}
