package integration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dinetab/api/internal/enum"
)

type swiggyPayload struct {
	OrderID      string `json:"orderId"`
	RestaurantID string `json:"restaurantId"`
	CustomerInfo struct {
		Name  string `json:"customerName"`
		Phone string `json:"customerPhone"`
	} `json:"customerInfo"`
	OrderNotes string `json:"orderNotes"`
	Cart       struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int32  `json:"quantity"`
			Notes    string `json:"notes"`
		} `json:"items"`
	} `json:"cart"`
}

// SwiggyAdapter reads Swiggy's webhook payload format.
type SwiggyAdapter struct{}

func (SwiggyAdapter) Source() string { return enum.OrderSourceSwiggy }

func (SwiggyAdapter) SignatureHeader() string { return "X-Swiggy-Signature" }

func (SwiggyAdapter) ExternalRestaurantID(payload []byte) (string, error) {
	var p swiggyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("parse swiggy payload: %w", err)
	}
	if p.RestaurantID == "" {
		return "", fmt.Errorf("swiggy payload has no restaurantId")
	}
	return p.RestaurantID, nil
}

func (SwiggyAdapter) ExternalOrderID(payload []byte) (string, error) {
	var p swiggyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("parse swiggy payload: %w", err)
	}
	if p.OrderID == "" {
		return "", fmt.Errorf("swiggy payload has no orderId")
	}
	return p.OrderID, nil
}

func (SwiggyAdapter) IsValidPayload(payload []byte) bool {
	var p swiggyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return false
	}
	if p.OrderID == "" || p.RestaurantID == "" || len(p.Cart.Items) == 0 {
		return false
	}
	for _, it := range p.Cart.Items {
		if it.ID == "" || it.Quantity <= 0 {
			return false
		}
	}
	return true
}

func (SwiggyAdapter) Normalize(payload []byte) (*NormalizedOrder, error) {
	var p swiggyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("parse swiggy payload: %w", err)
	}
	order := &NormalizedOrder{
		ExternalOrderID: p.OrderID,
		CustomerName:    strings.TrimSpace(p.CustomerInfo.Name),
		CustomerPhone:   strings.TrimSpace(p.CustomerInfo.Phone),
		Notes:           strings.TrimSpace(p.OrderNotes),
	}
	for _, it := range p.Cart.Items {
		order.Items = append(order.Items, NormalizedItem{
			ProductID: it.ID,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		})
	}
	return order, nil
}
