package domain

import (
	"fmt"
	"strconv"
)

type OrderID string

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusClosed     OrderStatus = "closed"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPaid, OrderStatusInProgress, OrderStatusClosed, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", value)
	}
	return status, nil
}

const (
	FieldStatus      = "status"
	FieldMarker      = "marker"
	FieldDescription = "description"
	FieldPrice       = "price"
)

type OrderState struct {
	ID          OrderID
	Status      OrderStatus
	Marker      string
	BuyerID     int64
	BuyerName   string
	SellerID    int64
	Description string
	Price       float64
	Currency    string
	ChatID      ChatID
}

func (o OrderState) TrackedFields() []Field {
	return []Field{
		{Name: FieldStatus, Value: string(o.Status)},
		{Name: FieldMarker, Value: o.Marker},
		{Name: FieldDescription, Value: o.Description},
		{Name: FieldPrice, Value: strconv.FormatFloat(o.Price, 'f', -1, 64)},
	}
}

// OrdersPage is one page of the sales list. Next is empty on the last page.
type OrdersPage struct {
	Orders []OrderState
	Next   string
}
