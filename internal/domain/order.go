package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus enumerates the lifecycle states of an order. Transitions are
// unrestricted; only membership is validated.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentCashOnDelivery is the only payment method the shop records.
const PaymentCashOnDelivery = "cash_on_delivery"

// Customer holds the contact details submitted with an order.
type Customer struct {
	Name    string `bson:"name" json:"name" validate:"required"`
	Phone   string `bson:"phone" json:"phone" validate:"required"`
	Email   string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address string `bson:"address" json:"address" validate:"required"`
}

// OrderItem is a snapshot of a product at order time. It keeps a back
// reference to the product by id but is deliberately decoupled from the live
// record, so later price or name edits never rewrite order history.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Emoji     string             `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Order is a persisted, immutable record of a placed order. Only Status may
// change after creation.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Customer      Customer           `bson:"customer" json:"customer"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Total         float64            `bson:"total" json:"total"`
	Status        OrderStatus        `bson:"status" json:"status"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Cart is the normalized order request: customer contact plus the line items
// to purchase. Client-supplied display values on items only fill gaps in the
// snapshot; stock and pricing decisions use the live product.
type Cart struct {
	Customer Customer   `validate:"required"`
	Items    []CartItem `validate:"required,min=1,dive"`
}

// CartItem is one requested line: a product reference and a quantity.
type CartItem struct {
	ProductID primitive.ObjectID `validate:"required"`
	Quantity  int                `validate:"required,gt=0"`

	Name  string
	Price float64
	Emoji string
	Image string
}
