package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `gorm:"not null"        json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string    `gorm:"not null"                 json:"title"`
	Description   string    `gorm:"not null"                 json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	ImgSrc        string    `json:"img_src"`
	Size          string    `json:"size"`
	Color         string    `json:"color"`
	StockQuantity uint      `gorm:"default:0"                json:"stock_quantity"`
	Featured      bool      `gorm:"default:false"            json:"featured"`
	CategoryID    uint      `gorm:"index"                    json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID"    json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CartItem keeps one row per (user, product). Price is snapshotted from the
// product when the row is created and is never re-read from the catalog, so
// later catalog edits do not change what the customer pays.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"                 json:"quantity"`
	Price     float64   `gorm:"not null"                                   json:"price"`
	Product   *Product  `gorm:"foreignKey:ProductID"                       json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Order struct {
	ID              uint        `gorm:"primaryKey"                                json:"id"`
	UserID          uint        `gorm:"index;not null"                            json:"user_id"`
	TotalAmount     float64     `gorm:"not null"                                  json:"total_amount"`
	ShippingAddress string      `gorm:"not null"                                  json:"shipping_address"`
	PaymentMethod   string      `gorm:"not null"                                  json:"payment_method"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:pending" json:"payment_status"`
	IdempotencyKey  string      `gorm:"uniqueIndex;not null"                      json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is immutable after checkout; Price is the cart snapshot, not the
// catalog price at order time.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey"                 json:"id"`
	OrderID   uint     `gorm:"index;not null"             json:"order_id"`
	ProductID uint     `gorm:"not null"                   json:"product_id"`
	Quantity  uint     `gorm:"default:1;check:quantity>0" json:"quantity"`
	Price     float64  `gorm:"not null"                   json:"price"`
	Product   *Product `gorm:"foreignKey:ProductID"       json:"product,omitempty"`
}
