package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "cancelled"
)

type CheckoutState string

const (
	CHECKOUT_IDLE      CheckoutState = "idle"
	CHECKOUT_RUNNING   CheckoutState = "running"
	CHECKOUT_WARNING   CheckoutState = "warning"
	CHECKOUT_EXPIRED   CheckoutState = "expired"
	CHECKOUT_CANCELED  CheckoutState = "cancelled"
	CHECKOUT_COMPLETED CheckoutState = "completed"
)

type Severity string

const (
	SEVERITY_SUCCESS Severity = "success"
	SEVERITY_ERROR   Severity = "error"
	SEVERITY_WARNING Severity = "warning"
	SEVERITY_INFO    Severity = "info"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CheckoutURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type CreateEventRequestBody struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	CategoryID  string   `json:"category_id" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Latitude    float64  `json:"latitude" binding:"required"`
	Longitude   float64  `json:"longitude" binding:"required"`
	Date        string   `json:"date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	ImageURL    string   `json:"image_url,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Spots       uint     `json:"available_spots" binding:"required"`
}

type CreateTicketTypeRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	MaxQuantity *uint   `json:"max_quantity,omitempty"`
	Quantity    uint    `json:"available_quantity" binding:"required"`
}

type CreateReviewRequestBody struct {
	AuthorName string `json:"author_name" binding:"required"`
	Rating     uint   `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"required"`
}

type CheckoutContactRequestBody struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type CheckoutTicketTypeRequestBody struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required"`
}

type CheckoutQuantityRequestBody struct {
	Tickets int `json:"tickets" binding:"required,min=1"`
}

type CheckoutDiscountRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type CheckoutInsuranceRequestBody struct {
	Selected *bool `json:"selected" binding:"required"`
}

type CheckoutCardRequestBody struct {
	Number     string `json:"number" binding:"required"`
	Expiry     string `json:"expiry" binding:"required"`
	CVV        string `json:"cvv" binding:"required"`
	HolderName string `json:"holder_name" binding:"required"`
}

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}
