package payment

import (
	"time"

	"github.com/google/uuid"
)

// StatusCaptured marks a payment that passed signature verification.
const StatusCaptured = "captured"

// Payment is an append-only audit record of a captured Razorpay payment.
// Rows are never updated or deleted.
type Payment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            string    `json:"userId" db:"user_id"`
	PlanID            uuid.UUID `json:"planId" db:"plan_id"`
	RazorpayOrderID   string    `json:"razorpayOrderId" db:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpayPaymentId" db:"razorpay_payment_id"`
	RazorpaySignature string    `json:"razorpaySignature" db:"razorpay_signature"`
	Amount            int64     `json:"amount" db:"amount"`
	Currency          string    `json:"currency" db:"currency"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

type CreateOrderRequest struct {
	PlanID string `json:"planId"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	PlanID   string `json:"planId"`
	PlanName string `json:"planName"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	PlanID            string `json:"planId"`
}
