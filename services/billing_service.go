package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"datalensAPI/internal/config"
	"datalensAPI/internal/payment"
	"datalensAPI/internal/plan"
	"datalensAPI/internal/subscription"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	razorpay "github.com/razorpay/razorpay-go"
)

const (
	orderCurrency = "INR"
	// Razorpay rejects receipts longer than 40 characters.
	maxReceiptLen = 40
)

type BillingService struct {
	db            *pgxpool.Pool
	cfg           config.Config
	subscriptions *SubscriptionService
	client        *razorpay.Client
}

// NewBillingService wires the Razorpay client when credentials are present.
// Without them the billing endpoints fail fast with ErrPaymentsNotConfigured
// instead of reaching the gateway.
func NewBillingService(db *pgxpool.Pool, cfg config.Config, subscriptions *SubscriptionService) *BillingService {
	svc := &BillingService{db: db, cfg: cfg, subscriptions: subscriptions}
	if cfg.PaymentsConfigured() {
		svc.client = razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}
	return svc
}

// Plans exposes the catalog through the billing surface.
func (s *BillingService) Plans(ctx context.Context) ([]*plan.Plan, error) {
	return s.subscriptions.ListPlans(ctx)
}

// CreateOrder resolves the plan, converts its price to paise and opens a
// Razorpay order carrying the plan and user in its notes.
func (s *BillingService) CreateOrder(ctx context.Context, userID, planID string) (*payment.CreateOrderResponse, error) {
	if s.client == nil {
		return nil, ErrPaymentsNotConfigured
	}

	p, err := s.subscriptions.ResolvePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	amount, err := PaiseAmount(p.Price)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amount,
		"currency": orderCurrency,
		"receipt":  BuildReceipt(userID, time.Now()),
		"notes": map[string]interface{}{
			"planId":   p.ID.String(),
			"planName": p.Name,
			"userId":   userID,
		},
	}

	order, err := s.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return nil, errors.New("razorpay order response missing id")
	}

	return &payment.CreateOrderResponse{
		OrderID:  orderID,
		Amount:   amount,
		Currency: orderCurrency,
		PlanID:   p.ID.String(),
		PlanName: p.Name,
		KeyID:    s.cfg.RazorpayKeyID,
	}, nil
}

// VerifyPayment checks the Razorpay callback signature and, on success,
// activates the plan for the user. The payment audit row is written best
// effort; a failure there never fails the verification.
func (s *BillingService) VerifyPayment(ctx context.Context, userID string, req *payment.VerifyPaymentRequest) (*subscription.Subscription, error) {
	if s.cfg.RazorpayKeySecret == "" {
		return nil, ErrPaymentsNotConfigured
	}

	if !VerifySignature(s.cfg.RazorpayKeySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return nil, ErrInvalidSignature
	}

	p, err := s.subscriptions.ResolvePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	sub, err := s.subscriptions.Activate(ctx, userID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	if err := s.recordPayment(ctx, userID, p, req); err != nil {
		// Audit only. The subscription is already active.
		log.Printf("VerifyPayment: failed to record payment audit for order %s: %v", req.RazorpayOrderID, err)
	}
	return sub, nil
}

func (s *BillingService) recordPayment(ctx context.Context, userID string, p *plan.Plan, req *payment.VerifyPaymentRequest) error {
	amount, err := PaiseAmount(p.Price)
	if err != nil {
		amount = 0
	}
	pmt := &payment.Payment{
		ID:                uuid.New(),
		UserID:            userID,
		PlanID:            p.ID,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
		Amount:            amount,
		Currency:          orderCurrency,
		Status:            payment.StatusCaptured,
	}
	_, err = s.db.Exec(ctx, `
	INSERT INTO payments (id, user_id, plan_id, razorpay_order_id, razorpay_payment_id, razorpay_signature, amount, currency, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, pmt.ID, pmt.UserID, pmt.PlanID, pmt.RazorpayOrderID, pmt.RazorpayPaymentID, pmt.RazorpaySignature, pmt.Amount, pmt.Currency, pmt.Status)
	return err
}

// PaiseAmount converts a rupee price to integer paise.
func PaiseAmount(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(price * 100)), nil
}

// BuildReceipt derives a short order receipt from the user id and timestamp.
func BuildReceipt(userID string, now time.Time) string {
	uid := userID
	if len(uid) > 12 {
		uid = uid[:12]
	}
	receipt := fmt.Sprintf("rcpt_%s_%d", uid, now.Unix())
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}
	return receipt
}

// VerifySignature recomputes hex(HMAC-SHA256(secret, orderId|paymentId)) and
// compares it to the client-supplied signature in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
