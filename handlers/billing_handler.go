package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"datalensAPI/internal/payment"
	"datalensAPI/middleware"
	"datalensAPI/services"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// GetPlans serves the public plan catalog for the pricing page.
func (h *BillingHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	plans, err := h.billingService.Plans(ctx)
	if err != nil {
		log.Printf("GetPlans: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Could not load plans")
		return
	}

	respondWithJSON(w, http.StatusOK, plans)
}

func (h *BillingHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req payment.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanID == "" {
		respondWithError(w, http.StatusBadRequest, "planId is required")
		return
	}

	order, err := h.billingService.CreateOrder(ctx, clerkID, req.PlanID)
	if err != nil {
		log.Printf("CreateOrder: %v", err)
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	middleware.RecordOrderCreated()
	respondWithJSON(w, http.StatusOK, order)
}

func (h *BillingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req payment.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		respondWithError(w, http.StatusBadRequest, "Missing payment verification fields")
		return
	}

	if _, err := h.billingService.VerifyPayment(ctx, clerkID, &req); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			middleware.RecordPaymentVerified("rejected")
		}
		log.Printf("VerifyPayment: %v", err)
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	middleware.RecordPaymentVerified("ok")
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrNoActiveSubscription):
		return http.StatusNotFound
	case errors.Is(err, services.ErrQuotaExceeded):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
