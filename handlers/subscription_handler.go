package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"datalensAPI/internal/subscription"
	"datalensAPI/middleware"
	"datalensAPI/services"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// CreateSubscription activates a plan without a payment, used for free and
// manually granted plans. The caller may only subscribe themselves.
func (h *SubscriptionHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req subscription.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanID == "" {
		respondWithError(w, http.StatusBadRequest, "planId is required")
		return
	}
	if req.UserID != clerkID {
		respondWithError(w, http.StatusUnauthorized, "userId does not match authenticated user")
		return
	}

	p, err := h.subscriptionService.ResolvePlan(ctx, req.PlanID)
	if err != nil {
		log.Printf("CreateSubscription: %v", err)
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	sub, err := h.subscriptionService.Activate(ctx, clerkID, p)
	if err != nil {
		log.Printf("CreateSubscription: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Could not create subscription")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"subscription": sub})
}
