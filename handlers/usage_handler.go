package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"datalensAPI/internal/usage"
	"datalensAPI/middleware"
	"datalensAPI/services"
)

type UsageHandler struct {
	usageService *services.UsageService
}

func NewUsageHandler(usageService *services.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

// Consume spends one dataset generation against the caller's quota.
func (h *UsageHandler) Consume(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req usage.ConsumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID != clerkID {
		respondWithError(w, http.StatusUnauthorized, "userId does not match authenticated user")
		return
	}

	result, err := h.usageService.Consume(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrQuotaExceeded) {
			middleware.RecordQuotaDenial()
		} else {
			log.Printf("Consume: %v", err)
		}
		respondWithError(w, statusForError(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Status reports current usage without consuming anything.
func (h *UsageHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'userId' is required")
		return
	}
	if userID != clerkID {
		respondWithError(w, http.StatusUnauthorized, "userId does not match authenticated user")
		return
	}

	status, err := h.usageService.Status(ctx, clerkID)
	if err != nil {
		log.Printf("Status: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Could not load usage status")
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}
