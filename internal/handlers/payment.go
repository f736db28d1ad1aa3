package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mygigs/mygigs-backend/internal/services"
)

// stkAck is the fixed acknowledgement the provider expects on its callback.
// Anything other than this shape with HTTP 200 triggers provider-side
// retry/backoff storms, so it is returned no matter what happened
// internally.
var stkAck = map[string]interface{}{
	"ResultCode": 0,
	"ResultDesc": "Success",
}

type PaymentHandler struct {
	service       *services.PaymentService
	callbackToken string
}

func NewPaymentHandler(service *services.PaymentService, callbackToken string) *PaymentHandler {
	return &PaymentHandler{service: service, callbackToken: callbackToken}
}

// StkPush handles POST /api/mpesa/stkpush.
func (h *PaymentHandler) StkPush(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string      `json:"phone_number"`
		Amount      json.Number `json:"amount"`
		ClerkID     string      `json:"clerk_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := h.service.Initiate(r.Context(), req.PhoneNumber, req.Amount.String(), req.ClerkID)
	if err != nil {
		log.Printf("Failed to initiate STK push: %v", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ack)
}

// Callback handles the provider's asynchronous result notification. Internal
// failures are logged and swallowed; the provider always gets the fixed ack.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.callbackToken != "" && r.URL.Query().Get("token") != h.callbackToken {
		respondError(w, http.StatusUnauthorized, "unauthorized callback")
		return
	}

	var env services.STKCallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		log.Printf("Failed to decode STK callback: %v", err)
		respondJSON(w, http.StatusOK, stkAck)
		return
	}

	if err := h.service.Resolve(r.Context(), &env); err != nil {
		log.Printf("STK callback processing failed: %v", err)
	}

	respondJSON(w, http.StatusOK, stkAck)
}

// CheckStatusByID handles GET /api/check-status/{checkoutRequestID}.
func (h *PaymentHandler) CheckStatusByID(w http.ResponseWriter, r *http.Request) {
	checkoutID := mux.Vars(r)["checkoutRequestID"]

	status, err := h.service.StatusByCheckoutID(r.Context(), checkoutID)
	if err != nil {
		log.Printf("Failed to check status for %s: %v", checkoutID, err)
		respondError(w, http.StatusInternalServerError, "failed to check status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

// CheckStatusByClerkID handles GET /api/check-status?clerk_id=... and
// reports the caller's latest attempt.
func (h *PaymentHandler) CheckStatusByClerkID(w http.ResponseWriter, r *http.Request) {
	clerkID := r.URL.Query().Get("clerk_id")
	if clerkID == "" {
		respondError(w, http.StatusBadRequest, "clerk_id is required")
		return
	}

	status, err := h.service.StatusByClerkID(r.Context(), clerkID)
	if err != nil {
		log.Printf("Failed to check status for clerk %s: %v", clerkID, err)
		respondError(w, http.StatusInternalServerError, "failed to check status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}
