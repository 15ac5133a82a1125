package credits

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/ledger"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/validation"
)

const minPurchase = 10

type Notifier interface {
	Insert(ctx context.Context, n *models.Notification) error
}

type PurchaseRequest struct {
	Amount int `json:"amount"`
}

type Handler struct {
	ledger    ledger.Service
	notifier  Notifier
	validator *validation.Validator
	log       *slog.Logger
}

func NewHandler(ledgerSvc ledger.Service, notifier Notifier, validator *validation.Validator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{ledger: ledgerSvc, notifier: notifier, validator: validator, log: log}
}

// POST /api/credits/purchase
//
// Payment gateway placeholder: the claimed amount is trusted.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if err := h.validator.Validate(validation.SchemaPurchase, body); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var req PurchaseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Amount < minPurchase {
		api.Fail(w, http.StatusBadRequest, "Minimum purchase is 10 credits")
		return
	}

	newBalance, err := h.ledger.Purchase(r.Context(), caller.ID, req.Amount)
	if err != nil {
		h.log.Error("credit purchase failed", "user_id", caller.ID, "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to purchase credits")
		return
	}

	n := &models.Notification{
		UserID:  caller.ID,
		Title:   "Credits Added",
		Message: fmt.Sprintf("%d credits have been added to your account", req.Amount),
		Type:    models.NotificationTypeCredit,
	}
	if err := h.notifier.Insert(r.Context(), n); err != nil {
		h.log.Error("purchase notification failed", "user_id", caller.ID, "error", err)
	}

	api.OK(w, http.StatusOK, map[string]any{"new_balance": newBalance}, "Credits purchased successfully!")
}
