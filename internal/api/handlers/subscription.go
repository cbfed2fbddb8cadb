package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/api/dto"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

// SubscriptionHandler serves the lifecycle endpoints of one subscription kind.
// The router mounts one instance for agents and one for teams.
type SubscriptionHandler struct {
	service   subscription.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewSubscriptionHandler(service subscription.Service, log *logger.Logger, val *validator.Validator) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:   service,
		logger:    log.With("kind", string(service.Kind())),
		validator: val,
	}
}

// Initiate creates a payment intent and a pending subscription for the product in the path
// @Summary Start a subscription
// @Description Creates a payment intent for an agent or agent team and returns its client secret
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Agent or team ID"
// @Success 201 {object} subscription.Checkout
// @Failure 404 {object} utils.ErrorResponse "Product not found"
// @Failure 409 {object} utils.ErrorResponse "Already subscribed"
// @Failure 502 {object} utils.ErrorResponse "Payment provider error"
// @Security BearerAuth
// @Router /agents/{id}/payment-intents [post]
// @Router /agent-teams/{id}/payment-intents [post]
func (h *SubscriptionHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	checkout, err := h.service.Initiate(r.Context(), userID, productID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to initiate subscription")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, checkout)
}

// Complete activates a pending subscription after the client confirmed payment
// @Summary Complete a subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "Subscription ID"
// @Param request body dto.CompleteSubscriptionRequest true "Payment intent"
// @Success 200 {object} subscription.Subscription
// @Failure 400 {object} utils.ErrorResponse "Payment not completed"
// @Security BearerAuth
// @Router /subscriptions/{id}/complete [post]
// @Router /team-subscriptions/{id}/complete [post]
func (h *SubscriptionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.CompleteSubscriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sub, err := h.service.Complete(r.Context(), userID, id, req.PaymentIntentID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to complete subscription")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sub)
}

// Cancel ends a subscription owned by the caller
// @Summary Cancel a subscription
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Subscription ID"
// @Success 200 {object} subscription.Subscription
// @Security BearerAuth
// @Router /subscriptions/{id}/cancel [post]
// @Router /team-subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to cancel subscription")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sub)
}

// ListMine returns every subscription of this kind held by the caller
// @Summary List my subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} subscription.Subscription
// @Security BearerAuth
// @Router /user/subscriptions [get]
// @Router /user/team-subscriptions [get]
func (h *SubscriptionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	subs, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list subscriptions")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, subs)
}
