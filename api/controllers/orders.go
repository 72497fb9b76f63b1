package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/api/responses"
	"github.com/ChemistryHero11/BarExchange-Pro/api/validators"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/orders"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
)

const (
	defaultOrderPageSize = 50
	maxOrderPageSize     = 200
)

type orderItemRequest struct {
	DrinkID  uuid.UUID `json:"drink_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	BarID uuid.UUID          `json:"bar_id" validate:"required"`
	Items []orderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// OrderCreate prices the requested items at their current prices and
// persists the order together with its outbox event.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.OrderItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, orders.OrderItemInput{DrinkID: item.DrinkID, Quantity: item.Quantity})
		}

		order, err := svc.Create(r.Context(), orders.CreateOrderInput{BarID: req.BarID, Items: items})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderGet loads one order.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetByID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCancel marks an order canceled and emits the matching change event.
func OrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Cancel(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "canceled"})
	}
}

// BarOrders lists a bar's orders, newest first.
func BarOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barID, err := parseIDParam(r, "barID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultOrderPageSize, 1, maxOrderPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByBar(r.Context(), barID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
