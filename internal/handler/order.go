package handler

import (
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/order"

	"github.com/gorilla/mux"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Register(r *mux.Router) {
	r.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/orders/number/{orderNumber}", h.GetByNumber).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderId:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{orderId:[0-9]+}/cancel", h.Cancel).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/orders", h.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{orderId:[0-9]+}/status", h.UpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{orderId:[0-9]+}/payment-status", h.UpdatePaymentStatus).Methods(http.MethodPut)
}

func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, errLoginNeeded)
	}
	return p, ok
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), p.UserID, order.PlaceOrderRequest{
		Shipping:      req.ShippingInfo,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.ListOrdersForUser(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), p, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	o, err := h.svc.GetOrderByNumber(r.Context(), p, mux.Vars(r)["orderNumber"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.CancelOrder(r.Context(), p.UserID, orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// ListAll filters by ?status= when present.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var (
		orders []*order.Order
		err    error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, perr := order.ParseStatus(raw)
		if perr != nil {
			writeError(w, r, perr)
			return
		}
		orders, err = h.svc.ListOrdersByStatus(r.Context(), p, status)
	} else {
		orders, err = h.svc.ListAllOrders(r.Context(), p)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), p, orderID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdatePaymentStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := order.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.UpdatePaymentStatus(r.Context(), p, orderID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
