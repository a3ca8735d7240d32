package handler

import (
	"net/http"
	"strings"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// CartTokenHeader carries the guest cart token in both directions.
const CartTokenHeader = "X-Cart-Token"

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Register(r *mux.Router) {
	r.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{itemId}", h.UpdateQuantity).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{itemId}", h.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/cart/merge/{guestToken}", h.Merge).Methods(http.MethodPost)
}

// identity prefers the signed-in user over any guest token sent along.
func identity(r *http.Request, fallback string) cart.Identity {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return cart.User(p.UserID)
	}
	token := strings.TrimSpace(r.Header.Get(CartTokenHeader))
	if token == "" {
		token = strings.TrimSpace(fallback)
	}
	return cart.Guest(token)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := identity(r, req.GuestToken)
	if id.IsGuest() && id.GuestToken() == "" {
		id = cart.Guest(uuid.NewString())
	}

	c, err := h.svc.AddItem(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if id.IsGuest() {
		w.Header().Set(CartTokenHeader, id.GuestToken())
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCart(r.Context(), identity(r, r.URL.Query().Get("guestToken")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdateQuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.UpdateQuantity(r.Context(), identity(r, ""), itemID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.RemoveItem(r.Context(), identity(r, ""), itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, errLoginNeeded)
		return
	}

	c, err := h.svc.Merge(r.Context(), mux.Vars(r)["guestToken"], p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}
