package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rocketcart/model"
	"rocketcart/service"
)

// Handler is the HTTP layer that talks to service.ServiceInterface
type Handler struct {
	svc    service.ServiceInterface
	logger *zap.Logger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: s, logger: logger}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.logRequests)

	r.HandleFunc("/healthz", h.Health).Methods("GET")

	// Cart
	r.HandleFunc("/cart", h.GetCart).Methods("GET")
	r.HandleFunc("/cart/products/{id:[0-9]+}", h.AddProduct).Methods("POST")
	r.HandleFunc("/cart/products/{id:[0-9]+}", h.RemoveProduct).Methods("DELETE")
	r.HandleFunc("/cart/products/{id:[0-9]+}", h.UpdateProductAmount).Methods("PUT")
}

// --- request / response shapes ---
type updateAmountReq struct {
	Amount *int `json:"amount"`
}

// lineView is the line item's own JSON plus its subtotal.
type lineView struct {
	Product  model.Product
	Subtotal decimal.Decimal
}

func (l lineView) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(l.Product)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["subtotal"] = json.RawMessage(l.Subtotal.String())
	return json.Marshal(fields)
}

type cartView struct {
	Items []lineView  `json:"items"`
	Total json.Number `json:"total"`
	Count int         `json:"count"`
}

func newCartView(cart model.Cart) cartView {
	items := make([]lineView, 0, len(cart))
	for _, p := range cart {
		items = append(items, lineView{Product: p, Subtotal: p.Subtotal()})
	}
	return cartView{Items: items, Total: json.Number(cart.Total().String()), Count: cart.Count()}
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeCartErr renders a cart operation failure with the shopper-facing message.
func writeCartErr(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)
	writeJSON(w, statusFor(kind), map[string]string{
		"error": service.Message(err),
		"kind":  kind.String(),
	})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindStockExceeded:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindTransport, service.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// --- Handler ---

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartView(h.svc.Cart()))
}

// AddProduct handles POST /cart/products/{id}
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.svc.AddProduct(r.Context(), id); err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(h.svc.Cart()))
}

// RemoveProduct handles DELETE /cart/products/{id}
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.svc.RemoveProduct(r.Context(), id); err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(h.svc.Cart()))
}

// UpdateProductAmount handles PUT /cart/products/{id}
// body: { "amount": 3 }
func (h *Handler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req updateAmountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Amount == nil {
		writeErr(w, http.StatusBadRequest, "amount is required")
		return
	}

	err := h.svc.UpdateProductAmount(r.Context(), model.UpdateProductAmount{ProductID: id, Amount: *req.Amount})
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(h.svc.Cart()))
}

// --- middleware ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests tags every request with an X-Request-ID and writes an access log line.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		h.logger.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
