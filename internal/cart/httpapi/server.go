package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/httpx"
	"github.com/gorilla/mux"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	store *app.Store
	ready Pinger
}

func NewServer(store *app.Store, ready Pinger) *Server {
	return &Server{store: store, ready: ready}
}

type resultBody struct {
	Op        string `json:"op"`
	Outcome   string `json:"outcome"`
	ProductID int    `json:"product_id"`
	Message   string `json:"message,omitempty"`
}

type cartResponse struct {
	Cart   domain.Cart `json:"cart"`
	Result *resultBody `json:"result,omitempty"`
}

func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.HandleFunc("/readyz", s.readyz)

	r.HandleFunc("/cart", s.getCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/summary", s.getSummary).Methods(http.MethodGet)
	r.HandleFunc("/cart/products/{id:[0-9]+}", s.addProduct).Methods(http.MethodPost)
	r.HandleFunc("/cart/products/{id:[0-9]+}", s.removeProduct).Methods(http.MethodDelete)
	r.HandleFunc("/cart/products/{id:[0-9]+}", s.updateAmount).Methods(http.MethodPut)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready.Ping(r.Context()); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, cartResponse{Cart: s.store.Cart()})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.store.Cart().Summary())
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.writeResult(w, s.store.AddProduct(r.Context(), id))
}

func (s *Server) removeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.writeResult(w, s.store.RemoveProduct(r.Context(), id))
}

func (s *Server) updateAmount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Amount *int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Amount == nil {
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "body must be {\"amount\": n}")
		return
	}

	s.writeResult(w, s.store.UpdateProductAmount(r.Context(), app.UpdateAmount{ProductID: id, Amount: *body.Amount}))
}

func (s *Server) writeResult(w http.ResponseWriter, res app.Result) {
	httpx.WriteJSON(w, statusFor(res.Outcome), cartResponse{
		Cart: s.store.Cart(),
		Result: &resultBody{
			Op:        string(res.Op),
			Outcome:   res.Outcome.String(),
			ProductID: res.ProductID,
			Message:   res.Message(),
		},
	})
}

func statusFor(o app.Outcome) int {
	switch o {
	case app.Committed, app.Ignored:
		return http.StatusOK
	case app.StockExceeded:
		return http.StatusConflict
	case app.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// pathID writes a 400 when the id does not fit an int.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid product id")
		return 0, false
	}
	return id, true
}
