package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dwikikusuma/shoping-cart/internal/inventory/app"
	"github.com/dwikikusuma/shoping-cart/pkg/httpx"
	"github.com/gorilla/mux"
)

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/stock/{id:[0-9]+}", s.getStock).Methods(http.MethodGet)
	r.HandleFunc("/stock/{id:[0-9]+}", s.setStock).Methods(http.MethodPut)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.svc.ListProducts(r.Context()))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) getStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	st, err := s.svc.GetStock(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

func (s *Server) setStock(w http.ResponseWriter, r *http.Request) {
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

	st, err := s.svc.SetStock(r.Context(), id, *body.Amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

// pathID writes a 400 when the digits overflow an int.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid product id")
		return 0, false
	}
	return id, true
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, app.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
