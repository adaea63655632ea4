package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/cart-state-service/internal/domain"
	"github.com/example/cart-state-service/internal/usecase"
	"github.com/gorilla/mux"
)

// Server — command intake over HTTP. Every mutating handler dispatches one
// CartCommand and answers with the resulting snapshot.
type Server struct {
	Router  *mux.Router
	Machine *usecase.CartStateMachine
}

func NewServer(machine *usecase.CartStateMachine) *Server {
	s := &Server{Router: mux.NewRouter(), Machine: machine}
	s.Router.HandleFunc("/api/cart", s.handleGet).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/cart/items", s.handleAdd).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/cart/items/{id}/decrease", s.handleDecrease).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/cart/adjust", s.handleAdjust).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/cart/clear", s.handleClear).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/cart/restore", s.handleRestore).Methods(http.MethodPost)
	return s
}

// snapshotDTO — wire form of a CartState.
type snapshotDTO struct {
	Items               []domain.CartLineItem `json:"items"`
	CloseCartScreenHint bool                  `json:"close_cart_screen_hint"`
}

func writeSnapshot(w http.ResponseWriter, st domain.CartState) {
	items := st.Items()
	if items == nil {
		items = []domain.CartLineItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshotDTO{Items: items, CloseCartScreenHint: st.CloseCartScreenHint})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd domain.CartCommand) {
	st, err := s.Machine.Dispatch(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeSnapshot(w, st)
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	writeSnapshot(w, s.Machine.State())
}

type addRequest struct {
	Product       domain.Product `json:"product"`
	Source        string         `json:"source,omitempty"`
	CategoryID    string         `json:"category_id,omitempty"`
	SubCategoryID string         `json:"sub_category_id,omitempty"`
	StoryID       string         `json:"story_id,omitempty"`
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Product.ProductID == "" {
		http.Error(w, "invalid add request", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, domain.AddItem{
		Product:       req.Product,
		Source:        req.Source,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		StoryID:       req.StoryID,
	})
}

type decreaseRequest struct {
	Product domain.Product `json:"product"`
}

func (s *Server) handleDecrease(w http.ResponseWriter, r *http.Request) {
	var req decreaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Product.ProductID == "" {
		http.Error(w, "invalid decrease request", http.StatusBadRequest)
		return
	}
	if mux.Vars(r)["id"] != req.Product.ProductID {
		http.Error(w, "product id mismatch", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, domain.DecreaseCount{Product: req.Product})
}

type adjustRequest struct {
	MissingItems []domain.StockCorrection `json:"missing_items"`
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid adjust request", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, domain.Adjust{MissingItems: req.MissingItems})
}

type clearRequest struct {
	CloseCartScreenHint bool `json:"close_cart_screen_hint"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid clear request", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, domain.Clear{CloseCartScreenHint: req.CloseCartScreenHint})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, domain.RestoreFromCache{})
}
