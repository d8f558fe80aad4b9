package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pupkingeorgij/proofbot/internal/repository"
)

type Storage interface {
	Profile(ctx context.Context, userID int64) (*repository.UserProfile, error)
	UserOrders(ctx context.Context, userID int64, lastN int) ([]*repository.OrderRecord, error)
}

// Server exposes operational endpoints: health, metrics and a
// read-only view of a user's recent orders.
type Server struct {
	storage Storage
	server  *http.Server
}

func New(storage Storage) *Server {
	return &Server{storage: storage}
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/orders", s.handleUserOrders).Methods(http.MethodGet)
	return router
}

func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorf("ops server shutdown failed: %v", err)
		}
	}()

	zap.S().Infof("ops server starting on port %s", port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	profile, err := s.storage.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		zap.S().Errorf("ops: failed to load profile for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	orders, err := s.storage.UserOrders(r.Context(), userID, repository.RecentOrdersCap)
	if err != nil {
		zap.S().Errorf("ops: failed to load orders for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":       profile.UserID,
		"display_name":  profile.DisplayName,
		"orders_count":  profile.OrdersCount,
		"recent_orders": profile.RecentOrderList(),
		"orders":        orders,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Errorf("ops: failed to encode response: %v", err)
	}
}
