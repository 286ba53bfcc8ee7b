package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"urc/models"
	"urc/services"
)

// Gateway is the part of services.Gateway the HTTP API depends on
type Gateway interface {
	TestConnection(ctx context.Context) string
	SavePengajuan(ctx context.Context, data models.Record) (models.Envelope, error)
	UpdateStatus(ctx context.Context, id, status, alasan string) (models.Envelope, error)
	GetAllData(ctx context.Context) models.Envelope
	GetDataByRelawan(ctx context.Context, name string) models.Envelope
	GetDataByRelawanBackup(ctx context.Context, name string) models.Envelope
	Resolve(ctx context.Context, name string) models.Resolution
	DebugRelawan(ctx context.Context, name string) models.Envelope
	ListRelawan(ctx context.Context) []string
	GetStatus(ctx context.Context) map[string]interface{}
}

// Controller exposes the gateway operations as a local JSON API
type Controller struct {
	gateway   Gateway
	notifier  services.Notifier
	logger    *slog.Logger
	startTime time.Time
}

// NewController creates a new controller instance
func NewController(gateway Gateway, notifier services.Notifier, logger *slog.Logger) *Controller {
	return &Controller{
		gateway:   gateway,
		notifier:  notifier,
		logger:    logger,
		startTime: time.Now(),
	}
}

// RegisterRoutes configures every endpoint on router
func (c *Controller) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.HealthHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", c.TestHandler).Methods(http.MethodGet)
	api.HandleFunc("/pengajuan", c.ListPengajuanHandler).Methods(http.MethodGet)
	api.HandleFunc("/pengajuan", c.SavePengajuanHandler).Methods(http.MethodPost)
	api.HandleFunc("/pengajuan/{id}/status", c.UpdateStatusHandler).Methods(http.MethodPost)
	api.HandleFunc("/relawan", c.RelawanListHandler).Methods(http.MethodGet)
	api.HandleFunc("/relawan/{name}", c.RelawanHandler).Methods(http.MethodGet)
}

// writeJSON encodes v with the given status code
func (c *Controller) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("error encoding response", "error", err)
	}
}

// writeEnvelope writes the backend body when available so extra fields survive
func (c *Controller) writeEnvelope(w http.ResponseWriter, env models.Envelope) {
	if len(env.Raw) == 0 {
		c.writeJSON(w, http.StatusOK, env)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(env.Raw); err != nil {
		c.logger.Error("error writing response", "error", err)
	}
}

func (c *Controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, models.Envelope{
		Status:  models.StatusError,
		Data:    []models.Record{},
		Message: message,
	})
}
