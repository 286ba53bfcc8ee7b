package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"urc/models"
)

// Lookup modes accepted by RelawanHandler
const (
	ModeServer   = "server"
	ModeBackup   = "backup"
	ModeEnhanced = "enhanced"
	ModeDebug    = "debug"
)

// ResolutionSourceHeader carries which lookup stage produced an enhanced result
const ResolutionSourceHeader = "X-Resolution-Source"

// RelawanHandler returns the pengajuan of one relawan
func (c *Controller) RelawanHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ctx := r.Context()

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = ModeEnhanced
	}

	var env models.Envelope
	switch mode {
	case ModeServer:
		env = c.gateway.GetDataByRelawan(ctx, name)
	case ModeBackup:
		env = c.gateway.GetDataByRelawanBackup(ctx, name)
	case ModeDebug:
		env = c.gateway.DebugRelawan(ctx, name)
	case ModeEnhanced:
		res := c.gateway.Resolve(ctx, name)
		w.Header().Set(ResolutionSourceHeader, string(res.Source))
		env = res.Envelope
	default:
		c.writeError(w, http.StatusBadRequest, "Unknown mode: "+mode)
		return
	}

	c.logger.Debug("relawan lookup", "relawan", name, "mode", mode, "records", len(env.Data))
	c.writeJSON(w, http.StatusOK, env)
}

// RelawanListHandler returns the distinct relawan names in the dataset
func (c *Controller) RelawanListHandler(w http.ResponseWriter, r *http.Request) {
	names := c.gateway.ListRelawan(r.Context())

	c.writeJSON(w, http.StatusOK, models.RelawanList{
		Status: models.StatusSuccess,
		Data:   names,
		Total:  len(names),
	})
}
