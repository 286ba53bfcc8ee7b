package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"urc/models"
)

// ListPengajuanHandler returns every pengajuan
func (c *Controller) ListPengajuanHandler(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.gateway.GetAllData(r.Context()))
}

// SavePengajuanHandler submits a new pengajuan from a JSON object body
func (c *Controller) SavePengajuanHandler(w http.ResponseWriter, r *http.Request) {
	var data models.Record
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data == nil {
		c.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	c.notifier.Loading(true, "Menyimpan pengajuan...")
	env, err := c.gateway.SavePengajuan(r.Context(), data)
	c.notifier.Loading(false, "")

	if err != nil {
		c.notifier.Notify("Gagal menyimpan pengajuan: "+err.Error(), models.NotifyError)
		c.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	c.notifier.Notify("Pengajuan berhasil disimpan", models.NotifySuccess)
	c.writeEnvelope(w, env)
}

// UpdateStatusHandler changes the status of a pengajuan
func (c *Controller) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		c.writeError(w, http.StatusBadRequest, "Status field is required")
		return
	}

	c.notifier.Loading(true, "Memperbarui status...")
	env, err := c.gateway.UpdateStatus(r.Context(), id, req.Status, req.Alasan)
	c.notifier.Loading(false, "")

	if err != nil {
		c.notifier.Notify("Gagal memperbarui status: "+err.Error(), models.NotifyError)
		c.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	c.notifier.Notify("Status pengajuan "+id+" diperbarui", models.NotifySuccess)
	c.writeEnvelope(w, env)
}
