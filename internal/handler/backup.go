package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hearthhq/hearth/internal/backup"
	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

// BackupHandler exposes the backup surface. Routes are mounted behind the
// admin middleware because an archive covers the whole database.
type BackupHandler struct {
	manager *backup.Manager
	backups *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, bs *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, backups: bs, logger: logger}
}

type runBackupRequest struct {
	Passphrase string `json:"passphrase"`
}

// Run handles POST /api/backups/run
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "backup storage not configured"})
		return
	}

	var req runBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Passphrase == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "passphrase is required"})
		return
	}

	id, err := h.manager.RunNow(r.Context(), req.Passphrase)
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "backup failed"})
		return
	}

	record, err := h.backups.GetByID(id)
	if err != nil || record == nil {
		writeJSON(w, http.StatusOK, map[string]int64{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// List handles GET /api/backups
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.backups.List(50)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list backups"})
		return
	}
	if records == nil {
		records = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Download handles GET /api/backups/{id}/download, streaming the encrypted
// archive as stored. Decryption happens on the client side.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	body, record, err := h.manager.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "backup not found"})
			return
		}
		h.logger.Error("download backup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to download backup"})
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	if record.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
	}

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error("stream backup", "error", err)
	}
}
