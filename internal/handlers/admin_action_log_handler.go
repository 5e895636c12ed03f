package handlers

import (
	"context"
	"net/http"
	"strconv"

	"depot-backend/internal/repositories"
	"depot-backend/pkg/utils"
)

type AdminActionLogHandler struct {
	Repo *repositories.AdminActionLogRepository
}

func NewAdminActionLogHandler(repo *repositories.AdminActionLogRepository) *AdminActionLogHandler {
	return &AdminActionLogHandler{Repo: repo}
}

// ListActionLogs returns recent admin actions, newest first
func (h *AdminActionLogHandler) ListActionLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	logs, err := h.Repo.List(context.Background(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if logs == nil {
		logs = []map[string]interface{}{}
	}
	utils.JSON(w, http.StatusOK, logs)
}
