package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PriceListHandler struct {
	Repo *repositories.PriceListRepository
}

func NewPriceListHandler(repo *repositories.PriceListRepository) *PriceListHandler {
	return &PriceListHandler{Repo: repo}
}

func (h *PriceListHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	serviceType := strings.ToUpper(mux.Vars(r)["service_type"])
	if serviceType != models.RequestTypeImport && serviceType != models.RequestTypeExport {
		utils.Error(w, http.StatusBadRequest, "Service type must be IMPORT or EXPORT")
		return
	}

	entries, err := h.Repo.ListByType(context.Background(), serviceType)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if entries == nil {
		entries = []models.PriceListEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

// Upsert creates or replaces one tariff line
func (h *PriceListHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertPriceListEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.ServiceType = strings.ToUpper(req.ServiceType)
	if req.ServiceType != models.RequestTypeImport && req.ServiceType != models.RequestTypeExport {
		utils.Error(w, http.StatusBadRequest, "Service type must be IMPORT or EXPORT")
		return
	}

	entry := &models.PriceListEntry{
		ServiceType: req.ServiceType,
		ItemCode:    strings.ToUpper(req.ItemCode),
		Label:       req.Label,
		Amount:      req.Amount,
	}
	if err := h.Repo.Upsert(context.Background(), entry); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, entry)
}
