package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"depot-backend/internal/middleware"
	"depot-backend/internal/models"
	"depot-backend/internal/services"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type SealHandler struct {
	Service     *services.SealService
	SyncService *services.SealSyncService
}

func NewSealHandler(service *services.SealService, syncService *services.SealSyncService) *SealHandler {
	return &SealHandler{
		Service:     service,
		SyncService: syncService,
	}
}

// CreateBatch registers a purchased batch of seals
func (h *SealHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	batch, err := h.Service.CreateBatch(context.Background(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, batch)
}

// Issue records a seal applied to a container
func (h *SealHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req models.IssueSealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	usage, err := h.Service.Issue(context.Background(), &req, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, usage)
}

func (h *SealHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Service.ListBatches(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if batches == nil {
		batches = []models.Seal{}
	}
	utils.JSON(w, http.StatusOK, batches)
}

func (h *SealHandler) UsageHistory(w http.ResponseWriter, r *http.Request) {
	containerNo := strings.ToUpper(mux.Vars(r)["container_no"])

	usages, err := h.Service.UsageHistory(context.Background(), containerNo)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if usages == nil {
		usages = []models.SealUsage{}
	}
	utils.JSON(w, http.StatusOK, usages)
}

// Sync back-fills booking references onto one container's seal usages
func (h *SealHandler) Sync(w http.ResponseWriter, r *http.Request) {
	containerNo := strings.ToUpper(mux.Vars(r)["container_no"])

	result, err := h.SyncService.Sync(context.Background(), containerNo)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// SyncAll back-fills booking references across every container that has
// a booking. Per-container failures are reported, not fatal.
func (h *SealHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.SyncService.SyncAll(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if results == nil {
		results = []models.SealSyncResult{}
	}
	utils.JSON(w, http.StatusOK, results)
}
