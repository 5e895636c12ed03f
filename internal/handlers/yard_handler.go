package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"depot-backend/internal/middleware"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
	"depot-backend/internal/services"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type YardHandler struct {
	Service         *services.YardService
	AdminActionRepo *repositories.AdminActionLogRepository
}

func NewYardHandler(service *services.YardService, adminActionRepo *repositories.AdminActionLogRepository) *YardHandler {
	return &YardHandler{
		Service:         service,
		AdminActionRepo: adminActionRepo,
	}
}

func (h *YardHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req models.CreateYardSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slot, err := h.Service.CreateSlot(context.Background(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, slot)
}

func (h *YardHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.ListSlots(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if slots == nil {
		slots = []models.YardSlot{}
	}
	utils.JSON(w, http.StatusOK, slots)
}

// Place stacks a container onto a slot tier
func (h *YardHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceContainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	placement, err := h.Service.Place(context.Background(), &req, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "CREATE",
		TargetType:  "yard_placement",
		TargetID:    &placement.ID,
		Description: fmt.Sprintf("Placed container %s at slot %d tier %d", placement.ContainerNo, placement.SlotID, placement.Tier),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusCreated, placement)
}

// Remove lifts a container off its slot
func (h *YardHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req models.RemoveContainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	placement, err := h.Service.Remove(context.Background(), strings.ToUpper(req.ContainerNo))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "UPDATE",
		TargetType:  "yard_placement",
		TargetID:    &placement.ID,
		Description: fmt.Sprintf("Removed container %s from slot %d: %s", placement.ContainerNo, placement.SlotID, req.Reason),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusOK, placement)
}

// Map returns the full yard occupancy map
func (h *YardHandler) Map(w http.ResponseWriter, r *http.Request) {
	occupancy, err := h.Service.Map(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if occupancy == nil {
		occupancy = []models.SlotOccupancy{}
	}
	utils.JSON(w, http.StatusOK, occupancy)
}

// RebuildSlot recomputes one slot's cached occupancy from placements
func (h *YardHandler) RebuildSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid slot ID")
		return
	}

	if err := h.Service.RebuildSlot(context.Background(), slotID); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Slot cache rebuilt"})
}
