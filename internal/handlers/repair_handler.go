package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"depot-backend/internal/middleware"
	"depot-backend/internal/models"
	"depot-backend/internal/services"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type RepairHandler struct {
	Service *services.RepairService
}

func NewRepairHandler(service *services.RepairService) *RepairHandler {
	return &RepairHandler{Service: service}
}

func (h *RepairHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRepairTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ticket, err := h.Service.Create(context.Background(), &req, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, ticket)
}

// Estimate records the repair quote and moves the request to
// PENDING_ACCEPT for customer approval
func (h *RepairHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	var req models.EstimateRepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Estimate(context.Background(), id, req.EstimatedCost, req.LaborCost); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Estimate recorded"})
}

func (h *RepairHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	if err := h.Service.Accept(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Repair accepted"})
}

func (h *RepairHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	if err := h.Service.Complete(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Repair completed"})
}

func (h *RepairHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	if err := h.Service.Cancel(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Repair cancelled"})
}

func (h *RepairHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	tickets, err := h.Service.List(context.Background(), status)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if tickets == nil {
		tickets = []models.RepairTicket{}
	}
	utils.JSON(w, http.StatusOK, tickets)
}

func (h *RepairHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	ticket, err := h.Service.Get(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Ticket not found")
		return
	}

	utils.JSON(w, http.StatusOK, ticket)
}
