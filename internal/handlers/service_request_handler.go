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

type ServiceRequestHandler struct {
	Service         *services.ServiceRequestService
	CostService     *services.CostService
	DocumentService *services.DocumentService
	AdminActionRepo *repositories.AdminActionLogRepository
}

func NewServiceRequestHandler(
	service *services.ServiceRequestService,
	costService *services.CostService,
	documentService *services.DocumentService,
	adminActionRepo *repositories.AdminActionLogRepository,
) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		Service:         service,
		CostService:     costService,
		DocumentService: documentService,
		AdminActionRepo: adminActionRepo,
	}
}

// Create registers a new import or export request for a container
func (h *ServiceRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	created, err := h.Service.Create(context.Background(), &req, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "CREATE",
		TargetType:  "service_request",
		TargetID:    &created.ID,
		Description: fmt.Sprintf("Created %s request %s for container %s", created.Type, created.RequestNo, created.ContainerNo),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusCreated, created)
}

// List returns requests with their display amounts, optionally filtered
// by status and type query parameters
func (h *ServiceRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	reqType := r.URL.Query().Get("type")

	rows, err := h.Service.List(context.Background(), status, reqType)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if rows == nil {
		rows = []map[string]interface{}{}
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ServiceRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	req, err := h.Service.Get(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Request not found")
		return
	}

	utils.JSON(w, http.StatusOK, req)
}

// Advance moves a request to the next workflow status
func (h *ServiceRequestHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var body models.AdvanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	updated, err := h.Service.Advance(context.Background(), id, body.Status, body.Reason, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, updated)
}

// Reject closes a request as REJECTED, or GATE_REJECTED when refused at
// the gate during checking
func (h *ServiceRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var body models.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	updated, err := h.Service.Reject(context.Background(), id, body.AtGate, body.Reason, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, updated)
}

// History returns every request ever filed for a container, newest first
func (h *ServiceRequestHandler) History(w http.ResponseWriter, r *http.Request) {
	containerNo := strings.ToUpper(mux.Vars(r)["container_no"])

	requests, err := h.Service.History(context.Background(), containerNo)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if requests == nil {
		requests = []models.ServiceRequest{}
	}
	utils.JSON(w, http.StatusOK, requests)
}

// Cost returns the aggregated cost breakdown for a request
func (h *ServiceRequestHandler) Cost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	breakdown, err := h.CostService.ComputeCost(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, breakdown)
}

// DownloadEIR streams the equipment interchange receipt PDF
func (h *ServiceRequestHandler) DownloadEIR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	pdfBytes, err := h.DocumentService.GenerateEIRPDF(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=eir-%d.pdf", id))
	w.Write(pdfBytes)
}
