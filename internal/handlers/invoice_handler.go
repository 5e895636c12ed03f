package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"depot-backend/internal/middleware"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
	"depot-backend/internal/services"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	Service         *services.InvoiceService
	DocumentService *services.DocumentService
	AdminActionRepo *repositories.AdminActionLogRepository
}

func NewInvoiceHandler(
	service *services.InvoiceService,
	documentService *services.DocumentService,
	adminActionRepo *repositories.AdminActionLogRepository,
) *InvoiceHandler {
	return &InvoiceHandler{
		Service:         service,
		DocumentService: documentService,
		AdminActionRepo: adminActionRepo,
	}
}

type generateInvoiceRequest struct {
	ServiceRequestID int    `json:"service_request_id"`
	Notes            string `json:"notes"`
}

// Generate creates an invoice from a request's cost breakdown
func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	invoice, err := h.Service.Generate(context.Background(), req.ServiceRequestID, userID, req.Notes)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "CREATE",
		TargetType:  "invoice",
		TargetID:    &invoice.Invoice.ID,
		Description: fmt.Sprintf("Generated invoice %s for request #%d", invoice.Invoice.InvoiceNumber, req.ServiceRequestID),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusCreated, invoice)
}

// MarkPaid settles an invoice and unlocks the real amount on the request
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Service.MarkPaid(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "UPDATE",
		TargetType:  "invoice",
		TargetID:    &id,
		Description: fmt.Sprintf("Marked invoice #%d as paid", id),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Invoice marked as paid"})
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.Service.Get(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Invoice not found")
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.List(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if invoices == nil {
		invoices = []models.Invoice{}
	}
	utils.JSON(w, http.StatusOK, invoices)
}

// DownloadPDF streams the invoice as a PDF document
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	pdfBytes, err := h.DocumentService.GenerateInvoicePDF(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", id))
	w.Write(pdfBytes)
}
