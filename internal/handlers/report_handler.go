package handlers

import (
	"context"
	"net/http"
	"time"

	"depot-backend/internal/services"
	"depot-backend/internal/timeutil"
	"depot-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// YardInventory streams the current yard occupancy as an Excel workbook
func (h *ReportHandler) YardInventory(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.YardInventoryExcel(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeExcel(w, "yard-inventory", data)
}

// InvoiceSummary streams the invoice ledger as an Excel workbook
func (h *ReportHandler) InvoiceSummary(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.InvoiceSummaryExcel(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeExcel(w, "invoice-summary", data)
}

// RequestLedger returns request counts per status
func (h *ReportHandler) RequestLedger(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Service.RequestLedger(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, counts)
}

func writeExcel(w http.ResponseWriter, name string, data []byte) {
	filename := name + "-" + timeutil.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.Write(data)
}
