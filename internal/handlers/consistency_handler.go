package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"depot-backend/internal/cache"
	"depot-backend/internal/middleware"
	"depot-backend/internal/models"
	"depot-backend/internal/repositories"
	"depot-backend/internal/services"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// ConsistencyHandler exposes the state resolver and the reconciler.
// Resolve is read-only; corrections and batch runs mutate and are
// restricted to operator roles in the router.
type ConsistencyHandler struct {
	Resolver        *services.StateResolverService
	Reconciler      *services.ReconcileService
	AdminActionRepo *repositories.AdminActionLogRepository
}

func NewConsistencyHandler(
	resolver *services.StateResolverService,
	reconciler *services.ReconcileService,
	adminActionRepo *repositories.AdminActionLogRepository,
) *ConsistencyHandler {
	return &ConsistencyHandler{
		Resolver:        resolver,
		Reconciler:      reconciler,
		AdminActionRepo: adminActionRepo,
	}
}

// resolveErrorStatus maps a resolver failure to its HTTP status. A
// duplicate-occupancy violation is corrupt data, not a missing container,
// and must not read as 404.
func resolveErrorStatus(err error) int {
	var integrity *models.IntegrityError
	if errors.As(err, &integrity) {
		return http.StatusConflict
	}
	return http.StatusNotFound
}

// Resolve returns the canonical state of a container without mutating
// anything. Results are cached briefly; corrections invalidate the cache.
func (h *ConsistencyHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	containerNo := strings.ToUpper(mux.Vars(r)["container_no"])
	ctx := context.Background()

	if data, ok := cache.GetCachedResolution(ctx, containerNo); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	resolution, err := h.Resolver.Resolve(ctx, containerNo)
	if err != nil {
		utils.Error(w, resolveErrorStatus(err), err.Error())
		return
	}

	if data, err := json.Marshal(resolution); err == nil {
		cache.CacheResolution(ctx, containerNo, data)
	}

	utils.JSON(w, http.StatusOK, resolution)
}

// ApplyCorrection applies the resolver's auto-correction to one container
func (h *ConsistencyHandler) ApplyCorrection(w http.ResponseWriter, r *http.Request) {
	containerNo := strings.ToUpper(mux.Vars(r)["container_no"])

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.Reconciler.ApplyCorrection(context.Background(), containerNo, userID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "UPDATE",
		TargetType:  "container",
		Description: fmt.Sprintf("Corrected container %s: %s -> %s (%s)", containerNo, result.PreviousStatus, result.NewStatus, result.Rule),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusOK, result)
}

// ReconcileBatch scans every active container and applies corrections
// where safe. Always returns a full report; per-container failures do
// not abort the run.
func (h *ConsistencyHandler) ReconcileBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report := h.Reconciler.ReconcileBatch(context.Background(), userID)

	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: userID,
		ActionType:  "UPDATE",
		TargetType:  "container",
		Description: fmt.Sprintf("Reconcile batch: %d scanned, %d fixed, %d flagged, %d errors", report.Scanned, report.Fixed, report.Flagged, len(report.Errors)),
		IPAddress:   &ipAddress,
	})

	utils.JSON(w, http.StatusOK, report)
}

// IntegrityReport lists duplicate OCCUPIED placements across the yard
func (h *ConsistencyHandler) IntegrityReport(w http.ResponseWriter, r *http.Request) {
	violations, err := h.Reconciler.IntegrityReport(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if violations == nil {
		violations = []models.IntegrityError{}
	}
	utils.JSON(w, http.StatusOK, violations)
}
