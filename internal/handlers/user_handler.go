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

type UserHandler struct {
	Service         *services.UserService
	AdminActionRepo *repositories.AdminActionLogRepository
}

func NewUserHandler(s *services.UserService, adminActionRepo *repositories.AdminActionLogRepository) *UserHandler {
	return &UserHandler{
		Service:         s,
		AdminActionRepo: adminActionRepo,
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(context.Background())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if users == nil {
		users = []models.User{}
	}
	utils.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Service.CreateUser(context.Background(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logAction(r, "CREATE", &user.ID, fmt.Sprintf("Created user %s with role %s", user.Email, user.Role))
	utils.JSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.Service.GetUser(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Service.UpdateUser(context.Background(), id, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logAction(r, "UPDATE", &id, fmt.Sprintf("Updated user %s", user.Email))
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) ToggleActiveStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.Service.ToggleActive(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logAction(r, "UPDATE", &id, fmt.Sprintf("Toggled active status for user #%d", id))
	utils.JSON(w, http.StatusOK, map[string]string{"message": "User status updated"})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.Service.DeleteUser(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logAction(r, "DELETE", &id, fmt.Sprintf("Deleted user #%d", id))
	utils.JSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *UserHandler) logAction(r *http.Request, actionType string, targetID *int, description string) {
	adminID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return
	}
	ipAddress := getIPAddress(r)
	h.AdminActionRepo.CreateActionLog(context.Background(), &models.AdminActionLog{
		AdminUserID: adminID,
		ActionType:  actionType,
		TargetType:  "user",
		TargetID:    targetID,
		Description: description,
		IPAddress:   &ipAddress,
	})
}
