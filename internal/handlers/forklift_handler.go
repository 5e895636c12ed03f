package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"depot-backend/internal/models"
	"depot-backend/internal/services"
	"depot-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ForkliftHandler struct {
	Service *services.ForkliftService
}

func NewForkliftHandler(service *services.ForkliftService) *ForkliftHandler {
	return &ForkliftHandler{Service: service}
}

func (h *ForkliftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateForkliftTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.Service.Create(context.Background(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, task)
}

func (h *ForkliftHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req models.AssignForkliftTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Assign(context.Background(), id, req.DriverName); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Task assigned"})
}

// Complete closes a task and records its cost. A zero cost falls back to
// the LOLO tariff line.
func (h *ForkliftHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req models.CompleteForkliftTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Complete(context.Background(), id, req.Cost); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Task completed"})
}

func (h *ForkliftHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.Service.Cancel(context.Background(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Task cancelled"})
}

func (h *ForkliftHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	tasks, err := h.Service.List(context.Background(), status)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if tasks == nil {
		tasks = []models.ForkliftTask{}
	}
	utils.JSON(w, http.StatusOK, tasks)
}

func (h *ForkliftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.Service.Get(context.Background(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Task not found")
		return
	}

	utils.JSON(w, http.StatusOK, task)
}
