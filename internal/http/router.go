package http

import (
	"net/http"

	"depot-backend/internal/handlers"
	"depot-backend/internal/middleware"
	"depot-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	totpHandler *handlers.TOTPHandler,
	requestHandler *handlers.ServiceRequestHandler,
	yardHandler *handlers.YardHandler,
	forkliftHandler *handlers.ForkliftHandler,
	repairHandler *handlers.RepairHandler,
	sealHandler *handlers.SealHandler,
	invoiceHandler *handlers.InvoiceHandler,
	consistencyHandler *handlers.ConsistencyHandler,
	reportHandler *handlers.ReportHandler,
	priceListHandler *handlers.PriceListHandler,
	adminActionLogHandler *handlers.AdminActionLogHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/verify-2fa", authHandler.Verify2FA).Methods("POST")

	// Protected API routes - Users (admin only for management)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(userHandler.UpdateUser)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(userHandler.DeleteUser)).ServeHTTP).Methods("DELETE")
	usersAPI.HandleFunc("/{id}/toggle-active", authMiddleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(userHandler.ToggleActiveStatus)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Two-factor authentication
	totpAPI := r.PathPrefix("/api/2fa").Subrouter()
	totpAPI.Use(authMiddleware.Authenticate)
	totpAPI.HandleFunc("/setup", totpHandler.Setup).Methods("POST")
	totpAPI.HandleFunc("/enable", totpHandler.Enable).Methods("POST")
	totpAPI.HandleFunc("/disable", totpHandler.Disable).Methods("POST")
	totpAPI.HandleFunc("/status", totpHandler.Status).Methods("GET")

	// Protected API routes - Service Requests
	requestsAPI := r.PathPrefix("/api/requests").Subrouter()
	requestsAPI.Use(authMiddleware.Authenticate)
	requestsAPI.HandleFunc("", requestHandler.List).Methods("GET")
	requestsAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator, models.RoleClerk)(http.HandlerFunc(requestHandler.Create)).ServeHTTP).Methods("POST")
	requestsAPI.HandleFunc("/container/{container_no}", requestHandler.History).Methods("GET")
	requestsAPI.HandleFunc("/{id}", requestHandler.Get).Methods("GET")
	requestsAPI.HandleFunc("/{id}/advance", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(requestHandler.Advance)).ServeHTTP).Methods("POST")
	requestsAPI.HandleFunc("/{id}/reject", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(requestHandler.Reject)).ServeHTTP).Methods("POST")
	requestsAPI.HandleFunc("/{id}/cost", requestHandler.Cost).Methods("GET")
	requestsAPI.HandleFunc("/{id}/eir", requestHandler.DownloadEIR).Methods("GET")

	// Protected API routes - Yard
	yardAPI := r.PathPrefix("/api/yard").Subrouter()
	yardAPI.Use(authMiddleware.Authenticate)
	yardAPI.HandleFunc("/slots", yardHandler.ListSlots).Methods("GET")
	yardAPI.HandleFunc("/slots", authMiddleware.RequireAdmin(http.HandlerFunc(yardHandler.CreateSlot)).ServeHTTP).Methods("POST")
	yardAPI.HandleFunc("/slots/{id}/rebuild", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(yardHandler.RebuildSlot)).ServeHTTP).Methods("POST")
	yardAPI.HandleFunc("/map", yardHandler.Map).Methods("GET")
	yardAPI.HandleFunc("/place", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(yardHandler.Place)).ServeHTTP).Methods("POST")
	yardAPI.HandleFunc("/remove", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(yardHandler.Remove)).ServeHTTP).Methods("POST")

	// Protected API routes - Forklift tasks
	forkliftAPI := r.PathPrefix("/api/forklift-tasks").Subrouter()
	forkliftAPI.Use(authMiddleware.Authenticate)
	forkliftAPI.HandleFunc("", forkliftHandler.List).Methods("GET")
	forkliftAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(forkliftHandler.Create)).ServeHTTP).Methods("POST")
	forkliftAPI.HandleFunc("/{id}", forkliftHandler.Get).Methods("GET")
	forkliftAPI.HandleFunc("/{id}/assign", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(forkliftHandler.Assign)).ServeHTTP).Methods("POST")
	forkliftAPI.HandleFunc("/{id}/complete", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(forkliftHandler.Complete)).ServeHTTP).Methods("POST")
	forkliftAPI.HandleFunc("/{id}/cancel", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(forkliftHandler.Cancel)).ServeHTTP).Methods("POST")

	// Protected API routes - Repair tickets
	repairsAPI := r.PathPrefix("/api/repairs").Subrouter()
	repairsAPI.Use(authMiddleware.Authenticate)
	repairsAPI.HandleFunc("", repairHandler.List).Methods("GET")
	repairsAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(repairHandler.Create)).ServeHTTP).Methods("POST")
	repairsAPI.HandleFunc("/{id}", repairHandler.Get).Methods("GET")
	repairsAPI.HandleFunc("/{id}/estimate", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(repairHandler.Estimate)).ServeHTTP).Methods("POST")
	repairsAPI.HandleFunc("/{id}/accept", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(repairHandler.Accept)).ServeHTTP).Methods("POST")
	repairsAPI.HandleFunc("/{id}/complete", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(repairHandler.Complete)).ServeHTTP).Methods("POST")
	repairsAPI.HandleFunc("/{id}/cancel", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(repairHandler.Cancel)).ServeHTTP).Methods("POST")

	// Protected API routes - Seals
	sealsAPI := r.PathPrefix("/api/seals").Subrouter()
	sealsAPI.Use(authMiddleware.Authenticate)
	sealsAPI.HandleFunc("", sealHandler.ListBatches).Methods("GET")
	sealsAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(sealHandler.CreateBatch)).ServeHTTP).Methods("POST")
	sealsAPI.HandleFunc("/issue", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(sealHandler.Issue)).ServeHTTP).Methods("POST")
	sealsAPI.HandleFunc("/sync", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(sealHandler.SyncAll)).ServeHTTP).Methods("POST")
	sealsAPI.HandleFunc("/container/{container_no}", sealHandler.UsageHistory).Methods("GET")
	sealsAPI.HandleFunc("/container/{container_no}/sync", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(sealHandler.Sync)).ServeHTTP).Methods("POST")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	invoicesAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleAdmin, models.RoleClerk)(http.HandlerFunc(invoiceHandler.Generate)).ServeHTTP).Methods("POST")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Get).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/mark-paid", authMiddleware.RequireRole(models.RoleAdmin, models.RoleClerk)(http.HandlerFunc(invoiceHandler.MarkPaid)).ServeHTTP).Methods("POST")

	// Protected API routes - Consistency checker
	consistencyAPI := r.PathPrefix("/api/consistency").Subrouter()
	consistencyAPI.Use(authMiddleware.Authenticate)
	consistencyAPI.HandleFunc("/containers/{container_no}", consistencyHandler.Resolve).Methods("GET")
	consistencyAPI.HandleFunc("/containers/{container_no}/correct", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(consistencyHandler.ApplyCorrection)).ServeHTTP).Methods("POST")
	consistencyAPI.HandleFunc("/reconcile", authMiddleware.RequireRole(models.RoleAdmin, models.RoleOperator)(http.HandlerFunc(consistencyHandler.ReconcileBatch)).ServeHTTP).Methods("POST")
	consistencyAPI.HandleFunc("/integrity", consistencyHandler.IntegrityReport).Methods("GET")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/yard-inventory", reportHandler.YardInventory).Methods("GET")
	reportsAPI.HandleFunc("/invoice-summary", reportHandler.InvoiceSummary).Methods("GET")
	reportsAPI.HandleFunc("/request-ledger", reportHandler.RequestLedger).Methods("GET")

	// Protected API routes - Price list
	pricesAPI := r.PathPrefix("/api/prices").Subrouter()
	pricesAPI.Use(authMiddleware.Authenticate)
	pricesAPI.HandleFunc("/{service_type}", priceListHandler.ListByType).Methods("GET")
	pricesAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(priceListHandler.Upsert)).ServeHTTP).Methods("PUT")

	// Protected API routes - Admin Action Logs (admin only)
	adminActionLogsAPI := r.PathPrefix("/api/admin-action-logs").Subrouter()
	adminActionLogsAPI.Use(authMiddleware.Authenticate)
	adminActionLogsAPI.HandleFunc("", authMiddleware.RequireAdmin(http.HandlerFunc(adminActionLogHandler.ListActionLogs)).ServeHTTP).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
