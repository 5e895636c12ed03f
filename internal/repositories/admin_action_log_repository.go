package repositories

import (
	"context"
	"log"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminActionLogRepository struct {
	DB *pgxpool.Pool
}

func NewAdminActionLogRepository(db *pgxpool.Pool) *AdminActionLogRepository {
	return &AdminActionLogRepository{DB: db}
}

// CreateActionLog writes one audit row. Audit logging is best-effort: a
// failed insert is logged but never fails the action itself.
func (r *AdminActionLogRepository) CreateActionLog(ctx context.Context, entry *models.AdminActionLog) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO admin_action_logs (admin_user_id, action_type, target_type, target_id, description, old_value, new_value, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, entry.AdminUserID, entry.ActionType, entry.TargetType, entry.TargetID,
		entry.Description, entry.OldValue, entry.NewValue, entry.IPAddress,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		log.Printf("[Audit] failed to write action log: %v", err)
	}
}

// List retrieves recent audit rows with the acting user's name
func (r *AdminActionLogRepository) List(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT l.id, l.admin_user_id, COALESCE(u.name, ''), l.action_type, l.target_type,
		       l.target_id, l.description, l.ip_address, l.created_at
		FROM admin_action_logs l
		LEFT JOIN users u ON l.admin_user_id = u.id
		ORDER BY l.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []map[string]interface{}
	for rows.Next() {
		var entry models.AdminActionLog
		var userName string
		if err := rows.Scan(
			&entry.ID, &entry.AdminUserID, &userName, &entry.ActionType, &entry.TargetType,
			&entry.TargetID, &entry.Description, &entry.IPAddress, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		row := map[string]interface{}{
			"id":            entry.ID,
			"admin_user_id": entry.AdminUserID,
			"admin_name":    userName,
			"action_type":   entry.ActionType,
			"target_type":   entry.TargetType,
			"description":   entry.Description,
			"created_at":    entry.CreatedAt,
		}
		if entry.TargetID != nil {
			row["target_id"] = *entry.TargetID
		}
		if entry.IPAddress != nil {
			row["ip_address"] = *entry.IPAddress
		}
		logs = append(logs, row)
	}
	return logs, rows.Err()
}
