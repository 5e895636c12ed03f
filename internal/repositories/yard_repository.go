package repositories

import (
	"context"
	"errors"
	"fmt"

	"depot-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type YardRepository struct {
	DB *pgxpool.Pool
}

func NewYardRepository(db *pgxpool.Pool) *YardRepository {
	return &YardRepository{DB: db}
}

// CreateSlot registers a new physical slot, initially EMPTY
func (r *YardRepository) CreateSlot(ctx context.Context, slot *models.YardSlot) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO yard_slots (code, block, max_tier, status)
		VALUES ($1, $2, $3, 'EMPTY')
		RETURNING id, status, updated_at
	`, slot.Code, slot.Block, slot.MaxTier).Scan(&slot.ID, &slot.Status, &slot.UpdatedAt)
}

// GetSlot retrieves one slot cache row
func (r *YardRepository) GetSlot(ctx context.Context, id int) (*models.YardSlot, error) {
	slot := &models.YardSlot{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, code, block, max_tier, status, occupant_container_no, updated_at
		FROM yard_slots WHERE id = $1
	`, id).Scan(&slot.ID, &slot.Code, &slot.Block, &slot.MaxTier, &slot.Status, &slot.OccupantContainerNo, &slot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// ListSlots retrieves all slot cache rows ordered by code
func (r *YardRepository) ListSlots(ctx context.Context) ([]models.YardSlot, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, code, block, max_tier, status, occupant_container_no, updated_at
		FROM yard_slots ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.YardSlot
	for rows.Next() {
		var s models.YardSlot
		if err := rows.Scan(&s.ID, &s.Code, &s.Block, &s.MaxTier, &s.Status, &s.OccupantContainerNo, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

const placementColumns = `
	id, slot_id, tier, container_no, status, service_request_id,
	placed_by_user_id, placed_at, removed_at
`

func scanPlacement(row pgx.Row) (*models.YardPlacement, error) {
	p := &models.YardPlacement{}
	err := row.Scan(
		&p.ID, &p.SlotID, &p.Tier, &p.ContainerNo, &p.Status,
		&p.ServiceRequestID, &p.PlacedByUserID, &p.PlacedAt, &p.RemovedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetActivePlacement returns the container's active OCCUPIED placement, or
// nil when the container is not in the yard. Occupancy is always answered
// from placements; the yard_slots cache is display-only.
//
// Finding more than one active placement sharing a (slot, tier) is a fatal
// data-integrity violation and comes back as *models.IntegrityError.
func (r *YardRepository) GetActivePlacement(ctx context.Context, containerNo string) (*models.YardPlacement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+placementColumns+`
		FROM yard_placements
		WHERE container_no = $1 AND status = 'OCCUPIED' AND removed_at IS NULL
		ORDER BY placed_at DESC
	`, containerNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var placements []models.YardPlacement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		placements = append(placements, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(placements) == 0 {
		return nil, nil
	}
	active := placements[0]

	// A container listed twice is tolerable only when the rows point at
	// different physical positions (re-stacking leftovers); the same
	// (slot, tier) twice means the books are corrupt.
	count, err := r.countActiveAt(ctx, active.SlotID, active.Tier)
	if err != nil {
		return nil, err
	}
	if count > 1 {
		return nil, &models.IntegrityError{
			ContainerNo: containerNo,
			SlotID:      active.SlotID,
			Tier:        active.Tier,
			Count:       count,
		}
	}
	return &active, nil
}

func (r *YardRepository) countActiveAt(ctx context.Context, slotID, tier int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM yard_placements
		WHERE slot_id = $1 AND tier = $2 AND status = 'OCCUPIED' AND removed_at IS NULL
	`, slotID, tier).Scan(&count)
	return count, err
}

// Place records a new OCCUPIED placement and refreshes the slot cache in
// one transaction. The position must be free.
func (r *YardRepository) Place(ctx context.Context, p *models.YardPlacement) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Guard the (slot, tier) uniqueness invariant up front; the partial
	// unique index backs this up at the schema level.
	var occupied int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM yard_placements
		WHERE slot_id = $1 AND tier = $2 AND status = 'OCCUPIED' AND removed_at IS NULL
	`, p.SlotID, p.Tier).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return fmt.Errorf("slot %d tier %d is already occupied", p.SlotID, p.Tier)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO yard_placements (slot_id, tier, container_no, status, service_request_id, placed_by_user_id)
		VALUES ($1, $2, $3, 'OCCUPIED', $4, $5)
		RETURNING id, status, placed_at
	`, p.SlotID, p.Tier, p.ContainerNo, p.ServiceRequestID, p.PlacedByUserID).Scan(&p.ID, &p.Status, &p.PlacedAt)
	if err != nil {
		return err
	}

	if err := r.RebuildSlotCacheTx(ctx, tx, p.SlotID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Remove closes the container's active placement and refreshes the slot
// cache in one transaction. Returns the closed placement.
func (r *YardRepository) Remove(ctx context.Context, containerNo string) (*models.YardPlacement, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p, err := scanPlacement(tx.QueryRow(ctx, `
		UPDATE yard_placements
		SET status = 'EMPTY', removed_at = NOW()
		WHERE id = (
			SELECT id FROM yard_placements
			WHERE container_no = $1 AND status = 'OCCUPIED' AND removed_at IS NULL
			ORDER BY placed_at DESC LIMIT 1
		)
		RETURNING `+placementColumns+`
	`, containerNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("container %s has no active placement", containerNo)
		}
		return nil, err
	}

	if err := r.RebuildSlotCacheTx(ctx, tx, p.SlotID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveTx is Remove inside a caller-owned transaction (used by the
// correction path so request and yard rows commit atomically).
func (r *YardRepository) RemoveTx(ctx context.Context, tx pgx.Tx, containerNo string) (*models.YardPlacement, error) {
	p, err := scanPlacement(tx.QueryRow(ctx, `
		UPDATE yard_placements
		SET status = 'EMPTY', removed_at = NOW()
		WHERE id = (
			SELECT id FROM yard_placements
			WHERE container_no = $1 AND status = 'OCCUPIED' AND removed_at IS NULL
			ORDER BY placed_at DESC LIMIT 1
		)
		RETURNING `+placementColumns+`
	`, containerNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("container %s has no active placement", containerNo)
		}
		return nil, err
	}
	if err := r.RebuildSlotCacheTx(ctx, tx, p.SlotID); err != nil {
		return nil, err
	}
	return p, nil
}

// RebuildSlotCacheTx recomputes one yard_slots row from the placements
// table. This is the only code path that writes the cache, which keeps the
// dual-write drift class of bugs impossible.
func (r *YardRepository) RebuildSlotCacheTx(ctx context.Context, tx pgx.Tx, slotID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE yard_slots s
		SET status = COALESCE(p.status, 'EMPTY'),
		    occupant_container_no = p.container_no,
		    updated_at = NOW()
		FROM (
			SELECT $1::int AS slot_id
		) target
		LEFT JOIN LATERAL (
			SELECT status, container_no FROM yard_placements
			WHERE slot_id = target.slot_id AND removed_at IS NULL AND status IN ('OCCUPIED', 'HOLD')
			ORDER BY tier DESC, placed_at DESC LIMIT 1
		) p ON TRUE
		WHERE s.id = target.slot_id
	`, slotID)
	return err
}

// RebuildSlotCache is the standalone-maintenance variant of RebuildSlotCacheTx
func (r *YardRepository) RebuildSlotCache(ctx context.Context, slotID int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := r.RebuildSlotCacheTx(ctx, tx, slotID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// OccupancyMap returns every slot with its active placements, for the yard
// map screen. Built from placements, not the cache.
func (r *YardRepository) OccupancyMap(ctx context.Context) ([]models.SlotOccupancy, error) {
	slots, err := r.ListSlots(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT `+placementColumns+`
		FROM yard_placements
		WHERE removed_at IS NULL AND status IN ('OCCUPIED', 'HOLD')
		ORDER BY slot_id, tier
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySlot := make(map[int][]models.YardPlacement)
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		bySlot[p.SlotID] = append(bySlot[p.SlotID], *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	occupancy := make([]models.SlotOccupancy, 0, len(slots))
	for _, s := range slots {
		occupancy = append(occupancy, models.SlotOccupancy{Slot: s, Placements: bySlot[s.ID]})
	}
	return occupancy, nil
}

// FindDuplicateOccupied scans for (slot, tier) positions held by more than
// one active placement anywhere in the yard. Used by the integrity report.
func (r *YardRepository) FindDuplicateOccupied(ctx context.Context) ([]models.IntegrityError, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT slot_id, tier, COUNT(*), MIN(container_no)
		FROM yard_placements
		WHERE status = 'OCCUPIED' AND removed_at IS NULL
		GROUP BY slot_id, tier
		HAVING COUNT(*) > 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []models.IntegrityError
	for rows.Next() {
		var v models.IntegrityError
		if err := rows.Scan(&v.SlotID, &v.Tier, &v.Count, &v.ContainerNo); err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}
