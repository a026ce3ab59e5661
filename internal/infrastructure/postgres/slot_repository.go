package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotswap/slotswap/internal/domain/slot"
)

const slotColumns = "slot_id, owner_id, title, start_at, end_at, status, version, created_at, updated_at"

// SlotRepository implements slot.Store.
type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.Slot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO slots
		(slot_id, owner_id, title, start_at, end_at, status, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, s.SlotID, s.OwnerID, s.Title, s.StartAt, s.EndAt, s.Status, s.Version, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SlotRepository) GetByID(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+` FROM slots WHERE slot_id=$1
	`, slotID)
	return scanSlot(row)
}

func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*slot.Slot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE owner_id=$1
		ORDER BY start_at ASC LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

func (r *SlotRepository) ListSwappableExcluding(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*slot.Slot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE status=$1 AND owner_id<>$2
		ORDER BY start_at ASC LIMIT $3 OFFSET $4
	`, slot.StatusSwappable, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSlots(rows)
}

// CompareAndSet applies the update only when the stored version matches.
// Zero rows updated means either a lost race or a missing slot; a
// follow-up existence check tells the two apart.
func (r *SlotRepository) CompareAndSet(ctx context.Context, slotID uuid.UUID, expectedVersion int64, update slot.Update) (*slot.Slot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE slots SET
			owner_id = COALESCE($3, owner_id),
			title    = COALESCE($4, title),
			start_at = COALESCE($5, start_at),
			end_at   = COALESCE($6, end_at),
			status   = COALESCE($7, status),
			version  = version + 1,
			updated_at = now()
		WHERE slot_id=$1 AND version=$2
		RETURNING `+slotColumns+`
	`, slotID, expectedVersion, update.OwnerID, update.Title, update.StartAt, update.EndAt, statusArg(update.Status))
	s, err := scanSlot(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		existing, err := r.GetByID(ctx, slotID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, slot.ErrNotFound
		}
		return nil, slot.ErrVersionConflict
	}
	return s, nil
}

func (r *SlotRepository) Delete(ctx context.Context, slotID uuid.UUID, expectedVersion int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM slots WHERE slot_id=$1 AND version=$2`, slotID, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		if existing == nil {
			return slot.ErrNotFound
		}
		return slot.ErrVersionConflict
	}
	return nil
}

func scanSlot(row pgx.Row) (*slot.Slot, error) {
	var s slot.Slot
	err := row.Scan(&s.SlotID, &s.OwnerID, &s.Title, &s.StartAt, &s.EndAt, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSlots(rows pgx.Rows) ([]*slot.Slot, error) {
	var slots []*slot.Slot
	for rows.Next() {
		var s slot.Slot
		if err := rows.Scan(&s.SlotID, &s.OwnerID, &s.Title, &s.StartAt, &s.EndAt, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, &s)
	}
	return slots, rows.Err()
}

// statusArg converts *Status to a driver-friendly nullable text value.
func statusArg(status *slot.Status) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}
