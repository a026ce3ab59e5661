package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotswap/slotswap/internal/domain/swap"
)

const swapColumns = "request_id, proposer_slot_id, counterpart_slot_id, proposer_id, counterpart_id, status, counterpart_seen, version, created_at, updated_at"

// SwapRepository implements swap.Ledger.
type SwapRepository struct {
	pool *pgxpool.Pool
}

func NewSwapRepository(pool *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{pool: pool}
}

func (r *SwapRepository) Create(ctx context.Context, req *swap.Request) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO swap_requests
		(request_id, proposer_slot_id, counterpart_slot_id, proposer_id, counterpart_id, status, counterpart_seen, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, req.RequestID, req.ProposerSlotID, req.CounterpartSlotID, req.ProposerID, req.CounterpartID, req.Status, req.CounterpartSeen, req.Version, req.CreatedAt, req.UpdatedAt)
	return err
}

func (r *SwapRepository) GetByID(ctx context.Context, requestID uuid.UUID) (*swap.Request, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+swapColumns+` FROM swap_requests WHERE request_id=$1
	`, requestID)
	return scanRequest(row)
}

func (r *SwapRepository) ListByProposer(ctx context.Context, proposerID uuid.UUID, limit, offset int) ([]*swap.Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+swapColumns+` FROM swap_requests
		WHERE proposer_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, proposerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *SwapRepository) ListPendingByCounterpart(ctx context.Context, counterpartID uuid.UUID, limit, offset int) ([]*swap.Request, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+swapColumns+` FROM swap_requests
		WHERE counterpart_id=$1 AND status=$2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, counterpartID, swap.StatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *SwapRepository) CompareAndSet(ctx context.Context, requestID uuid.UUID, expectedVersion int64, update swap.Update) (*swap.Request, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE swap_requests SET
			status           = COALESCE($3, status),
			counterpart_seen = COALESCE($4, counterpart_seen),
			version          = version + 1,
			updated_at       = now()
		WHERE request_id=$1 AND version=$2
		RETURNING `+swapColumns+`
	`, requestID, expectedVersion, swapStatusArg(update.Status), update.CounterpartSeen)
	req, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	if req == nil {
		existing, err := r.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, swap.ErrNotFound
		}
		return nil, swap.ErrVersionConflict
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*swap.Request, error) {
	var r swap.Request
	err := row.Scan(&r.RequestID, &r.ProposerSlotID, &r.CounterpartSlotID, &r.ProposerID, &r.CounterpartID, &r.Status, &r.CounterpartSeen, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRequests(rows pgx.Rows) ([]*swap.Request, error) {
	var requests []*swap.Request
	for rows.Next() {
		var r swap.Request
		if err := rows.Scan(&r.RequestID, &r.ProposerSlotID, &r.CounterpartSlotID, &r.ProposerID, &r.CounterpartID, &r.Status, &r.CounterpartSeen, &r.Version, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

func swapStatusArg(status *swap.Status) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}
