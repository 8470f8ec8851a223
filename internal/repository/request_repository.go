package repository

import (
	"context"
	"fmt"

	"explore-with-me/internal/model"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepository interface {
	FindByIDAndRequester(ctx context.Context, id, requesterID int64) (*model.ParticipationRequest, error)
	FindAllByRequester(ctx context.Context, requesterID int64) ([]*model.ParticipationRequest, error)
	FindAllByEvent(ctx context.Context, eventID int64) ([]*model.ParticipationRequest, error)
	ExistsActive(ctx context.Context, eventID, requesterID int64) (bool, error)
	CountConfirmed(ctx context.Context, eventID int64) (int64, error)
	CountConfirmedBatch(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
	UpdateStatusByRequester(ctx context.Context, id, requesterID int64, status model.RequestStatus) (*model.ParticipationRequest, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, request *model.ParticipationRequest) (*model.ParticipationRequest, error)
	FindAllByIDsForEvent(ctx context.Context, tx pgx.Tx, eventID int64, ids []int64) ([]*model.ParticipationRequest, error)
	CountConfirmedTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, ids []int64, status model.RequestStatus) error
}

type RequestRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &RequestRepositoryImpl{
		pool: pool,
	}
}

const requestColumns = `id, event_id, requester_id, created, status`

func scanRequest(row rowScanner) (*model.ParticipationRequest, error) {
	var request model.ParticipationRequest
	err := row.Scan(
		&request.ID,
		&request.EventID,
		&request.RequesterID,
		&request.Created,
		&request.Status,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, request *model.ParticipationRequest) (*model.ParticipationRequest, error) {
	query := `
		INSERT INTO participation_requests (event_id, requester_id, created, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + requestColumns

	created, err := scanRequest(tx.QueryRow(ctx, query,
		request.EventID, request.RequesterID, request.Created, request.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create participation request: %w", err)
	}
	return created, nil
}

func (r *RequestRepositoryImpl) FindByIDAndRequester(ctx context.Context, id, requesterID int64) (*model.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE id = $1 AND requester_id = $2`

	request, err := scanRequest(r.pool.QueryRow(ctx, query, id, requesterID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (r *RequestRepositoryImpl) FindAllByRequester(ctx context.Context, requesterID int64) ([]*model.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE requester_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

func (r *RequestRepositoryImpl) FindAllByEvent(ctx context.Context, eventID int64) ([]*model.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE event_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

func (r *RequestRepositoryImpl) FindAllByIDsForEvent(ctx context.Context, tx pgx.Tx, eventID int64, ids []int64) ([]*model.ParticipationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE event_id = $1 AND id = ANY($2) ORDER BY id`

	rows, err := tx.Query(ctx, query, eventID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ExistsActive 檢查 requester 對事件是否已有未取消的申請
func (r *RequestRepositoryImpl) ExistsActive(ctx context.Context, eventID, requesterID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participation_requests
			WHERE event_id = $1 AND requester_id = $2 AND status != $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, eventID, requesterID, model.RequestStatusCanceled).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *RequestRepositoryImpl) CountConfirmed(ctx context.Context, eventID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`

	var count int64
	err := r.pool.QueryRow(ctx, query, eventID, model.RequestStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RequestRepositoryImpl) CountConfirmedTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`

	var count int64
	err := tx.QueryRow(ctx, query, eventID, model.RequestStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountConfirmedBatch 一次查多個事件的已確認數，沒申請的事件不會出現在結果裡
func (r *RequestRepositoryImpl) CountConfirmedBatch(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT event_id, COUNT(*)
		FROM participation_requests
		WHERE event_id = ANY($1) AND status = $2
		GROUP BY event_id
	`

	rows, err := r.pool.Query(ctx, query, eventIDs, model.RequestStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, count int64
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, err
		}
		counts[eventID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *RequestRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, ids []int64, status model.RequestStatus) error {
	query := `UPDATE participation_requests SET status = $1 WHERE id = ANY($2)`

	_, err := tx.Exec(ctx, query, status, ids)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return nil
}

func (r *RequestRepositoryImpl) UpdateStatusByRequester(ctx context.Context, id, requesterID int64, status model.RequestStatus) (*model.ParticipationRequest, error) {
	query := `
		UPDATE participation_requests
		SET status = $1
		WHERE id = $2 AND requester_id = $3
		RETURNING ` + requestColumns

	request, err := scanRequest(r.pool.QueryRow(ctx, query, status, id, requesterID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func collectRequests(rows pgx.Rows) ([]*model.ParticipationRequest, error) {
	requests := make([]*model.ParticipationRequest, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
