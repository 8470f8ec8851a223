package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"explore-with-me/internal/model"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id int64) (*model.Event, error)
	FindByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*model.Event, error)
	FindPublishedByID(ctx context.Context, id int64) (*model.Event, error)
	FindAllByInitiator(ctx context.Context, initiatorID int64, page model.Page) ([]*model.Event, error)
	FindAdmin(ctx context.Context, filter model.AdminEventFilter, page model.Page) ([]*model.Event, error)
	FindPublic(ctx context.Context, filter model.PublicEventFilter, page model.Page) ([]*model.Event, error)
	Update(ctx context.Context, id int64, update model.EventUpdate) (*model.Event, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int64) (*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, title, annotation, description, category_id, initiator_id,
		created_on, event_date, published_on, location_lat, location_lon,
		paid, participant_limit, request_moderation, state`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Annotation,
		&event.Description,
		&event.CategoryID,
		&event.InitiatorID,
		&event.CreatedAt,
		&event.EventDate,
		&event.PublishedAt,
		&event.Location.Lat,
		&event.Location.Lon,
		&event.Paid,
		&event.ParticipantLimit,
		&event.RequestModeration,
		&event.State,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			title, annotation, description, category_id, initiator_id,
			created_on, event_date, location_lat, location_lon,
			paid, participant_limit, request_moderation, state
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Title, event.Annotation, event.Description, event.CategoryID, event.InitiatorID,
		event.CreatedAt, event.EventDate, event.Location.Lat, event.Location.Lon,
		event.Paid, event.ParticipantLimit, event.RequestModeration, event.State,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND initiator_id = $2`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id, initiatorID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindPublishedByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND state = $2`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id, model.EventStatePublished))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	event, err := scanEvent(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindAllByInitiator(ctx context.Context, initiatorID int64, page model.Page) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE initiator_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, initiatorID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepositoryImpl) FindAdmin(ctx context.Context, filter model.AdminEventFilter, page model.Page) ([]*model.Event, error) {
	conds := []string{}
	args := []interface{}{}
	argPos := 1

	if len(filter.UserIDs) > 0 {
		conds = append(conds, fmt.Sprintf("initiator_id = ANY($%d)", argPos))
		args = append(args, filter.UserIDs)
		argPos++
	}

	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		conds = append(conds, fmt.Sprintf("state = ANY($%d)", argPos))
		args = append(args, states)
		argPos++
	}

	if len(filter.CategoryIDs) > 0 {
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", argPos))
		args = append(args, filter.CategoryIDs)
		argPos++
	}

	if filter.RangeStart != nil {
		conds = append(conds, fmt.Sprintf("event_date >= $%d", argPos))
		args = append(args, *filter.RangeStart)
		argPos++
	}

	if filter.RangeEnd != nil {
		conds = append(conds, fmt.Sprintf("event_date <= $%d", argPos))
		args = append(args, *filter.RangeEnd)
		argPos++
	}

	// 兩個時間界限都沒給時，預設只看還沒開始的事件
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		conds = append(conds, fmt.Sprintf("event_date > $%d", argPos))
		args = append(args, time.Now().UTC())
		argPos++
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, argPos, argPos+1)
	args = append(args, page.Limit(), page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepositoryImpl) FindPublic(ctx context.Context, filter model.PublicEventFilter, page model.Page) ([]*model.Event, error) {
	conds := []string{}
	args := []interface{}{}
	argPos := 1

	conds = append(conds, fmt.Sprintf("state = $%d", argPos))
	args = append(args, model.EventStatePublished)
	argPos++

	if filter.Text != nil && *filter.Text != "" {
		conds = append(conds, fmt.Sprintf("(annotation ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*filter.Text+"%")
		argPos++
	}

	if len(filter.CategoryIDs) > 0 {
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", argPos))
		args = append(args, filter.CategoryIDs)
		argPos++
	}

	if filter.Paid != nil {
		conds = append(conds, fmt.Sprintf("paid = $%d", argPos))
		args = append(args, *filter.Paid)
		argPos++
	}

	if filter.RangeStart != nil {
		conds = append(conds, fmt.Sprintf("event_date >= $%d", argPos))
		args = append(args, *filter.RangeStart)
		argPos++
	}

	if filter.RangeEnd != nil {
		conds = append(conds, fmt.Sprintf("event_date <= $%d", argPos))
		args = append(args, *filter.RangeEnd)
		argPos++
	}

	// 兩個時間界限都沒給時，預設從現在起
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		conds = append(conds, fmt.Sprintf("event_date >= $%d", argPos))
		args = append(args, time.Now().UTC())
		argPos++
	}

	if filter.OnlyAvailable {
		conds = append(conds, `(participant_limit = 0 OR participant_limit > (
			SELECT COUNT(*) FROM participation_requests pr
			WHERE pr.event_id = events.id AND pr.status = 'CONFIRMED'
		))`)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE %s
		ORDER BY event_date
		LIMIT $%d OFFSET $%d
	`, eventColumns, strings.Join(conds, " AND "), argPos, argPos+1)
	args = append(args, page.Limit(), page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int64, update model.EventUpdate) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Annotation != nil {
		appendSet("annotation", *update.Annotation)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.CategoryID != nil {
		appendSet("category_id", *update.CategoryID)
	}
	if update.EventDate != nil {
		appendSet("event_date", *update.EventDate)
	}
	if update.Location != nil {
		appendSet("location_lat", update.Location.Lat)
		appendSet("location_lon", update.Location.Lon)
	}
	if update.Paid != nil {
		appendSet("paid", *update.Paid)
	}
	if update.ParticipantLimit != nil {
		appendSet("participant_limit", *update.ParticipantLimit)
	}
	if update.RequestModeration != nil {
		appendSet("request_moderation", *update.RequestModeration)
	}
	if update.State != nil {
		appendSet("state", *update.State)
	}
	if update.PublishedAt != nil {
		appendSet("published_on", *update.PublishedAt)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
