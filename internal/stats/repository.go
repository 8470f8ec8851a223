package stats

import (
	"context"
	"fmt"
	"time"

	"explore-with-me/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	SaveHit(ctx context.Context, hit *model.EndpointHit) (*model.EndpointHit, error)
	// FindStats 聚合 [start, end] 區間內的瀏覽數；uris 為空表示不過濾；
	// unique 為 true 時相同 (app, uri) 的同一 IP 只算一次
	FindStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error)
}

type RepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &RepositoryImpl{
		pool: pool,
	}
}

func (r *RepositoryImpl) SaveHit(ctx context.Context, hit *model.EndpointHit) (*model.EndpointHit, error) {
	query := `
		INSERT INTO endpoint_hits (app, uri, ip, ts)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		hit.App, hit.URI, hit.IP, hit.Timestamp.Time(),
	).Scan(&hit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save hit: %w", err)
	}
	return hit, nil
}

func (r *RepositoryImpl) FindStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error) {
	countExpr := "COUNT(ip)"
	if unique {
		countExpr = "COUNT(DISTINCT ip)"
	}

	args := []interface{}{start, end}
	uriClause := ""
	if len(uris) > 0 {
		uriClause = "AND uri = ANY($3)"
		args = append(args, uris)
	}

	query := fmt.Sprintf(`
		SELECT app, uri, %s AS hits
		FROM endpoint_hits
		WHERE ts BETWEEN $1 AND $2
		%s
		GROUP BY app, uri
		ORDER BY hits DESC
	`, countExpr, uriClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.ViewStats, 0)
	for rows.Next() {
		var vs model.ViewStats
		if err := rows.Scan(&vs.App, &vs.URI, &vs.Hits); err != nil {
			return nil, err
		}
		result = append(result, vs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
