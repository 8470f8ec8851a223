package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"explore-with-me/config"
	"explore-with-me/internal/database"
	"explore-with-me/internal/model"
	"explore-with-me/internal/repository"
	"explore-with-me/internal/service"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 並發測試需要真實資料庫，行級鎖靠 mock 驗證不了

var (
	concurrentDBOnce sync.Once
	concurrentDB     *pgxpool.Pool
	concurrentDBErr  error
)

const concurrentTestSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(250) NOT NULL,
	email VARCHAR(254) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(50) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS events (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(120) NOT NULL,
	annotation VARCHAR(2000) NOT NULL,
	description VARCHAR(7000) NOT NULL,
	category_id BIGINT NOT NULL REFERENCES categories (id),
	initiator_id BIGINT NOT NULL REFERENCES users (id),
	created_on TIMESTAMP NOT NULL,
	event_date TIMESTAMP NOT NULL,
	published_on TIMESTAMP,
	location_lat DOUBLE PRECISION NOT NULL,
	location_lon DOUBLE PRECISION NOT NULL,
	paid BOOLEAN NOT NULL,
	participant_limit INT NOT NULL,
	request_moderation BOOLEAN NOT NULL,
	state VARCHAR(10) NOT NULL
);

CREATE TABLE IF NOT EXISTS participation_requests (
	id BIGSERIAL PRIMARY KEY,
	event_id BIGINT NOT NULL REFERENCES events (id),
	requester_id BIGINT NOT NULL REFERENCES users (id),
	created TIMESTAMP NOT NULL,
	status VARCHAR(10) NOT NULL
);
`

func concurrencyTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	concurrentDBOnce.Do(func() {
		cfg := config.LoadTestConfig()
		concurrentDB, concurrentDBErr = database.InitDatabase(&cfg.Database)
		if concurrentDBErr != nil {
			return
		}
		ctx := context.Background()
		if concurrentDBErr = concurrentDB.Ping(ctx); concurrentDBErr != nil {
			return
		}
		_, concurrentDBErr = concurrentDB.Exec(ctx, concurrentTestSchema)
	})
	if concurrentDBErr != nil {
		t.Skipf("Test database unavailable, skipping concurrency tests: %v", concurrentDBErr)
	}

	_, err := concurrentDB.Exec(context.Background(),
		"TRUNCATE participation_requests, events, categories, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate test tables: %v", err)
	}
	return concurrentDB
}

func createConcurrencyUser(t *testing.T, db *pgxpool.Pool, name, email string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(),
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id", name, email).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}
	return id
}

func createPublishedEvent(t *testing.T, db *pgxpool.Pool, initiatorID int64, participantLimit int, requestModeration bool) int64 {
	t.Helper()
	ctx := context.Background()

	var categoryID int64
	err := db.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ('Concerts') RETURNING id").Scan(&categoryID)
	if err != nil {
		t.Fatalf("Failed to insert test category: %v", err)
	}

	created, err := repository.NewEventRepository(db).Create(ctx, &model.Event{
		Title:             "Popular concert",
		Annotation:        "A very popular concert with almost no seats left",
		Description:       "One night only, the hall fits next to nobody.",
		CategoryID:        categoryID,
		InitiatorID:       initiatorID,
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
		EventDate:         time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second),
		Location:          model.Location{Lat: 55.75, Lon: 37.61},
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		State:             model.EventStatePending,
	})
	if err != nil {
		t.Fatalf("Failed to insert test event: %v", err)
	}

	_, err = db.Exec(ctx,
		"UPDATE events SET state = 'PUBLISHED', published_on = now() WHERE id = $1", created.ID)
	if err != nil {
		t.Fatalf("Failed to publish test event: %v", err)
	}
	return created.ID
}

func countConfirmedRows(t *testing.T, db *pgxpool.Pool, eventID int64) int {
	t.Helper()
	var count int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = 'CONFIRMED'",
		eventID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count confirmed requests: %v", err)
	}
	return count
}

// 模擬真實情境：20 個使用者同時申請只剩 1 個名額的免審核事件
func TestConcurrentRequestCreate_NoOverAdmission(t *testing.T) {
	db := concurrencyTestDB(t)
	ctx := context.Background()

	eventRepo := repository.NewEventRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	userRepo := repository.NewUserRepository(db)
	requestService := service.NewRequestService(db, requestRepo, eventRepo, userRepo)

	concurrentUsers := 20
	participantLimit := 1

	initiatorID := createConcurrencyUser(t, db, "Initiator", "initiator@test.com")
	userIDs := make([]int64, concurrentUsers)
	for i := 0; i < concurrentUsers; i++ {
		userIDs[i] = createConcurrencyUser(t, db, fmt.Sprintf("User%d", i), fmt.Sprintf("user%d@test.com", i))
	}

	// 免審核 → 申請直接成為 CONFIRMED，名額檢查必須擋住超收
	eventID := createPublishedEvent(t, db, initiatorID, participantLimit, false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	conflictCount := 0

	for i := 0; i < concurrentUsers; i++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()

			_, err := requestService.Create(ctx, userIDs[userIndex], eventID)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
			} else if assert.ErrorIs(t, err, apperrors.ErrConflict) {
				conflictCount++
			}
		}(i)
	}

	wg.Wait()

	t.Logf("%d users competing for %d slot(s) - Success: %d, Conflict: %d",
		concurrentUsers, participantLimit, successCount, conflictCount)

	// 關鍵斷言：CONFIRMED 數永遠不超過名額
	assert.Equal(t, participantLimit, successCount, "Successful requests should equal the participant limit")
	assert.Equal(t, concurrentUsers-participantLimit, conflictCount, "Everyone else should get a conflict")
	assert.Equal(t, participantLimit, countConfirmedRows(t, db, eventID), "Confirmed rows should never exceed the limit")
}

// 兩個審核交易同時確認不同申請，只剩 1 個名額時只能成功一個
func TestConcurrentChangeStatus_NoOverAdmission(t *testing.T) {
	db := concurrencyTestDB(t)
	ctx := context.Background()

	eventRepo := repository.NewEventRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	userRepo := repository.NewUserRepository(db)
	requestService := service.NewRequestService(db, requestRepo, eventRepo, userRepo)

	initiatorID := createConcurrencyUser(t, db, "Initiator", "initiator@test.com")
	firstID := createConcurrencyUser(t, db, "First", "first@test.com")
	secondID := createConcurrencyUser(t, db, "Second", "second@test.com")

	// 需審核、限 1 名 → 兩筆申請都停在 PENDING
	eventID := createPublishedEvent(t, db, initiatorID, 1, true)

	first, err := requestService.Create(ctx, firstID, eventID)
	require.NoError(t, err)
	second, err := requestService.Create(ctx, secondID, eventID)
	require.NoError(t, err)
	require.Equal(t, string(model.RequestStatusPending), first.Status)
	require.Equal(t, string(model.RequestStatusPending), second.Status)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	conflictCount := 0

	for _, requestID := range []int64{first.ID, second.ID} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()

			_, err := requestService.ChangeStatus(ctx, initiatorID, eventID, model.StatusUpdateRequest{
				RequestIDs: []int64{id},
				Status:     string(model.RequestStatusConfirmed),
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
			} else if assert.ErrorIs(t, err, apperrors.ErrConflict) {
				conflictCount++
			}
		}(requestID)
	}

	wg.Wait()

	assert.Equal(t, 1, successCount, "Only one moderation call should fit the remaining slot")
	assert.Equal(t, 1, conflictCount, "The losing call should get a conflict")
	assert.Equal(t, 1, countConfirmedRows(t, db, eventID), "Confirmed rows should never exceed the limit")
}
