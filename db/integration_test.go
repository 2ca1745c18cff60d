package db_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"noblelift-backend/db"
	taskstore "noblelift-backend/lib/tasks/store"
	usersstore "noblelift-backend/lib/users/store"
	vehiclesstore "noblelift-backend/lib/vehicles/store"
	"noblelift-backend/models"
	dbmodels "noblelift-backend/models/db"
)

const racers = 8

// setupTestDB поднимает PostgreSQL в контейнере и накатывает миграции
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("TEST_INTEGRATION не установлена")
	}
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("noblelift_test"),
		postgres.WithUsername("noblelift"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	conn, err := db.Open(db.DSN(host, port.Port(), "noblelift_test", "noblelift", "test-password"), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateDB(conn))
	return conn
}

func createUsers(t *testing.T, conn *gorm.DB, count int) []string {
	role := dbmodels.Role{Code: models.EmployeeRole, Name: models.EmployeeRole.ToHuman()}
	require.NoError(t, conn.Create(&role).Error)
	store := usersstore.NewInstance(conn)
	ids := make([]string, 0, count)
	for n := 0; n < count; n++ {
		id, err := store.Create(dbmodels.User{
			Email:    fmt.Sprintf("user%v@noblelift.test", n),
			FullName: fmt.Sprintf("Сотрудник %v", n),
			RoleID:   role.ID,
			IsActive: true,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// race запускает take от каждого пользователя одновременно и возвращает число успехов
func race(userIDs []string, take func(userID string) (bool, error)) (int, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		won   int
		fail  error
		start = make(chan struct{})
	)
	for _, userID := range userIDs {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			<-start
			ok, err := take(userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fail = err
			}
			if ok {
				won++
			}
		}(userID)
	}
	close(start)
	wg.Wait()
	return won, fail
}

func TestConcurrentTake(t *testing.T) {
	conn := setupTestDB(t)
	userIDs := createUsers(t, conn, racers)

	t.Run(`common task has one taker`, func(t *testing.T) {
		store := taskstore.NewInstance(conn)
		taskID, err := store.Create(dbmodels.Task{
			Title:        "Разгрузить фуру",
			Type:         models.TaskTypeCommon,
			StatusCode:   models.TaskStatusNew,
			PriorityCode: models.TaskPriorityMedium,
			CreatorID:    userIDs[0],
		})
		require.NoError(t, err)

		won, err := race(userIDs, func(userID string) (bool, error) {
			return store.Take(taskID, userID)
		})
		require.NoError(t, err)
		require.Equal(t, 1, won)

		rec, err := store.GetByID(taskID)
		require.NoError(t, err)
		require.NotNil(t, rec.AssigneeID)
		require.Equal(t, models.TaskStatusInProgress, rec.StatusCode)

		ok, err := store.Release(taskID, *rec.AssigneeID)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = store.Release(taskID, *rec.AssigneeID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run(`vehicle has one holder`, func(t *testing.T) {
		store := vehiclesstore.NewInstance(conn)
		vehicleID, err := store.Create(dbmodels.Vehicle{
			Number: "А123ВС77",
			Status: models.VehicleStatusAvailable,
		})
		require.NoError(t, err)

		won, err := race(userIDs, func(userID string) (bool, error) {
			return store.Take(vehicleID, userID)
		})
		require.NoError(t, err)
		require.Equal(t, 1, won)

		rec, err := store.GetByID(vehicleID)
		require.NoError(t, err)
		require.NotNil(t, rec.HolderID)
		require.Equal(t, models.VehicleStatusInUse, rec.Status)

		deleted, err := store.DeleteFree(vehicleID)
		require.NoError(t, err)
		require.False(t, deleted)
	})
}
