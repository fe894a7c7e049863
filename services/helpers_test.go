package services

import (
	"context"
	"testing"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{AccountID: "acct-" + email, FirstName: "Test", Email: email, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func actorOf(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

var testSchedule = time.Date(2030, 5, 1, 14, 30, 0, 0, time.UTC)

func newOrder(t *testing.T, svc *OrderService, author, courier *models.User) *models.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), actorOf(author), CreateOrderInput{
		Address:     "Main St 1",
		Target:      "J. Doe",
		Phone:       "555-0100",
		ScheduledAt: testSchedule,
		Price:       "25",
		CourierID:   courier.ID,
	})
	require.NoError(t, err)
	return order
}
