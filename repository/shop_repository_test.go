package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/kithly/kithly-backend/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func shopRows(id, ownerID uuid.UUID, name string, verified, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "owner_user_id", "shop_name", "address", "is_verified", "is_active", "created_at", "updated_at"}).
		AddRow(id, ownerID, name, "Cairo Road, Lusaka", verified, active, now, now)
}

func TestShopFindByOwner_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormShopRepository(gormDB)

	ownerID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "shops"`)).
		WillReturnRows(shopRows(uuid.New(), ownerID, "Lusaka Gift Corner", true, true))

	shop, err := repo.FindByOwner(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.Equal(t, ownerID, shop.OwnerUserID)
	assert.True(t, shop.Eligible())
}

func TestShopFindByOwner_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormShopRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "shops"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	shop, err := repo.FindByOwner(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, shop)
}

func TestShopFindEligible(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormShopRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "shops"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "shops"`)).
		WillReturnRows(shopRows(uuid.New(), uuid.New(), "Lusaka Gift Corner", true, true))

	shops, total, err := repo.FindEligible(context.Background(), 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, shops, 1)
}
