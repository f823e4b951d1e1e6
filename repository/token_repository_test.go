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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func tokenRows(id, orderID, shopID uuid.UUID, redeemed bool, redeemedAt *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "shop_id", "is_redeemed", "redeemed_at", "created_at"}).
		AddRow(id, orderID, shopID, redeemed, redeemedAt, time.Now())
}

func TestRedeem_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTokenRepository(gormDB)

	tokenID := uuid.New()
	orderID := uuid.New()
	shopID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "collection_tokens"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "collection_tokens"`)).
		WillReturnRows(tokenRows(tokenID, orderID, shopID, true, &now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	token, err := repo.Redeem(context.Background(), tokenID, now)
	assert.NoError(t, err)
	assert.True(t, token.IsRedeemed)
	assert.Equal(t, orderID, token.OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_AlreadyRedeemed(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTokenRepository(gormDB)

	tokenID := uuid.New()
	redeemedAt := time.Now().UTC().Add(-time.Hour)

	// Conditional update touches nothing, and the follow-up read shows a
	// spent token.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "collection_tokens"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "collection_tokens"`)).
		WillReturnRows(tokenRows(tokenID, uuid.New(), uuid.New(), true, &redeemedAt))
	mock.ExpectRollback()

	token, err := repo.Redeem(context.Background(), tokenID, time.Now().UTC())
	assert.ErrorIs(t, err, repository.ErrAlreadyRedeemed)
	assert.Nil(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_UnknownToken(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTokenRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "collection_tokens"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "collection_tokens"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectRollback()

	token, err := repo.Redeem(context.Background(), uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, token)
}

func TestRedeem_OrderNotCollectableRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTokenRepository(gormDB)

	tokenID := uuid.New()
	now := time.Now().UTC()

	// Token flips but the order is not paid: the whole transaction rolls
	// back so the token stays unspent.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "collection_tokens"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "collection_tokens"`)).
		WillReturnRows(tokenRows(tokenID, uuid.New(), uuid.New(), true, &now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	token, err := repo.Redeem(context.Background(), tokenID, now)
	assert.ErrorIs(t, err, repository.ErrOrderNotCollectable)
	assert.Nil(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenFindByID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTokenRepository(gormDB)

	tokenID := uuid.New()
	orderID := uuid.New()
	shopID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "collection_tokens"`)).
		WillReturnRows(tokenRows(tokenID, orderID, shopID, false, nil))

	token, err := repo.FindByID(context.Background(), tokenID)
	assert.NoError(t, err)
	assert.Equal(t, shopID, token.ShopID)
	assert.False(t, token.IsRedeemed)
}

func TestTokenFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTokenRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "collection_tokens"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	token, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, token)
}
