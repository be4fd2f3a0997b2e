package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestCreateOrderWithItems_Empty(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	err := repo.CreateOrderWithItems(context.Background(), &domain.Order{ID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrOrderHasNoItems)
}

func TestGetOrderByID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	orderID := uuid.NewString()
	now := time.Now()

	orderRows := sqlmock.NewRows([]string{
		"id", "order_number", "user_id", "total_amount", "currency",
		"status", "payment_status", "transaction_id", "created_at", "updated_at",
	}).AddRow(orderID, "ORD-XK29TM41Q0", "user-1", 50.0, "USD", "completed", "paid", "txn-1", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(orderRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price", "subtotal"}).
			AddRow(uuid.NewString(), orderID, "sku-1", 2, 25.0, 50.0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "payment_id", "amount", "currency", "status", "provider", "created_at"}).
			AddRow(uuid.NewString(), orderID, "pay-1", 50.0, "USD", "succeeded", "tilopay", now))

	order, err := repo.GetOrderByID(context.Background(), orderID)
	require.NoError(t, err)

	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, "pay-1", order.Payments[0].PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := repo.GetOrderByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestSettlePayment_Applies(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	orderID := uuid.NewString()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.SettlePayment(context.Background(), orderID,
		domain.PaymentPaid, domain.StatusCompleted, "txn-1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlePayment_GuardedByPaidState(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	// the WHERE guard matches no rows once the order is paid
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, err := repo.SettlePayment(context.Background(), uuid.NewString(),
		domain.PaymentFailed, "", "")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestMarkRefunded(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.MarkRefunded(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestCancelOrder_OnlyPending(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	updated, err := repo.CancelOrder(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestCancelExpired(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDefaultOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	cancelled, err := repo.CancelExpired(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), cancelled)
}
