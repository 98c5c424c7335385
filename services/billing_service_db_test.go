package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedBillingService(t *testing.T) (*BillingService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewBillingService(db), mock
}

func TestCreateBillReturnsStoredBillForKnownReference(t *testing.T) {
	svc, mock := newMockedBillingService(t)

	salonID := uuid.New()
	billID := uuid.New()
	serviceID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "bills" WHERE salon_id = (.+) AND reference = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "reference", "invoice_number", "total"}).
			AddRow(billID.String(), salonID.String(), "pos-7781", "INV-202508-00042", 750.0))
	mock.ExpectQuery(`SELECT (.+) FROM "bill_items" WHERE `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bill_id"}))

	bill, existing, err := svc.CreateBill(salonID, CreateBillInput{
		CustomerID: uuid.New(),
		Reference:  "pos-7781",
		Items:      []BillLineInput{{ServiceID: &serviceID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, "INV-202508-00042", bill.InvoiceNumber)
	// no transaction was opened, so nothing was charged twice
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBillInsufficientStockRollsBack(t *testing.T) {
	svc, mock := newMockedBillingService(t)

	salonID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "customers" WHERE salon_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "name"}).
			AddRow(customerID.String(), salonID.String(), "Meera"))
	mock.ExpectQuery(`SELECT (.+) FROM "bill_sequences" WHERE salon_id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"salon_id", "next_seq"}).
			AddRow(salonID.String(), 7))
	mock.ExpectExec(`UPDATE "bill_sequences" SET `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "products" WHERE salon_id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "name", "selling_price", "stock_qty"}).
			AddRow(productID.String(), salonID.String(), "Argan Oil", 450.0, 2))
	mock.ExpectRollback()

	bill, existing, err := svc.CreateBill(salonID, CreateBillInput{
		CustomerID: customerID,
		Items:      []BillLineInput{{ProductID: &productID, Quantity: 5}},
	})

	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, bill)
	assert.False(t, existing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextInvoiceNumberBumpsLockedSequence(t *testing.T) {
	svc, mock := newMockedBillingService(t)

	salonID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bill_sequences" WHERE salon_id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"salon_id", "next_seq"}).
			AddRow(salonID.String(), 41))
	mock.ExpectExec(`UPDATE "bill_sequences" SET "next_seq"=next_seq \+ `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var number string
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		number, txErr = svc.nextInvoiceNumber(tx, salonID, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC))
		return txErr
	})

	require.NoError(t, err)
	assert.Equal(t, "INV-202508-00041", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBillRecoversWinnerOnDuplicateReference(t *testing.T) {
	svc, mock := newMockedBillingService(t)

	salonID := uuid.New()
	customerID := uuid.New()
	serviceID := uuid.New()
	winnerID := uuid.New()

	// loser's pre-transaction lookup races ahead of the winner's commit
	mock.ExpectQuery(`SELECT (.+) FROM "bills" WHERE salon_id = (.+) AND reference = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "customers" WHERE salon_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "name"}).
			AddRow(customerID.String(), salonID.String(), "Meera"))
	mock.ExpectQuery(`SELECT (.+) FROM "bill_sequences" WHERE salon_id = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"salon_id", "next_seq"}).
			AddRow(salonID.String(), 3))
	mock.ExpectExec(`UPDATE "bill_sequences" SET `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "services" WHERE salon_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "name", "price"}).
			AddRow(serviceID.String(), salonID.String(), "Haircut", 300.0))
	mock.ExpectQuery(`INSERT INTO "bills"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "idx_salon_reference"`})
	mock.ExpectRollback()

	// recovery fetches the winner's bill
	mock.ExpectQuery(`SELECT (.+) FROM "bills" WHERE salon_id = (.+) AND reference = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "reference", "invoice_number", "total"}).
			AddRow(winnerID.String(), salonID.String(), "pos-9904", "INV-202508-00002", 300.0))
	mock.ExpectQuery(`SELECT (.+) FROM "bill_items" WHERE `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bill_id"}))

	bill, existing, err := svc.CreateBill(salonID, CreateBillInput{
		CustomerID: customerID,
		Reference:  "pos-9904",
		Items:      []BillLineInput{{ServiceID: &serviceID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, winnerID, bill.ID)
	assert.Equal(t, "INV-202508-00002", bill.InvoiceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
