package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonx-backend/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// swapMockDB points config.DB at a sqlmock-backed gorm handle for the test.
func swapMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB.Close()
	})
	return mock
}

func appointmentRouter(salonID, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/appointments/:id", func(c *gin.Context) {
		c.Set("salonId", salonID.String())
		c.Set("userId", userID.String())
		UpdateAppointment(c)
	})
	return r
}

func TestUpdateAppointmentRejectsStaffFromAnotherSalon(t *testing.T) {
	mock := swapMockDB(t)

	salonID := uuid.New()
	appointmentID := uuid.New()
	starts := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments" WHERE salon_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "salon_id", "customer_id", "staff_id", "service_id", "starts_at", "ends_at", "status"}).
			AddRow(appointmentID.String(), salonID.String(), uuid.New().String(), uuid.New().String(), uuid.New().String(),
				starts, starts.Add(30*time.Minute), "scheduled"))
	// staff lookup is scoped to the caller's salon and finds nothing
	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE salon_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"staffId":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPut, "/appointments/"+appointmentID.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	appointmentRouter(salonID, uuid.New()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Staff member not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
