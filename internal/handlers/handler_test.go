package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-payments-backend/internal/clock"
	handler "rental-payments-backend/internal/handlers"
	"rental-payments-backend/internal/middleware"
	"rental-payments-backend/internal/models"
	"rental-payments-backend/internal/repository"
	"rental-payments-backend/internal/routes"
	"rental-payments-backend/internal/services/payments"
	"rental-payments-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	t      *testing.T
	db     *gorm.DB
	fx     *testutil.Fixture
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.QuietLogger()
	svc := payments.NewService(
		repository.NewScheduleRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewOwnershipRepository(db),
		payments.WithClock(clock.Fixed{T: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)}),
		payments.WithLogger(log),
	)

	r := gin.New()
	routes.RegisterRoutes(r, handler.NewHandler(svc, log), secret)
	return &api{t: t, db: db, fx: testutil.Seed(t, db), router: r}
}

func (a *api) token(id uuid.UUID, role models.Role) string {
	tok, err := middleware.SignToken(secret, id, role, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(a.t, err)
	return tok
}

func (a *api) ownerToken() string { return a.token(a.fx.Owner.ID, models.RoleOwner) }

func (a *api) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

type scheduleResponse struct {
	Schedule struct {
		ID       uuid.UUID `json:"id"`
		Payments []struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"payments"`
	} `json:"schedule"`
}

func (a *api) createSchedule() scheduleResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/schedules", a.ownerToken(), map[string]interface{}{
		"rental_id":      a.fx.Rental.ID,
		"start_date":     "2024-01-01",
		"end_date":       "2024-04-01",
		"monthly_amount": "1000",
		"day_of_month":   1,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var res scheduleResponse
	decode(a.t, w, &res)
	require.Len(a.t, res.Schedule.Payments, 4)
	return res
}

func TestHealthIsPublic(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesRequireOwner(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/schedules", "", nil).Code)
	tenant := a.token(a.fx.Tenant.ID, models.RoleTenant)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/schedules", tenant, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/schedules", a.ownerToken(), nil).Code)
}

func TestCreateScheduleValidation(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/schedules", a.ownerToken(), map[string]interface{}{
		"rental_id":      "not-a-uuid",
		"start_date":     "01/01/2024",
		"end_date":       "2024-04-01",
		"monthly_amount": 1000,
		"day_of_month":   40,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var res struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &res)
	assert.Equal(t, "uuid", res.Fields["rental_id"])
	assert.Equal(t, "datetime", res.Fields["start_date"])
	assert.Equal(t, "max", res.Fields["day_of_month"])

	w = a.do(http.MethodPost, "/api/schedules", a.ownerToken(), map[string]interface{}{
		"rental_id":      a.fx.Rental.ID,
		"start_date":     "2024-05-01",
		"end_date":       "2024-04-01",
		"monthly_amount": 1000,
		"day_of_month":   1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateScheduleForeignRental(t *testing.T) {
	a := newAPI(t)
	intruder := testutil.Seed(t, a.db).Owner

	w := a.do(http.MethodPost, "/api/schedules", a.token(intruder.ID, models.RoleOwner), map[string]interface{}{
		"rental_id":      a.fx.Rental.ID,
		"start_date":     "2024-01-01",
		"end_date":       "2024-04-01",
		"monthly_amount": 1000,
		"day_of_month":   1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/schedules", a.ownerToken(), map[string]interface{}{
		"rental_id":      uuid.New(),
		"start_date":     "2024-01-01",
		"end_date":       "2024-04-01",
		"monthly_amount": 1000,
		"day_of_month":   1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)
	sched := a.createSchedule()
	second := sched.Schedule.Payments[1].ID
	third := sched.Schedule.Payments[2].ID

	w := a.do(http.MethodPost, "/api/payments/"+second.String()+"/record", a.ownerToken(), map[string]interface{}{
		"amount":         1000,
		"payment_method": "bank_transfer",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"PAID"`)

	w = a.do(http.MethodPost, "/api/payments/"+second.String()+"/record", a.ownerToken(), map[string]interface{}{
		"amount":         10,
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPut, "/api/payments/"+second.String()+"/cancel", a.ownerToken(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/payments/"+third.String()+"/record", a.ownerToken(), map[string]interface{}{
		"amount":         "400",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PARTIALLY_PAID"`)

	w = a.do(http.MethodPost, "/api/payments/"+third.String()+"/record", a.ownerToken(), map[string]interface{}{
		"amount": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/schedules/"+sched.Schedule.ID.String()+"/statistics", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalPayments   int    `json:"total_payments"`
		PaidPayments    int    `json:"paid_payments"`
		TotalAmount     string `json:"total_amount"`
		PaidAmount      string `json:"paid_amount"`
		RemainingAmount string `json:"remaining_amount"`
	}
	decode(t, w, &stats)
	assert.Equal(t, 4, stats.TotalPayments)
	assert.Equal(t, 1, stats.PaidPayments)
	assert.Equal(t, "4000", stats.TotalAmount)
	assert.Equal(t, "1000", stats.PaidAmount)
	assert.Equal(t, "3000", stats.RemainingAmount)

	w = a.do(http.MethodGet, "/api/payments/"+second.String()+"/history", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"recorded"`)

	w = a.do(http.MethodGet, "/api/payments/"+second.String()+"/receipt", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "receipt_february_2024.pdf")

	w = a.do(http.MethodGet, "/api/payments/"+sched.Schedule.Payments[3].ID.String()+"/receipt", a.ownerToken(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPaymentRoutesCheckOwnership(t *testing.T) {
	a := newAPI(t)
	sched := a.createSchedule()
	id := sched.Schedule.Payments[0].ID.String()
	intruder := a.token(testutil.Seed(t, a.db).Owner.ID, models.RoleOwner)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/payments/"+id, intruder, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/schedules/"+sched.Schedule.ID.String(), intruder, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, "/api/payments/"+id+"/archive", intruder, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/payments/"+uuid.NewString(), a.ownerToken(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/payments/nope", a.ownerToken(), nil).Code)

	w := a.do(http.MethodGet, "/api/payments/late", intruder, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var late struct {
		Items []json.RawMessage `json:"items"`
	}
	decode(t, w, &late)
	assert.Empty(t, late.Items)
}

func TestTenantSchedulesRoute(t *testing.T) {
	a := newAPI(t)
	a.createSchedule()
	path := "/api/schedules/tenant/" + a.fx.Tenant.ID.String()

	var res struct {
		Items []json.RawMessage `json:"items"`
	}
	w := a.do(http.MethodGet, path, a.token(a.fx.Tenant.ID, models.RoleTenant), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Len(t, res.Items, 1)

	w = a.do(http.MethodGet, path, a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Len(t, res.Items, 1)

	other := a.token(uuid.New(), models.RoleTenant)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, other, nil).Code)
}

func TestBulkArchiveAndArchivedList(t *testing.T) {
	a := newAPI(t)
	sched := a.createSchedule()
	missing := uuid.New()

	w := a.do(http.MethodPost, "/api/payments/archive", a.ownerToken(), map[string]interface{}{
		"payment_ids": []uuid.UUID{sched.Schedule.Payments[0].ID, sched.Schedule.Payments[1].ID, missing},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Archived int64       `json:"archived"`
		NotFound []uuid.UUID `json:"not_found"`
	}
	decode(t, w, &res)
	assert.Equal(t, int64(2), res.Archived)
	assert.Equal(t, []uuid.UUID{missing}, res.NotFound)

	w = a.do(http.MethodGet, "/api/payments/archived", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID uuid.UUID `json:"id"`
		} `json:"items"`
	}
	decode(t, w, &list)
	require.Len(t, list.Items, 2)
	assert.Equal(t, sched.Schedule.Payments[1].ID, list.Items[0].ID)

	w = a.do(http.MethodPost, "/api/payments/archive", a.ownerToken(), map[string]interface{}{
		"payment_ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleAmountAndRemoval(t *testing.T) {
	a := newAPI(t)
	sched := a.createSchedule()
	base := "/api/schedules/" + sched.Schedule.ID.String()

	w := a.do(http.MethodPut, base+"/amount", a.ownerToken(), map[string]interface{}{"monthly_amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPut, base+"/amount", a.ownerToken(), map[string]interface{}{"monthly_amount": "1050.00"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payments_updated":2`)

	assert.Equal(t, http.StatusOK, a.do(http.MethodPut, base+"/deactivate", a.ownerToken(), nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, base, a.ownerToken(), nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, base, a.ownerToken(), nil).Code)
}

func TestLateRoutes(t *testing.T) {
	a := newAPI(t)
	a.createSchedule()

	w := a.do(http.MethodPost, "/api/payments/late/refresh", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payments_updated":0`)

	w = a.do(http.MethodPost, "/api/payments/late/notify", a.ownerToken(), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// January and February were generated as LATE, so only the swept view lists them.
	var late struct {
		Items []json.RawMessage `json:"items"`
	}
	w = a.do(http.MethodGet, "/api/payments/late", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &late)
	assert.Empty(t, late.Items)

	w = a.do(http.MethodGet, "/api/payments/late?include_swept=true", a.ownerToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &late)
	assert.Len(t, late.Items, 2)

	w = a.do(http.MethodGet, "/api/payments/late?include_swept=maybe", a.ownerToken(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportPayments(t *testing.T) {
	a := newAPI(t)
	sched := a.createSchedule()
	p := sched.Schedule.Payments

	csvBody := strings.Join([]string{
		"payment_id,amount,payment_method,transaction_id,notes",
		p[0].ID.String() + ",1000,bank_transfer,VIR-1,",
		p[1].ID.String() + ",250.50,bank_transfer,,first half",
		"not-a-uuid,100,cash,,",
		uuid.NewString() + ",100,cash,,",
		p[2].ID.String() + ",abc,cash,,",
	}, "\n")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "bank-export.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/payments/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.ownerToken())
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Recorded int                 `json:"recorded"`
		Failed   int                 `json:"failed"`
		Rows     []handler.ImportRow `json:"rows"`
	}
	decode(t, w, &res)
	assert.Equal(t, 2, res.Recorded)
	assert.Equal(t, 3, res.Failed)
	require.Len(t, res.Rows, 5)
	assert.Equal(t, "PAID", res.Rows[0].Status)
	assert.Equal(t, "PARTIALLY_PAID", res.Rows[1].Status)
	assert.Equal(t, "invalid payment_id", res.Rows[2].Error)
	assert.Contains(t, res.Rows[3].Error, "not found")
	assert.Equal(t, "invalid amount", res.Rows[4].Error)
}
