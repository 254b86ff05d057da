package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	billapp "github.com/billed/backend/internal/application/bill"
	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/domain/route"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/persistence"
	"github.com/billed/backend/internal/interfaces/http/dto"
	"github.com/billed/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var employeeSession = session.Context{
	User: session.User{Type: session.UserTypeEmployee, Email: "a@a"},
	JWT:  "jwt",
}

type recordingObserver struct {
	mu     sync.Mutex
	counts []int
	errs   []error
}

func (o *recordingObserver) ObserveRetrieval(count, _ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts = append(o.counts, count)
	o.errs = append(o.errs, err)
}

type stubResolver struct {
	prefix string
	err    error
}

func (r stubResolver) ResolveURL(_ context.Context, ref string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.prefix + ref, nil
}

func withSession(s session.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SessionKey, s)
		c.Next()
	}
}

func newBillsEngine(h *BillsHandler) *gin.Engine {
	r := gin.New()
	r.Use(withSession(employeeSession))
	r.GET("/api/v1/bills", h.ListBills)
	r.GET("/employee/bills", h.BillsPage)
	r.POST("/employee/bills/new", h.NewBill)
	r.GET("/employee/bill/new", h.NewBillPage)
	r.GET("/employee/bills/preview", h.Preview)
	return r
}

func fixtureStores(store *persistence.MemoryBillStore) StoreFactory {
	return func(s session.Context) billapp.Store {
		return billapp.ScopeToSession(store, s)
	}
}

type billsBody struct {
	Success bool                  `json:"success"`
	Data    []billapp.DisplayBill `json:"data"`
	Error   *dto.ErrorInfo        `json:"error"`
}

func get(r *gin.Engine, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListBills(t *testing.T) {
	obs := &recordingObserver{}
	h := NewBillsHandler(fixtureStores(persistence.NewFixtureBillStore()), WithRetrievalObserver(obs))
	r := newBillsEngine(h)

	w := get(r, "/api/v1/bills")
	require.Equal(t, http.StatusOK, w.Code)

	var body billsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 4)

	dates := make([]string, len(body.Data))
	for i, b := range body.Data {
		dates[i] = b.Date
	}
	assert.Equal(t, []string{
		"2004-04-04T00:00:00.000Z",
		"2003-03-03T00:00:00.000Z",
		"2002-02-02T00:00:00.000Z",
		"2001-01-01T00:00:00.000Z",
	}, dates)
	assert.Equal(t, "En attente", body.Data[0].Status)
	assert.True(t, body.Data[0].DateFormatted)
	assert.Equal(t, []int{4}, obs.counts)
}

func TestListBills_Locale(t *testing.T) {
	r := newBillsEngine(NewBillsHandler(fixtureStores(persistence.NewFixtureBillStore())))

	tests := []struct {
		name   string
		target string
		header []string
		want   string
	}{
		{name: "query", target: "/api/v1/bills?locale=en", want: "Pending"},
		{name: "accept-language", target: "/api/v1/bills", header: []string{"Accept-Language", "en-US,en;q=0.9"}, want: "Pending"},
		{name: "query wins", target: "/api/v1/bills?locale=fr", header: []string{"Accept-Language", "en"}, want: "En attente"},
		{name: "default", target: "/api/v1/bills", want: "En attente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target, tt.header...)
			require.Equal(t, http.StatusOK, w.Code)
			var body billsBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Data[0].Status)
		})
	}

	w := get(r, "/api/v1/bills?locale=de")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBills_StoreFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{name: "not found", err: bill.NewTransportError(http.StatusNotFound, nil), status: http.StatusNotFound, code: dto.ErrCodeTransport, message: "Erreur 404"},
		{name: "server error", err: bill.NewTransportError(http.StatusInternalServerError, errors.New("db down")), status: http.StatusInternalServerError, code: dto.ErrCodeTransport, message: "Erreur 500"},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, code: dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := persistence.NewFixtureBillStore()
			store.FailWith(tt.err)
			obs := &recordingObserver{}
			r := newBillsEngine(NewBillsHandler(fixtureStores(store), WithRetrievalObserver(obs)))

			w := get(r, "/api/v1/bills")
			assert.Equal(t, tt.status, w.Code)

			var body billsBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Error.Message)
			}
			require.Len(t, obs.errs, 1)
			assert.Error(t, obs.errs[0])
		})
	}
}

func TestListBills_ScopedToEmployee(t *testing.T) {
	other := bill.Fixtures()[0]
	other.ID = "other"
	other.Email = "b@b"
	store := persistence.NewMemoryBillStore(append(bill.Fixtures(), other)...)
	r := newBillsEngine(NewBillsHandler(fixtureStores(store)))

	var body billsBody
	require.NoError(t, json.Unmarshal(get(r, "/api/v1/bills").Body.Bytes(), &body))
	assert.Len(t, body.Data, 4)
}

func TestBillsPage(t *testing.T) {
	r := newBillsEngine(NewBillsHandler(fixtureStores(persistence.NewFixtureBillStore())))

	w := get(r, "/employee/bills")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, htmlContentType, w.Header().Get("Content-Type"))

	html := w.Body.String()
	assert.Contains(t, html, `data-testid="icon-window"`)
	assert.Equal(t, 4, strings.Count(html, `data-testid="icon-eye"`))
	assert.Less(t, strings.Index(html, "2004-04-04"), strings.Index(html, "2001-01-01"), "latest bill first")
	assert.Contains(t, html, "En attente")
	assert.NotContains(t, html, `data-testid="error-message"`)
}

func TestBillsPage_StoreFailure(t *testing.T) {
	store := persistence.NewFixtureBillStore()
	store.FailWith(bill.NewTransportError(http.StatusNotFound, nil))
	r := newBillsEngine(NewBillsHandler(fixtureStores(store)))

	w := get(r, "/employee/bills")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `data-testid="error-message">Erreur 404<`)
	assert.NotContains(t, w.Body.String(), `data-testid="icon-eye"`)
}

func TestNewBill(t *testing.T) {
	r := newBillsEngine(NewBillsHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employee/bills/new", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/employee/bill/new", w.Header().Get("Location"))
}

func TestNewBill_RedirectIsServed(t *testing.T) {
	r := newBillsEngine(NewBillsHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employee/bills/new", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = get(r, w.Header().Get("Location"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-testid="form-new-bill"`)
	assert.Contains(t, w.Body.String(), `data-testid="icon-mail" class="active-icon"`)
}

func TestBillsPage_UnsupportedLocale(t *testing.T) {
	r := newBillsEngine(NewBillsHandler(fixtureStores(persistence.NewFixtureBillStore())))

	w := get(r, "/employee/bills?locale=de")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<html lang="fr">`)
	assert.Contains(t, w.Body.String(), "En attente")

	w = get(r, "/employee/bills?locale=de", "Accept-Language", "en")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pending")
}

func TestPreview(t *testing.T) {
	keyed := bill.Fixtures()[0]
	keyed.ID = "keyed"
	keyed.FileURL = "justificatifs/f.jpg"
	foreign := bill.Fixtures()[1]
	foreign.ID = "foreign"
	foreign.Email = "b@b"
	foreign.FileURL = "justificatifs/b@b/payslip.pdf"
	newStore := func() *persistence.MemoryBillStore {
		return persistence.NewMemoryBillStore(append(bill.Fixtures(), keyed, foreign)...)
	}
	absolute := bill.Fixtures()[0].FileURL

	t.Run("absolute url", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(fixtureStores(newStore())))
		w := get(r, "/employee/bills/preview?url="+absolute)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `src="`+absolute+`"`)
		assert.Contains(t, w.Body.String(), `width="500"`)
	})

	t.Run("resolved key", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(fixtureStores(newStore()), WithURLResolver(stubResolver{prefix: "https://cdn.billed.test/"})))
		w := get(r, "/employee/bills/preview?url=justificatifs/f.jpg")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `src="https://cdn.billed.test/justificatifs/f.jpg"`)
	})

	t.Run("no url", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(nil, WithURLResolver(stubResolver{err: errors.New("unused")})))
		w := get(r, "/employee/bills/preview")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `id="modaleFile"`)
		assert.NotContains(t, w.Body.String(), "<img")
	})

	t.Run("file of another employee", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(fixtureStores(newStore()), WithURLResolver(stubResolver{prefix: "https://cdn.billed.test/"})))
		w := get(r, "/employee/bills/preview?url=justificatifs/b@b/payslip.pdf")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), "cdn.billed.test")
		var body billsBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeNotFound, body.Error.Code)
	})

	t.Run("unknown file", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(fixtureStores(newStore())))
		w := get(r, "/employee/bills/preview?url=https://evil.test/x.jpg")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no store", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(nil))
		w := get(r, "/employee/bills/preview?url="+absolute)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newStore()
		store.FailWith(bill.NewTransportError(http.StatusInternalServerError, errors.New("db down")))
		r := newBillsEngine(NewBillsHandler(fixtureStores(store)))
		w := get(r, "/employee/bills/preview?url=justificatifs/f.jpg")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("resolver failure", func(t *testing.T) {
		r := newBillsEngine(NewBillsHandler(fixtureStores(newStore()), WithURLResolver(stubResolver{err: errors.New("presign failed")})))
		w := get(r, "/employee/bills/preview?url=justificatifs/f.jpg")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "/", PagePath(route.Login))
	assert.Equal(t, "/employee/bills", PagePath(route.Bills))
	assert.Equal(t, "/employee/bill/new", PagePath(route.NewBill))
	assert.Equal(t, "/admin/dashboard", PagePath(route.Dashboard))
}
