package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneybook/internal/api"
	"moneybook/internal/auth"
	"moneybook/internal/ledger"
	"moneybook/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// newTestRouter wires the full API over in-memory stores, without Redis
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mem := store.NewMemoryStore()
	authSvc := auth.NewService(mem, testSecret)
	ledgerSvc := ledger.NewService(mem)
	return api.NewRouter(authSvc, ledgerSvc, nil, testSecret)
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body into a generic map
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

// registerAndLogin creates an account and returns a bearer token for it
func registerAndLogin(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestBookkeepingFlow(t *testing.T) {
	r := newTestRouter()
	token := registerAndLogin(t, r, "Ana", "a@x.com", "secret1")

	// Record an income
	w := doJSON(t, r, http.MethodPost, "/api/income", token, gin.H{"amount": 100, "category": "salary"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	created := body["dataIncome"].(map[string]any)
	assert.Equal(t, 100.0, created["amount"])
	assert.Equal(t, "salary", created["category"])
	assert.Equal(t, time.Now().Format("2006-01-02"), created["created_at"])

	// Income total reflects it
	w = doJSON(t, r, http.MethodGet, "/api/income/total", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100.0, decode(t, w)["total_income"])

	// Record an expense, then check the balance
	w = doJSON(t, r, http.MethodPost, "/api/expense", token, gin.H{"amount": 40, "category": "food"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/balance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	balance := decode(t, w)["dataBalance"].(map[string]any)
	assert.Equal(t, 100.0, balance["total_income"])
	assert.Equal(t, 40.0, balance["total_expense"])
	assert.Equal(t, 60.0, balance["balance"])

	// Activity merges both entries, oldest first
	w = doJSON(t, r, http.MethodGet, "/api/activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	activity := decode(t, w)["dataActivity"].([]any)
	require.Len(t, activity, 2)
	first := activity[0].(map[string]any)
	assert.Contains(t, []string{"income", "expense"}, first["type"])

	// Category breakdowns use per-kind total keys
	w = doJSON(t, r, http.MethodGet, "/api/income/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	incomeCats := decode(t, w)["incomeCategories"].([]any)
	require.Len(t, incomeCats, 1)
	row := incomeCats[0].(map[string]any)
	assert.Equal(t, "salary", row["category"])
	assert.Equal(t, 100.0, row["total_income"])

	w = doJSON(t, r, http.MethodGet, "/api/expense/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	expenseCats := decode(t, w)["expenseCategories"].([]any)
	require.Len(t, expenseCats, 1)
	row = expenseCats[0].(map[string]any)
	assert.Equal(t, 40.0, row["total_expense"])

	// Display name
	w = doJSON(t, r, http.MethodGet, "/api/name", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana", decode(t, w)["name"])
}

func TestRegister_Failures(t *testing.T) {
	r := newTestRouter()

	// First registration succeeds
	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"name": "Ana", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Second registration with the same email fails
	w = doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"name": "Bob", "email": "a@x.com", "password": "another1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fail", decode(t, w)["status"])

	// Password shorter than 6 characters is rejected at binding
	w = doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"name": "Cle", "email": "c@x.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := newTestRouter()
	registerAndLogin(t, r, "Ana", "a@x.com", "secret1")

	// Wrong password and unknown email return the same generic failure
	wrong := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "a@x.com", "password": "nope99"})
	unknown := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "b@x.com", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, wrong.Code)
	require.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, decode(t, wrong)["message"], decode(t, unknown)["message"])
}

func TestProtectedRoutes_RequireBearerToken(t *testing.T) {
	r := newTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/name"},
		{http.MethodPost, "/api/income"},
		{http.MethodPost, "/api/expense"},
		{http.MethodGet, "/api/income/total"},
		{http.MethodGet, "/api/expense/total"},
		{http.MethodGet, "/api/income/categories"},
		{http.MethodGet, "/api/expense/categories"},
		{http.MethodGet, "/api/balance"},
		{http.MethodGet, "/api/activity"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			// No token at all
			w := doJSON(t, r, p.method, p.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			// Garbage token
			w = doJSON(t, r, p.method, p.path, "not-a-token", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAddTransaction_Validation(t *testing.T) {
	r := newTestRouter()
	token := registerAndLogin(t, r, "Ana", "a@x.com", "secret1")

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "zero amount", body: gin.H{"amount": 0, "category": "salary"}},
		{name: "negative amount", body: gin.H{"amount": -10, "category": "salary"}},
		{name: "missing category", body: gin.H{"amount": 10}},
		{name: "missing amount", body: gin.H{"category": "salary"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/income", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			w = doJSON(t, r, http.MethodPost, "/api/expense", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMonthFilter_FormatAndScoping(t *testing.T) {
	r := newTestRouter()
	token := registerAndLogin(t, r, "Ana", "a@x.com", "secret1")

	// Malformed month values are rejected
	for _, month := range []string{"2024", "2024-13", "03-2024", "2024-3", "x"} {
		w := doJSON(t, r, http.MethodGet, "/api/income/total?month="+month, token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "month %q", month)
	}

	// A month with no transactions sums to zero
	w := doJSON(t, r, http.MethodGet, "/api/income/total?month=2020-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["total_income"])

	// The current month includes a freshly recorded transaction
	w = doJSON(t, r, http.MethodPost, "/api/income", token, gin.H{"amount": 75, "category": "salary"})
	require.Equal(t, http.StatusCreated, w.Code)

	thisMonth := time.Now().Format("2006-01")
	w = doJSON(t, r, http.MethodGet, "/api/income/total?month="+thisMonth, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 75.0, decode(t, w)["total_income"])
}

func TestLedgers_AreScopedToTheOwner(t *testing.T) {
	r := newTestRouter()
	anaToken := registerAndLogin(t, r, "Ana", "a@x.com", "secret1")
	bobToken := registerAndLogin(t, r, "Bob", "b@x.com", "secret2")

	w := doJSON(t, r, http.MethodPost, "/api/income", anaToken, gin.H{"amount": 100, "category": "salary"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Bob's ledger stays empty
	w = doJSON(t, r, http.MethodGet, "/api/income/total", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["total_income"])

	w = doJSON(t, r, http.MethodGet, "/api/activity", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["dataActivity"])
}
