package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/classifier"
	"github.com/aussiebroadwan/creditrisk/internal/risk/credentials"
	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
	riskhttp "github.com/aussiebroadwan/creditrisk/internal/risk/http"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
	"github.com/aussiebroadwan/creditrisk/pkg/risksdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClassifier struct {
	mu    sync.Mutex
	out   classifier.Output
	err   error
	calls int
}

func (f *fakeClassifier) Classify(_ context.Context, _ domain.Features) (classifier.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.out, f.err
}

func (f *fakeClassifier) Schema() classifier.Schema {
	return classifier.Schema{NFeatures: domain.FeatureCount, Names: encoding.FeatureOrder[:]}
}

func (f *fakeClassifier) set(out classifier.Output, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out, f.err = out, err
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var goodOutput = classifier.Output{Class: 1, Probabilities: [2]float64{0.2, 0.8}}

type testEnv struct {
	handler    http.Handler
	classifier *fakeClassifier
}

func newTestEnv(t *testing.T, withAuth bool) *testEnv {
	t.Helper()

	tables, err := encoding.NewTables(encoding.DefaultClasses())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := service.NewMetrics(reg)
	fc := &fakeClassifier{out: goodOutput}

	var (
		keys     *jwtx.KeySet
		verifier jwtx.Verifier
		auth     *service.AuthService
	)
	if withAuth {
		hash, err := cryptox.HashPasswordBcrypt("admin123", bcrypt.MinCost)
		require.NoError(t, err)
		creds, err := credentials.New([]credentials.Record{{Username: "admin", Password: hash}})
		require.NoError(t, err)

		pemKey, err := cryptox.GenerateEd25519Key()
		require.NoError(t, err)
		signer, err := jwtx.NewSignerEdDSA("test", pemKey)
		require.NoError(t, err)

		keys = jwtx.NewKeySet()
		keys.AddSigner(signer)
		verifier = jwtx.NewVerifierEdDSA(keys, jwtx.VerifyOptions{Issuer: "creditrisk"})
		auth = &service.AuthService{
			Credentials: creds,
			Signer:      signer,
			Metrics:     metrics,
			Issuer:      "creditrisk",
			TTL:         time.Hour,
		}
	}

	router, err := riskhttp.NewRouter(keys, verifier, "test", nil, metrics, reg, riskhttp.DefaultUIConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	router.PredictionService = &service.PredictionService{Features: tables, Classifier: fc, Metrics: metrics}
	router.AuthService = auth
	router.Tables = tables
	router.ApplyRoutes()

	return &testEnv{handler: router, classifier: fc}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

func (e *testEnv) postJSON(path, token string, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(buf)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.postJSON("/v1/sessions", "", risksdk.SessionRequest{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sess risksdk.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.Equal(t, "Bearer", sess.TokenType)
	require.Equal(t, 3600, sess.ExpiresIn)
	return sess.AccessToken
}

func sampleForm() url.Values {
	return url.Values{
		"age":              {"30"},
		"sex":              {"male"},
		"job":              {"1"},
		"housing":          {"own"},
		"saving_account":   {"little"},
		"checking_account": {"little"},
		"credit_amount":    {"1000"},
		"duration_months":  {"12"},
	}
}

func sampleRequest() risksdk.PredictionRequest {
	return risksdk.PredictionRequest{
		Age: 30, Sex: "male", Job: 1, Housing: "own",
		SavingAccount: "little", CheckingAccount: "little",
		CreditAmount: 1000, DurationMonths: 12,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestPages_RequireLogin(t *testing.T) {
	env := newTestEnv(t, true)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(sampleForm().Encode())),
	} {
		rec := env.do(req)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	}
	require.Zero(t, env.classifier.Calls())
}

func TestPages_LoginPredictLogout(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Secure Login")

	rec = env.postForm("/login", url.Values{"username": {"admin"}, "password": {"nope"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid username or password")

	rec = env.postForm("/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == riskhttp.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	require.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Logged in as: <strong>admin</strong>")

	rec = env.postForm("/predict", sampleForm(), session)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "GOOD RISK")
	require.Contains(t, body, "Good Risk Confidence: 80%")
	require.Contains(t, body, "30 years old, Male")
	require.Contains(t, body, "€1,000 for 12 months")
	require.Contains(t, body, "Housing: Own")
	require.Equal(t, 1, env.classifier.Calls())

	rec = env.postForm("/logout", nil, session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, -1, cleared[0].MaxAge)
}

func TestPages_PredictErrors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name    string
		mutate  func(url.Values)
		code    int
		message string
	}{
		{"unknown housing", func(f url.Values) { f.Set("housing", "mortgaged") }, http.StatusUnprocessableEntity, "is not one of"},
		{"age out of range", func(f url.Values) { f.Set("age", "12") }, http.StatusUnprocessableEntity, "must be between 18 and 80"},
		{"age not a number", func(f url.Values) { f.Set("age", "thirty") }, http.StatusUnprocessableEntity, "must be a whole number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := sampleForm()
			tt.mutate(form)
			rec := env.postForm("/predict", form)
			require.Equal(t, tt.code, rec.Code)
			require.Contains(t, rec.Body.String(), tt.message)
		})
	}
	require.Zero(t, env.classifier.Calls())

	env.classifier.set(classifier.Output{}, errors.New("model unavailable"))
	rec := env.postForm("/predict", sampleForm())
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Prediction error")
	require.NotContains(t, rec.Body.String(), "model unavailable")
}

func TestPages_LoginRateLimited(t *testing.T) {
	env := newTestEnv(t, true)

	var rec *httptest.ResponseRecorder
	for range 6 {
		rec = env.postForm("/login", url.Values{"username": {"admin"}, "password": {"guess"}})
	}
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "Too many login attempts")
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another username from the same address has its own bucket.
	rec = env.postForm("/login", url.Values{"username": {"other"}, "password": {"guess"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Predictions(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.postJSON("/v1/predictions", "", sampleRequest())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, risksdk.ErrorCodeInvalidToken, decodeError(t, rec))

	rec = env.postJSON("/v1/sessions", "", risksdk.SessionRequest{Username: "ghost", Password: "admin123"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, risksdk.ErrorCodeInvalidCredentials, decodeError(t, rec))

	token := env.login(t)

	rec = env.postJSON("/v1/predictions", token, sampleRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out risksdk.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "good", out.Label)
	require.InDelta(t, 0.8, out.Confidence, 1e-12)
	require.Equal(t, 80, out.ConfidencePercent)
	require.Equal(t, 1, env.classifier.Calls())
}

func TestAPI_PredictionErrors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name    string
		mutate  func(*risksdk.PredictionRequest)
		code    int
		errCode string
	}{
		{"unknown housing", func(r *risksdk.PredictionRequest) { r.Housing = "mortgaged" }, http.StatusUnprocessableEntity, risksdk.ErrorCodeEncoding},
		{"unknown sex", func(r *risksdk.PredictionRequest) { r.Sex = "other" }, http.StatusUnprocessableEntity, risksdk.ErrorCodeEncoding},
		{"job out of range", func(r *risksdk.PredictionRequest) { r.Job = 4 }, http.StatusUnprocessableEntity, risksdk.ErrorCodeValidation},
		{"negative amount", func(r *risksdk.PredictionRequest) { r.CreditAmount = -1 }, http.StatusUnprocessableEntity, risksdk.ErrorCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest()
			tt.mutate(&req)
			rec := env.postJSON("/v1/predictions", "", req)
			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, tt.errCode, decodeError(t, rec))
		})
	}
	require.Zero(t, env.classifier.Calls(), "invalid input never reaches the classifier")

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(`{"age": 30, "colour": "red"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := env.do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, risksdk.ErrorCodeInvalidRequest, decodeError(t, rec))
	})

	t.Run("classifier failure then recovery", func(t *testing.T) {
		env.classifier.set(classifier.Output{}, errors.New("boom"))
		rec := env.postJSON("/v1/predictions", "", sampleRequest())
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Equal(t, risksdk.ErrorCodePrediction, decodeError(t, rec))

		env.classifier.set(classifier.Output{Class: 0, Probabilities: [2]float64{0.65, 0.35}}, nil)
		rec = env.postJSON("/v1/predictions", "", sampleRequest())
		require.Equal(t, http.StatusOK, rec.Code)
		var out risksdk.PredictionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Equal(t, "bad", out.Label)
		require.Equal(t, 65, out.ConfidencePercent)
	})
}

func TestAuthDisabled(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Logout")

	rec = env.do(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.postJSON("/v1/sessions", "", risksdk.SessionRequest{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchema(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var schema risksdk.SchemaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	require.Equal(t, encoding.FeatureOrder[:], schema.Features)
	require.Equal(t, []string{"free", "own", "rent"}, schema.Categories[domain.FieldHousing])
	require.Equal(t, 80, *schema.Ranges[domain.FieldAge].Max)
	require.Nil(t, schema.Ranges[domain.FieldCreditAmount].Max)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health risksdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.Equal(t, "ok", health.Checks.Classifier)
	require.Equal(t, "ok", health.Checks.Signer)
	require.Empty(t, health.Checks.Database)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.postJSON("/v1/predictions", "", sampleRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `creditrisk_predictions_total{label="good"} 1`)
	require.Contains(t, body, `http_requests_total{method="POST",route="/v1/predictions",status="200"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
