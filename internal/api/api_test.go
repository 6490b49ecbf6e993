package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/catalog"
	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/feedback"
	"github.com/mtlprog/earth/internal/query"
	"github.com/mtlprog/earth/internal/service"
	"github.com/mtlprog/earth/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type senderFunc func(ctx context.Context, form feedback.Form) error

func (f senderFunc) Send(ctx context.Context, form feedback.Form) error { return f(ctx, form) }

type fakeLog struct {
	entries []feedback.Entry
	err     error
	limit   int
}

func (l *fakeLog) Recent(_ context.Context, limit int) ([]feedback.Entry, error) {
	l.limit = limit
	return l.entries, l.err
}

type fixture struct {
	stub  *countries.Stub
	token string
	mux   *http.ServeMux
}

func newFixture(t *testing.T, sender feedback.Sender, opts ...Option) *fixture {
	t.Helper()

	stub := countries.NewStub()
	svc, err := service.NewCountryService(stub, query.New[[]countries.Country]())
	require.NoError(t, err)
	cat, err := catalog.Load()
	require.NoError(t, err)
	tokens, err := session.NewTokenIssuer("test-key", time.Hour)
	require.NoError(t, err)
	auth, err := session.NewMockAuthenticator(tokens)
	require.NoError(t, err)
	if sender == nil {
		sender = feedback.NewMockSender(0)
	}

	h, err := New(svc, cat, auth, tokens, sender, opts...)
	require.NoError(t, err)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	token, err := tokens.Issue(session.User{Username: "user", Email: "user@example.com"})
	require.NoError(t, err)
	return &fixture{stub: stub, token: token, mux: mux}
}

// do sends an authorized request.
func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	return f.doWithAuth(method, target, body, "Bearer "+f.token)
}

func (f *fixture) doWithAuth(method, target, body, authorization string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func makeCountries(n int, region string) []countries.Country {
	list := make([]countries.Country, n)
	for i := range list {
		list[i] = countries.Country{
			Name:       countries.Name{Common: fmt.Sprintf("Country %02d", i)},
			Region:     region,
			Population: int64((i + 1) * 100),
		}
	}
	return list
}

func TestNew(t *testing.T) {
	stub := countries.NewStub()
	svc, err := service.NewCountryService(stub, query.New[[]countries.Country]())
	require.NoError(t, err)
	cat, err := catalog.Load()
	require.NoError(t, err)
	tokens, err := session.NewTokenIssuer("k", time.Hour)
	require.NoError(t, err)
	auth, err := session.NewMockAuthenticator(tokens)
	require.NoError(t, err)
	sender := feedback.NewMockSender(0)

	_, err = New(nil, cat, auth, tokens, sender)
	assert.ErrorContains(t, err, "country service")
	_, err = New(svc, nil, auth, tokens, sender)
	assert.ErrorContains(t, err, "catalog")
	_, err = New(svc, cat, nil, tokens, sender)
	assert.ErrorContains(t, err, "authenticator")
	_, err = New(svc, cat, auth, nil, sender)
	assert.ErrorContains(t, err, "token verifier")
	_, err = New(svc, cat, auth, tokens, nil)
	assert.ErrorContains(t, err, "feedback sender")
}

func TestRoutesRequireToken(t *testing.T) {
	log := &fakeLog{entries: []feedback.Entry{{ID: 1, Name: "Ada", Email: "ada@example.com", Message: "private"}}}
	f := newFixture(t, nil, WithFeedbackLog(log))
	f.stub.Respond(countries.AllRequest(), makeCountries(3, "Europe"))

	other, err := session.NewTokenIssuer("other-key", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(session.User{Username: "user"})
	require.NoError(t, err)

	routes := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/v1/countries", ""},
		{http.MethodGet, "/api/v1/countries/Country%2000", ""},
		{http.MethodGet, "/api/v1/regions", ""},
		{http.MethodGet, "/api/v1/regions/europe", ""},
		{http.MethodGet, "/api/v1/cache", ""},
		{http.MethodDelete, "/api/v1/cache/" + service.KeyAll, ""},
		{http.MethodPost, "/api/v1/feedback", `{"name":"Ann","email":"ann@example.com","message":"Hi"}`},
		{http.MethodGet, "/api/v1/feedback", ""},
	}
	credentials := []struct {
		name          string
		authorization string
		message       string
	}{
		{"missing header", "", "authentication required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "authentication required"},
		{"empty bearer", "Bearer ", "authentication required"},
		{"garbage token", "Bearer not-a-jwt", "invalid or expired token"},
		{"foreign signature", "Bearer " + forged, "invalid or expired token"},
	}

	for _, rt := range routes {
		for _, c := range credentials {
			t.Run(rt.method+" "+rt.target+"/"+c.name, func(t *testing.T) {
				w := f.doWithAuth(rt.method, rt.target, rt.body, c.authorization)

				require.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
				resp := decode[ErrorResponse](t, w)
				assert.Equal(t, c.message, resp.Error)
				assert.Equal(t, http.StatusUnauthorized, resp.Code)
			})
		}
	}

	assert.Zero(t, f.stub.Calls(countries.AllRequest()), "rejected requests never reach the country service")
	assert.Zero(t, log.limit, "rejected requests never read stored feedback")

	t.Run("valid token is accepted", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/feedback", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]FeedbackEntryResponse](t, w), 1)
	})

	t.Run("token from login is accepted", func(t *testing.T) {
		w := f.doWithAuth(http.MethodPost, "/api/v1/login", `{"username":"user","password":"pass"}`, "")
		require.Equal(t, http.StatusOK, w.Code)
		s := decode[session.Session](t, w)

		w = f.doWithAuth(http.MethodGet, "/api/v1/countries", "", "Bearer "+s.Token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestListCountries(t *testing.T) {
	f := newFixture(t, nil)
	f.stub.Respond(countries.AllRequest(), makeCountries(10, "Europe"))

	t.Run("widest layout by default", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/countries", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		resp := decode[CountriesResponse](t, w)
		assert.Len(t, resp.Data, 4)
		assert.Equal(t, 3, resp.Carousel.TotalPages)
		assert.Equal(t, 10, resp.Carousel.TotalItems)
		assert.Equal(t, "wrap", resp.Carousel.Policy)
	})

	t.Run("width and page select the window", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/countries?width=700&page=4", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[CountriesResponse](t, w)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "Country 08", resp.Data[0].Name.Common)
		assert.Equal(t, 4, resp.Carousel.Page)
		assert.Equal(t, 0, resp.Carousel.NextPage)
	})

	t.Run("page past the end is clamped", func(t *testing.T) {
		resp := decode[CountriesResponse](t, f.do(http.MethodGet, "/api/v1/countries?width=320&page=99", ""))
		assert.Equal(t, 9, resp.Carousel.Page)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Country 09", resp.Data[0].Name.Common)
	})

	t.Run("explicit clamp policy", func(t *testing.T) {
		resp := decode[CountriesResponse](t, f.do(http.MethodGet, "/api/v1/countries?policy=clamp&page=2", ""))
		assert.Equal(t, "clamp", resp.Carousel.Policy)
		assert.False(t, resp.Carousel.HasNext)
	})

	t.Run("unknown policy", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/countries?policy=bounce", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("fetch is cached", func(t *testing.T) {
		assert.Equal(t, 1, f.stub.Calls(countries.AllRequest()))
	})
}

func TestListCountries_UpstreamFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.stub.Fail(countries.AllRequest(), &apperr.NetworkError{Message: "Failed to load countries", StatusCode: http.StatusServiceUnavailable})

	w := f.do(http.MethodGet, "/api/v1/countries", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Equal(t, "Failed to load countries", resp.Error)
}

func TestGetCountry(t *testing.T) {
	f := newFixture(t, nil)
	france := countries.Country{
		Name:       countries.Name{Common: "France", Official: "French Republic"},
		Region:     "Europe",
		Capital:    []string{"Paris"},
		Population: 67391582,
	}
	f.stub.Respond(countries.NameRequest("France"), []countries.Country{france})

	t.Run("found", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/countries/France", "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[countries.Country](t, w)
		assert.Equal(t, "French Republic", got.Name.Official)
		assert.Equal(t, []string{"Paris"}, got.Capital)
	})

	t.Run("unknown name", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/countries/Atlantis", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		f.stub.Respond(countries.NameRequest("Nowhere"), nil)
		w := f.do(http.MethodGet, "/api/v1/countries/Nowhere", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, service.MessageCountryNotFound, decode[ErrorResponse](t, w).Error)
	})
}

func TestListRegions(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/v1/regions", "")
	require.Equal(t, http.StatusOK, w.Code)

	regions := decode[[]RegionResponse](t, w)
	require.Len(t, regions, 5)
	for _, r := range regions {
		assert.NotEmpty(t, r.Slug)
		assert.NotEmpty(t, r.Color)
		assert.Positive(t, r.Count)
	}
}

func TestGetRegion(t *testing.T) {
	f := newFixture(t, nil)
	list := makeCountries(3, "Oceania")
	list[0].Name.Common = "Tonga"
	f.stub.Respond(countries.RegionRequest("oceania"), list)

	t.Run("sorted with shares", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/regions/oceania", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[RegionPageResponse](t, w)
		assert.Equal(t, "oceania", resp.Region.Slug)
		assert.Equal(t, 3, resp.Region.Count)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Country 01", resp.Data[0].Name.Common)
		assert.Equal(t, "Tonga", resp.Data[2].Name.Common)
		// 100 / 600 of the region
		assert.Equal(t, "16.67", resp.Data[2].PopulationShare.StringFixed(2))
		assert.Equal(t, "clamp", resp.Carousel.Policy)
	})

	t.Run("unknown region", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/regions/atlantis", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCache(t *testing.T) {
	f := newFixture(t, nil)
	f.stub.Respond(countries.AllRequest(), makeCountries(2, "Asia"))

	f.do(http.MethodGet, "/api/v1/countries", "")

	w := f.do(http.MethodGet, "/api/v1/cache", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]query.Summary](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, service.KeyAll, entries[0].Key)
	assert.Equal(t, "success", entries[0].Status)

	w = f.do(http.MethodDelete, "/api/v1/cache/"+service.KeyAll, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	f.do(http.MethodGet, "/api/v1/countries", "")
	assert.Equal(t, 2, f.stub.Calls(countries.AllRequest()))
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("valid credentials", func(t *testing.T) {
		w := f.doWithAuth(http.MethodPost, "/api/v1/login", `{"username":"user","password":"pass"}`, "")
		require.Equal(t, http.StatusOK, w.Code)
		s := decode[session.Session](t, w)
		assert.Equal(t, "user", s.User.Username)
		assert.NotEmpty(t, s.Token)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/login", `{"username":"user","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, session.MessageInvalidCredentials, decode[ErrorResponse](t, w).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/login", `{"username":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := f.do(http.MethodPost, "/api/v1/login", `{"user":"user"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubmitFeedback(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t, nil)
		w := f.do(http.MethodPost, "/api/v1/feedback", `{"name":"Ann","email":"ann@example.com","message":"Hi"}`)
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.True(t, decode[FeedbackResponse](t, w).ClearFields)
	})

	t.Run("missing fields", func(t *testing.T) {
		called := false
		f := newFixture(t, senderFunc(func(context.Context, feedback.Form) error {
			called = true
			return nil
		}))
		w := f.do(http.MethodPost, "/api/v1/feedback", `{"name":"Ann","email":"  ","message":""}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, feedback.MessageFieldsRequired, resp.Error)
		assert.ElementsMatch(t, []string{"email", "message"}, resp.Fields)
		assert.False(t, called)
	})

	t.Run("sender failure", func(t *testing.T) {
		f := newFixture(t, senderFunc(func(context.Context, feedback.Form) error {
			return errors.New("smtp down")
		}))
		w := f.do(http.MethodPost, "/api/v1/feedback", `{"name":"Ann","email":"ann@example.com","message":"Hi"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, feedback.MessageSubmitFailed, decode[ErrorResponse](t, w).Error)
	})
}

func TestListFeedback(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, nil)
		w := f.do(http.MethodGet, "/api/v1/feedback", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("lists entries with capped limit", func(t *testing.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		log := &fakeLog{entries: []feedback.Entry{
			{ID: 2, Name: "Ann", Email: "ann@example.com", Message: "Hi", CreatedAt: created},
		}}
		f := newFixture(t, nil, WithFeedbackLog(log))

		w := f.do(http.MethodGet, "/api/v1/feedback?limit=500", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 100, log.limit)

		entries := decode[[]FeedbackEntryResponse](t, w)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(2), entries[0].ID)
		assert.True(t, created.Equal(entries[0].CreatedAt))
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t, nil, WithFeedbackLog(&fakeLog{err: errors.New("db down")}))
		w := f.do(http.MethodGet, "/api/v1/feedback", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"n=5", 5},
		{"n=abc", 20},
		{"n=-1", 20},
		{"n=1000", 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, parseIntParam(r, "n", 20, 100))
		})
	}
}
