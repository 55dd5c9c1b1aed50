package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/logger"
	"portfolio/internal/model"
	"portfolio/internal/repository"
	"portfolio/internal/repository/memory"
	"portfolio/internal/service"
	serviceMocks "portfolio/internal/service/mocks"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct horse battery staple"
)

type envelope[T any] struct {
	Success  bool               `json:"success"`
	Data     T                  `json:"data"`
	Count    *int               `json:"count"`
	Category string             `json:"category"`
	ID       string             `json:"id"`
	Status   string             `json:"status"`
	Code     string             `json:"code"`
	Error    string             `json:"error"`
	Message  string             `json:"message"`
	Fields   []model.FieldError `json:"fields"`
	Path     string             `json:"path"`
}

type testServer struct {
	app     *fiber.App
	store   repository.Store
	content *content.Sync
	authn   *auth.Authenticator
	token   string
	done    chan struct{}
}

func newTestServer(t *testing.T, mutate ...func(*Deps)) *testServer {
	t.Helper()
	ctx := context.Background()

	store := memory.New().Repositories()
	require.NoError(t, store.Profile.Ensure(ctx, model.DefaultProfile()))

	sync := content.New(store, logger.Discard())
	require.NoError(t, sync.Start(ctx))
	t.Cleanup(sync.Close)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	authn := auth.NewAuthenticator(adminEmail, hash, tokens, nil)
	token, _, err := tokens.GenerateToken(adminEmail)
	require.NoError(t, err)

	errs := NewErrors(logger.Discard(), false)
	done := make(chan struct{})
	deps := Deps{
		Log:       logger.Discard(),
		Errors:    errs,
		Store:     store,
		Content:   sync,
		Projects:  service.NewProjectService(store.Projects),
		Contacts:  service.NewContactService(store.Messages),
		Auth:      authn,
		Started:   time.Now(),
		Done:      done,
		Heartbeat: time.Hour,
	}
	for _, m := range mutate {
		m(&deps)
	}

	app := fiber.New(fiber.Config{ErrorHandler: errs.Handler()})
	RegisterRoutes(app, deps)

	return &testServer{app: app, store: store, content: sync, authn: authn, token: token, done: done}
}

func (s *testServer) do(t *testing.T, method, target string, body any, authed bool) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	defer resp.Body.Close()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestHealthCheck(t *testing.T) {
	store := memory.New().Repositories()

	app := fiber.New()
	app.Get("/health", HealthCheck(store, time.Now().Add(-time.Minute)))

	t.Run("healthy", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, false, body["demo"])
		assert.GreaterOrEqual(t, body["uptime"].(float64), 60.0)
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		down := store
		down.Ping = func(context.Context) error { return errors.New("db error") }

		app := fiber.New()
		app.Get("/health", HealthCheck(down, time.Now()))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		env := decodeBody[any](t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", env.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListProjects_NewestFirst(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, p := range []model.Project{
		{Title: "first", Description: "d", Category: model.CategoryWeb, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "third", Description: "d", Category: model.CategoryMobile, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "second", Description: "d", Category: model.CategoryWeb, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := s.store.Projects.Create(ctx, &p)
		require.NoError(t, err)
	}

	resp := s.do(t, http.MethodGet, "/api/projects", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeBody[[]model.Project](t, resp)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 3, *env.Count)
	require.Len(t, env.Data, 3)
	assert.Equal(t, []string{"third", "second", "first"},
		[]string{env.Data[0].Title, env.Data[1].Title, env.Data[2].Title})
}

func TestListProjectsByCategory(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for i, c := range []model.Category{model.CategoryWeb, model.CategoryMobile, model.CategoryWeb, model.CategoryFrontend} {
		_, err := s.store.Projects.Create(ctx, &model.Project{
			Title:       string(c),
			Description: "d",
			Category:    c,
			CreatedAt:   time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	resp := s.do(t, http.MethodGet, "/api/projects/category/web", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeBody[[]model.Project](t, resp)
	assert.Equal(t, "web", env.Category)
	require.Len(t, env.Data, 2)
	for _, p := range env.Data {
		assert.Equal(t, model.CategoryWeb, p.Category)
	}
	assert.True(t, env.Data[0].CreatedAt.After(env.Data[1].CreatedAt))

	resp = s.do(t, http.MethodGet, "/api/projects/category/desktop", nil, false)
	env = decodeBody[[]model.Project](t, resp)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
	assert.Equal(t, 0, *env.Count)
}

func TestContactScenario(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "A", "email": "a@b.com", "subject": "Hi", "message": "Hello",
	}, false)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[any](t, resp)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Contact form submitted successfully", created.Message)

	resp = s.do(t, http.MethodGet, "/api/contacts", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[[]model.Message](t, resp)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.ID, list.Data[0].ID)
	assert.Equal(t, model.MessageNew, list.Data[0].Status)
	assert.Equal(t, "a@b.com", list.Data[0].Email)

	resp = s.do(t, http.MethodPatch, "/api/contacts/"+created.ID+"/status", map[string]string{"status": "archived"}, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[any](t, resp)
	assert.Equal(t, "archived", updated.Status)
	assert.Equal(t, created.ID, updated.ID)

	resp = s.do(t, http.MethodGet, "/api/contacts", nil, true)
	list = decodeBody[[]model.Message](t, resp)
	require.Len(t, list.Data, 1)
	assert.Equal(t, model.MessageArchived, list.Data[0].Status)
}

func TestSubmitContact_Rejections(t *testing.T) {
	valid := map[string]string{"name": "A", "email": "a@b.com", "subject": "Hi", "message": "Hello"}

	for _, field := range []string{"name", "email", "subject", "message"} {
		t.Run("missing "+field, func(t *testing.T) {
			s := newTestServer(t)
			body := map[string]string{}
			for k, v := range valid {
				body[k] = v
			}
			body[field] = "   "

			resp := s.do(t, http.MethodPost, "/api/contact", body, false)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			env := decodeBody[any](t, resp)
			assert.False(t, env.Success)
			assert.Equal(t, "Missing required fields", env.Error)
			require.NotEmpty(t, env.Fields)
			assert.Equal(t, field, env.Fields[0].Field)

			msgs, err := s.store.Messages.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, msgs)
		})
	}

	t.Run("invalid email", func(t *testing.T) {
		s := newTestServer(t)
		body := map[string]string{"name": "A", "email": "a@b", "subject": "Hi", "message": "Hello"}

		resp := s.do(t, http.MethodPost, "/api/contact", body, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		env := decodeBody[any](t, resp)
		assert.Equal(t, "Invalid email format", env.Error)

		msgs, _ := s.store.Messages.List(context.Background())
		assert.Empty(t, msgs)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateContactStatus_Rejections(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	stored, err := s.store.Messages.Create(ctx, &model.Message{
		Name: "A", Email: "a@b.com", Subject: "Hi", Body: "Hello", Status: model.MessageNew,
	})
	require.NoError(t, err)

	for _, status := range []string{"", "unread", "spam"} {
		resp := s.do(t, http.MethodPatch, "/api/contacts/"+stored.ID+"/status", map[string]string{"status": status}, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, status)
		env := decodeBody[any](t, resp)
		assert.Equal(t, "Invalid status. Must be one of: new, read, replied, archived", env.Error)
	}

	got, err := s.store.Messages.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MessageNew, got.Status)

	resp := s.do(t, http.MethodPatch, "/api/contacts/unknown/status", map[string]string{"status": "read"}, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContacts_RequireAdmin(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/contacts", nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/api/contacts/x/status", map[string]string{"status": "read"}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownAPIPath(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/nope?x=1", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env := decodeBody[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "API endpoint not found", env.Error)
	assert.Equal(t, "/api/nope?x=1", env.Path)
}

func TestStoreErrors(t *testing.T) {
	for _, detailed := range []bool{true, false} {
		mockSvc := new(serviceMocks.MockProjectService)
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

		app := fiber.New()
		app.Get("/api/projects", ListProjects(mockSvc, NewErrors(logger.Discard(), detailed)))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/projects", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		env := decodeBody[any](t, resp)
		assert.False(t, env.Success)
		assert.Equal(t, "Failed to fetch projects", env.Error)
		if detailed {
			assert.Equal(t, "db down", env.Message)
		} else {
			assert.Equal(t, genericDetail, env.Message)
		}
		mockSvc.AssertExpectations(t)
	}

	contacts := new(serviceMocks.MockContactService)
	contacts.On("Submit", mock.Anything, mock.MatchedBy(func(in service.ContactInput) bool {
		return in.Name == "A" && in.UserAgent == "ua"
	})).Return(nil, errors.New("db down")).Once()

	app := fiber.New()
	app.Post("/api/contact", SubmitContact(contacts, NewErrors(logger.Discard(), false)))

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		bytes.NewBufferString(`{"name":"A","email":"a@b.com","subject":"Hi","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ua")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to submit contact form", decodeBody[any](t, resp).Error)
	contacts.AssertExpectations(t)
}

func TestErrorHandler(t *testing.T) {
	errs := NewErrors(logger.Discard(), false)
	app := fiber.New(fiber.Config{ErrorHandler: errs.Handler()})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	env := decodeBody[any](t, resp)
	assert.Equal(t, "Internal server error", env.Error)
	assert.NotContains(t, env.Message, "secret")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decodeBody[any](t, resp).Error)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeBody[any](t, resp).Code)
}
