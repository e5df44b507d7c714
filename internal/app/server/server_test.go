package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sifan077/slugurl/config"
	"github.com/sifan077/slugurl/internal/app/model"
	"github.com/sifan077/slugurl/internal/app/repository"
	"github.com/sifan077/slugurl/internal/app/service"
	"github.com/sifan077/slugurl/internal/infra/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type linkBody struct {
	ID         int64  `json:"id"`
	Slug       string `json:"slug"`
	Target     string `json:"target"`
	VisitCount int64  `json:"visitCount"`
}

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sqlite.NewGorm(config.SQLiteConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repository.AutoMigrate(context.Background(), db))

	links := service.NewLinkService(service.LinkServiceDeps{
		Repo:       repository.NewGormLinkRepository(db),
		SlugLength: 6,
	})
	return New(Dependencies{Links: links}), db
}

func createLink(t *testing.T, srv *Server, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/v0/urls", strings.NewReader(`{"target":"`+target+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := srv.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeLink(t *testing.T, resp *http.Response) linkBody {
	t.Helper()
	var body linkBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestServer_CreateLink(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := createLink(t, srv, "https://example.com")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeLink(t, resp)
	assert.Len(t, body.Slug, 6)
	assert.Equal(t, "https://example.com", body.Target)
	assert.Zero(t, body.VisitCount)
	assert.NotZero(t, body.ID)
}

func TestServer_RedirectCountsVisit(t *testing.T) {
	srv, _ := newTestServer(t)

	created := decodeLink(t, createLink(t, srv, "https://example.com"))

	resp, err := srv.Test(httptest.NewRequest(fiber.MethodGet, "/"+created.Slug, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "https://example.com", resp.Header.Get(fiber.HeaderLocation))

	resp, err = srv.Test(httptest.NewRequest(fiber.MethodGet, "/api/v0/urls/"+created.Slug, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decodeLink(t, resp).VisitCount)

	// Lookup itself must not count as a visit.
	resp, err = srv.Test(httptest.NewRequest(fiber.MethodGet, "/api/v0/urls/"+created.Slug, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, decodeLink(t, resp).VisitCount)
}

func TestServer_InvalidTargetPersistsNothing(t *testing.T) {
	srv, db := newTestServer(t)

	resp := createLink(t, srv, "not-a-url")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.ShortLink{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServer_UnknownSlug(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/v0/urls/unknown", "/unknown"} {
		resp, err := srv.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "not_found", body["error"])
		assert.NotEmpty(t, body["message"])
	}
}

func TestServer_Health(t *testing.T) {
	srv, db := newTestServer(t)

	resp, err := srv.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, err = srv.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_ConcurrentVisits(t *testing.T) {
	srv, _ := newTestServer(t)
	created := decodeLink(t, createLink(t, srv, "https://example.com/a"))

	const visits = 20
	var wg sync.WaitGroup
	for range visits {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := srv.Test(httptest.NewRequest(fiber.MethodGet, "/"+created.Slug, nil))
			if assert.NoError(t, err) {
				assert.Equal(t, fiber.StatusMovedPermanently, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	resp, err := srv.Test(httptest.NewRequest(fiber.MethodGet, "/api/v0/urls/"+created.Slug, nil))
	require.NoError(t, err)
	assert.EqualValues(t, visits, decodeLink(t, resp).VisitCount)
}
