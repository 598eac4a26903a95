package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"imagerater/internal/config"
	"imagerater/internal/dto"
	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/rater"
	"imagerater/internal/repository/sqlite"
	"imagerater/internal/route"
	"imagerater/internal/service"
	"imagerater/internal/service/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAPIServer serves the real API over a fresh database holding n images.
func newAPIServer(t *testing.T, n int) (*httptest.Server, *websocket.HubService) {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	images := sqlite.NewImageRepository(db)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("set/img_%03d.jpg", i)
		_, err := images.Insert(context.Background(), &model.Image{Filename: name, Path: "sample_images/" + name})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHubService(logger.Nop())
	go hub.Run(ctx)

	cfg := &config.Config{
		ImageDirectory: dir,
		ImageURLPrefix: "sample_images",
		StaticDir:      dir,
		MaxPageSize:    100,
	}
	manager := service.NewManager(images, sqlite.NewRatingRepository(db), hub, logger.Nop())
	srv := httptest.NewServer(route.SetupRoutes(manager, hub, cfg, logger.Nop()))
	t.Cleanup(srv.Close)
	return srv, hub
}

func TestClient_Backend(t *testing.T) {
	srv, _ := newAPIServer(t, 45)
	c := New(srv.URL, nil, nil)
	ctx := context.Background()

	counts, err := c.Counts(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, dto.Counts{Total: 45, Unrated: 45}, counts)

	images, err := c.Images(ctx, "alice", model.FilterAll, 3, 20)
	require.NoError(t, err)
	require.Len(t, images, 5)
	assert.Equal(t, srv.URL+"/sample_images/set/img_041.jpg", c.ImageURL(images[0]))

	page, err := c.FindImage(ctx, "alice", model.FilterAll, "img_021", 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page)

	_, err = c.FindImage(ctx, "alice", model.FilterAll, "nothing", 20)
	var notFound *rater.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "No image matching 'nothing' was found.", notFound.Message)

	require.NoError(t, c.RateImage(ctx, 1, "alice", 2, 1))

	err = c.RateImage(ctx, 999, "alice", 2, 1)
	var httpErr *HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "Image not found", httpErr.Detail)

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, json.Number("1"), summary.Rows[0]["Image ID"])
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil, nil).Counts(context.Background(), "alice")

	var httpErr *HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Empty(t, httpErr.Detail)
	assert.Equal(t, "HTTP 502 Bad Gateway", err.Error())
}

func TestClient_FindImageServerFailureIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil, nil).FindImage(context.Background(), "alice", model.FilterAll, "x", 20)

	var notFound *rater.NotFoundError
	require.Error(t, err)
	assert.NotErrorAs(t, err, &notFound)
}

func TestSessionOverHTTP(t *testing.T) {
	srv, _ := newAPIServer(t, 45)
	s, err := rater.NewSession(New(srv.URL, nil, nil), "alice")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, rater.Location{Filename: "img_025"}))
	assert.Equal(t, 2, s.Page())

	require.NoError(t, s.RecordEdit(21, rater.Rating1, 2))
	require.NoError(t, s.RecordEdit(21, rater.Rating2, 1))
	require.NoError(t, s.RecordEdit(22, rater.Rating1, 0))

	report, err := s.Submit(ctx)
	var validation *rater.ValidationError
	require.ErrorAs(t, err, &validation, "image 22 has no rating 2")
	assert.Equal(t, []int64{21}, report.Submitted)
	assert.Len(t, report.Rejected, 1)
	assert.Equal(t, 44, s.Counts().Unrated)
	assert.Equal(t, 1, s.Pending())

	require.NoError(t, s.ChangeFilter(ctx, model.FilterUnrated))
	assert.Equal(t, 3, s.TotalPages())
	page, err := s.FindByFilename(ctx, "img_045")
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Len(t, s.Images(), 4)
}

func TestWatchRatings(t *testing.T) {
	srv, hub := newAPIServer(t, 1)
	c := New(srv.URL, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := make(chan dto.RatingEvent, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.WatchRatings(ctx, func(e dto.RatingEvent) { events <- e })
	}()
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.RateImage(ctx, 1, "bob", 0, 2))

	select {
	case e := <-events:
		assert.Equal(t, int64(1), e.ImageID)
		assert.Equal(t, "bob", e.UserName)
		assert.Equal(t, 2, e.Rating2)
	case <-ctx.Done():
		t.Fatal("no rating event received")
	}

	cancel()
	assert.NoError(t, <-errCh)
}
