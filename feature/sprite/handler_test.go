package sprite

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"sprite-index/core/database"
	"sprite-index/feature/sprite/convert"
	"sprite-index/feature/sprite/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, s *Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	f := NewFeature(s)
	require.True(t, f.IsEnabled())
	assert.Equal(t, "sprites", f.Name())
	require.NoError(t, f.Load(app))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHandleResolve(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)
	app := newApp(t, s)

	status, _ := get(t, app, "/sprites/resolve/pokemon_icon_019_00.png")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	_, err := s.BuildTable(context.Background(), nil)
	require.NoError(t, err)

	status, body := get(t, app, "/sprites/resolve/pokemon_icon_019_00.png")
	require.Equal(t, fiber.StatusOK, status)
	var res Resolution
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "019_00", res.Key)
	assert.Equal(t, []string{"19"}, res.Outputs)

	status, _ = get(t, app, "/sprites/resolve/pokemon_icon_999_00.png")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleGetTable(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)
	_, err := s.BuildTable(context.Background(), nil)
	require.NoError(t, err)
	app := newApp(t, s)

	status, body := get(t, app, "/sprites/table")
	require.Equal(t, fiber.StatusOK, status)
	var table TableResponse
	require.NoError(t, json.Unmarshal(body, &table))
	assert.Equal(t, 6, table.Count)
	assert.Equal(t, "000", table.Entries[0].Key)

	status, body = get(t, app, "/sprites/table/019_61")
	require.Equal(t, fiber.StatusOK, status)
	var entry models.Entry
	require.NoError(t, json.Unmarshal(body, &entry))
	assert.Equal(t, 46, entry.Targets[0].Form)

	status, _ = get(t, app, "/sprites/table/404_00")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleGetIndex_OutputListing(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)
	app := newApp(t, s)

	status, _ := get(t, app, "/sprites/index")
	assert.Equal(t, fiber.StatusNotFound, status)

	_, err := s.Build(context.Background(), BuildOptions{Runner: copyRunner{}})
	require.NoError(t, err)

	status, body := get(t, app, "/sprites/index")
	require.Equal(t, fiber.StatusOK, status)
	var idx IndexResponse
	require.NoError(t, json.Unmarshal(body, &idx))
	assert.Len(t, idx.Outputs, 6)
	assert.Empty(t, idx.Instructions)

	names, err := convert.ReadIndex(f.cfg.OutputDir)
	require.NoError(t, err)
	assert.Equal(t, names, idx.Outputs)
}

func TestHandleGetIndex_Stored(t *testing.T) {
	f := newFixture(t)
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := newTestService(t, f.cfg, db)
	require.NoError(t, s.Store().Migrate(context.Background()))
	app := newApp(t, s)

	status, _ := get(t, app, "/sprites/index")
	assert.Equal(t, fiber.StatusNotFound, status)

	report, err := s.Build(context.Background(), BuildOptions{Runner: copyRunner{}, Persist: true})
	require.NoError(t, err)

	status, body := get(t, app, "/sprites/index?run="+report.RunID)
	require.Equal(t, fiber.StatusOK, status)
	var idx IndexResponse
	require.NoError(t, json.Unmarshal(body, &idx))
	assert.Equal(t, report.RunID, idx.RunID)
	assert.Len(t, idx.Instructions, 6)
}
