package bootstrap

import (
	"context"
	"testing"
	"time"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/catalog/pidreg/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "pidreg", Env: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		Log:      config.LogConfig{Level: "error"},
		Registry: config.RegistryConfig{
			NodeURL:         "https://catalog.example/",
			Timeout:         time.Second,
			MaxResponseSize: 1 << 16,
			GuardEnabled:    true,
			GuardTTL:        time.Minute,
			GuardBackend:    config.GuardBackendMemory,
		},
	}
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(ctx) })

	assert.NotNil(t, app.Guard)
	assert.NotNil(t, app.Logger())
	assert.False(t, app.Profiler.IsEnabled())
	require.NoError(t, app.DB.Ping(ctx))

	server, err := app.Servers.Create(ctx, handleapp.CreateServerRequest{
		Name: "epic", Type: "HANDLE", URL: "https://h.example/", PublicURL: "https://hdl.example/",
		Username: "20.500.1:admin", Password: "pw", Prefix: "20.500.1", Pattern: "{uuid}",
	})
	require.NoError(t, err)

	_, err = app.Records.Import(ctx, handleapp.ImportRecordRequest{
		UUID:     "abc-123",
		SchemaID: "dublin-core",
		Content:  `<simpledc xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>t</dc:title></simpledc>`,
	})
	require.NoError(t, err)

	// the record was imported without public visibility
	_, err = app.Handles.CheckByID(ctx, server.ID, "abc-123")
	assert.ErrorIs(t, err, handle.ErrNotPublic)

	_, err = app.Handles.CheckByID(ctx, uuid.New(), "abc-123")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNew_GuardDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Registry.GuardEnabled = false

	app, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close(ctx)

	assert.Nil(t, app.Guard)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"

	app, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, app)
}
