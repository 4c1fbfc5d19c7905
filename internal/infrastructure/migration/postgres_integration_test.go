//go:build integration

package migration_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/catalog/pidreg/internal/infrastructure/migration"
	"github.com/catalog/pidreg/internal/infrastructure/persistence"
	"github.com/catalog/pidreg/migrations"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// startPostgres runs a throwaway PostgreSQL container and returns its DSN
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pidreg_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgres_MigrationsAndRepositories(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	servers := persistence.NewGormRegistryServerRepository(db)
	records := persistence.NewGormRecordRepository(db)

	t.Run("server names are unique", func(t *testing.T) {
		first, err := handle.NewRegistryServer(handle.RegistryServerParams{
			Name: "epic", Type: handle.ServerTypeHandle, Prefix: "20.500.1", PublicationGroups: []int{2, 3},
		})
		require.NoError(t, err)
		require.NoError(t, servers.Save(ctx, first))

		got, err := servers.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{2, 3}, got.PublicationGroups)

		dup, err := handle.NewRegistryServer(handle.RegistryServerParams{Name: "epic", Type: handle.ServerTypeHandle})
		require.NoError(t, err)
		assert.ErrorIs(t, servers.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("record visibility and optimistic update", func(t *testing.T) {
		rec := &handle.Record{UUID: "abc-123", SchemaID: "iso19139", OwnerGroup: 2, Content: "<gmd:MD_Metadata/>"}
		require.NoError(t, records.Save(ctx, rec))

		visible, err := records.IsVisibleToAll(ctx, rec.ID)
		require.NoError(t, err)
		assert.False(t, visible)

		require.NoError(t, records.SetVisibleToAll(ctx, rec.ID, true))
		visible, err = records.IsVisibleToAll(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, visible)

		stale := *rec
		require.NoError(t, records.UpdateContent(ctx, rec, "<gmd:MD_Metadata>v2</gmd:MD_Metadata>", "https://hdl.example/abc-123"))
		err = records.UpdateContent(ctx, &stale, "<lost/>", "https://hdl.example/abc-123")
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		got, err := records.FindByUUID(ctx, "abc-123")
		require.NoError(t, err)
		assert.Equal(t, "https://hdl.example/abc-123", got.ExistingIdentifier)
	})

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
