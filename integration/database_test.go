//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHistoryWithMySQL tests the report history with a MySQL backend.
func TestHistoryWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "cyclereport",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/cyclereport?parseTime=true", host, port.Port())
	exerciseHistoryBackend(t, "mysql", connStr)
}

// TestHistoryWithPostgres tests the report history with a PostgreSQL backend.
func TestHistoryWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseHistoryBackend(t, "postgresql", connStr)
}

// exerciseHistoryBackend runs the full history lifecycle against one backend.
func exerciseHistoryBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	srv := fakeLinear(t)
	dir := t.TempDir()

	env := reportEnv(srv.URL)
	env["CYCLEREPORT_HISTORY_BACKEND"] = backend
	env["CYCLEREPORT_HISTORY_DB_CONNECT"] = connStr

	// Start from an empty schema
	_, _, err := runCommand(t, dir, env, "history", "clear")
	require.NoError(t, err)

	_, _, err = runCommand(t, dir, env, "history", "migrate")
	require.NoError(t, err)

	_, _, err = runCommand(t, dir, env, "report", "--quarter", "Q12020")
	require.NoError(t, err)

	stdout, _, err := runCommand(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "History Backend: "+backend)
	assert.Contains(t, stdout, "Total Runs: 1")
	assert.Contains(t, stdout, "cyclereport_cycle_rows: 3 rows")

	_, _, err = runCommand(t, dir, env, "history", "export", "--output-file", filepath.Join(dir, "export"))
	require.NoError(t, err)

	// Rolling back drops both tables
	_, _, err = runCommand(t, dir, env, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)

	_, _, err = runCommand(t, dir, env, "history", "clear")
	require.NoError(t, err)
}
