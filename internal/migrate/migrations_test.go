package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/db"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))

	all, err := All()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	v, err := Version(conn)
	require.NoError(t, err)
	assert.Equal(t, all[len(all)-1].Version, v)

	for _, table := range []string{"kv", "users", "api_keys", "events"} {
		var name string
		require.NoError(t, conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name), table)
	}
}

func TestLoadOrdersAndRejectsBadNames(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/010_b.sql": {Data: []byte("SELECT 2;")},
		"sql/002_a.sql": {Data: []byte("SELECT 1;")},
		"sql/README":    {Data: []byte("ignored")},
	}
	got, err := load(fsys, "sql")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int{2, 10}, []int{got[0].Version, got[1].Version})

	_, err = load(fstest.MapFS{"sql/init.sql": {Data: []byte("")}}, "sql")
	assert.Error(t, err)

	_, err = load(fstest.MapFS{
		"sql/001_a.sql": {Data: []byte("")},
		"sql/1_b.sql":   {Data: []byte("")},
	}, "sql")
	assert.ErrorContains(t, err, "share version 1")
}

func TestFailedStepLeavesVersion(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()

	err = apply(conn, []Migration{
		{Version: 1, Name: "001_ok.sql", UpSQL: "CREATE TABLE a(x INTEGER);"},
		{Version: 2, Name: "002_bad.sql", UpSQL: "CREATE TABLE nope("},
	})
	require.ErrorContains(t, err, "002_bad.sql")
	v, err := Version(conn)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
