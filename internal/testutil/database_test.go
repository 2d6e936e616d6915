package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestDSNs(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("TEST_POSTGRES_DSN", "")
		t.Setenv("TEST_MYSQL_DSN", "")

		assert.Equal(t, defaultPostgresTestDSN, GetPostgresTestDSN())
		assert.Equal(t, defaultMySQLTestDSN, GetMySQLTestDSN())
	})

	t.Run("FromEnvironment", func(t *testing.T) {
		//nolint:gosec // test credentials
		t.Setenv("TEST_POSTGRES_DSN", "postgres://lab:lab@db:5432/sampletrack_ci?sslmode=disable")
		t.Setenv("TEST_MYSQL_DSN", "lab:lab@tcp(db:3306)/sampletrack_ci?parseTime=true")

		assert.Equal(t, "postgres://lab:lab@db:5432/sampletrack_ci?sslmode=disable", GetPostgresTestDSN())
		assert.Equal(t, "lab:lab@tcp(db:3306)/sampletrack_ci?parseTime=true", GetMySQLTestDSN())
	})
}

func TestGetMigrationsPath(t *testing.T) {
	for _, dialect := range []string{"postgresql", "mysql"} {
		t.Run(dialect, func(t *testing.T) {
			path, err := getMigrationsPath(dialect)
			require.NoError(t, err)
			assert.Equal(t, dialect, filepath.Base(path))

			entries, err := os.ReadDir(path)
			require.NoError(t, err)
			assert.NotEmpty(t, entries)
		})
	}

	t.Run("UnknownDialect", func(t *testing.T) {
		path, err := getMigrationsPath("sqlite")
		assert.Error(t, err)
		assert.Empty(t, path)
	})

	t.Run("FromNestedWorkingDirectory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		t.Chdir(filepath.Join(wd, "..", "..", "cmd", "app"))

		path, err := getMigrationsPath("mysql")
		require.NoError(t, err)
		assert.Equal(t, "mysql", filepath.Base(path))
	})
}

func TestUUIDToDriverValue(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	value, err := uuidToDriverValue(id, "postgres")
	require.NoError(t, err)
	assert.Equal(t, id, value)

	for _, driver := range []string{"mysql", "anything-else"} {
		value, err = uuidToDriverValue(id, driver)
		require.NoError(t, err)
		raw, ok := value.([]byte)
		require.True(t, ok, driver)
		assert.Len(t, raw, 16)
		assert.Equal(t, id[:], raw)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2", "$3"}, placeholders("postgres", 3))
	assert.Equal(t, []string{"?", "?"}, placeholders("mysql", 2))
	assert.Empty(t, placeholders("mysql", 0))
}

func TestSetupPostgresDB(t *testing.T) {
	SkipIfNoPostgres(t)

	db := SetupPostgresDB(t)
	defer TeardownDB(t, db)

	assert.NoError(t, db.Ping())
	assert.Equal(t, 0, CountRows(t, db, "samples"), "database should be clean after setup")
}

func TestSetupMySQLDB(t *testing.T) {
	SkipIfNoMySQL(t)

	db := SetupMySQLDB(t)
	defer TeardownDB(t, db)

	assert.NoError(t, db.Ping())
	assert.Equal(t, 0, CountRows(t, db, "samples"), "database should be clean after setup")
}

func TestTeardownDB(t *testing.T) {
	SkipIfNoPostgres(t)

	db := SetupPostgresDB(t)
	require.NotNil(t, db)

	TeardownDB(t, db)

	assert.Error(t, db.Ping(), "database should be closed after teardown")
}

func TestTeardownDBWithNilDB(t *testing.T) {
	assert.NotPanics(t, func() {
		TeardownDB(t, nil)
	})
}

func TestCreateTestSample(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		setup   func(t *testing.T) *sql.DB
		skip    func(t *testing.T)
		cleanup func(t *testing.T, db *sql.DB)
	}{
		{
			name:    "create sample in postgres",
			driver:  "postgres",
			setup:   SetupPostgresDB,
			skip:    SkipIfNoPostgres,
			cleanup: CleanupPostgresDB,
		},
		{
			name:    "create sample in mysql",
			driver:  "mysql",
			setup:   SetupMySQLDB,
			skip:    SkipIfNoMySQL,
			cleanup: CleanupMySQLDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.skip(t)

			db := tt.setup(t)
			defer TeardownDB(t, db)

			sampleID := CreateTestSample(t, db, tt.driver, uuid.Must(uuid.NewV7()))
			assert.NotEqual(t, uuid.Nil, sampleID)
			assert.Equal(t, 1, CountRows(t, db, "samples"))
			assert.Equal(t, 1, CountRows(t, db, "sample_history"))

			tt.cleanup(t, db)
			assert.Equal(t, 0, CountRows(t, db, "samples"))
			assert.Equal(t, 0, CountRows(t, db, "sample_history"))
		})
	}
}
