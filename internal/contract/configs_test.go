package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpulse/devpulse/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoStr:         "octo/repo",
		Scope:           "repository",
		Workers:         5,
		Output:          "text",
		SnapshotBackend: "none",
		ModelBackend:    "none",
		Color:           "yes",
		Emoji:           "no",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.RepoRef{Owner: "octo", Name: "repo"}, cfg.Repo)
	assert.Equal(t, schema.RepositoryScope, cfg.Scope)
	assert.Equal(t, DefaultHistoryLimit, cfg.HistoryLimit)
	assert.Equal(t, DefaultHorizonDays, cfg.HorizonDays)
	assert.Equal(t, DefaultQueueSize, cfg.QueueSize)
	assert.Equal(t, 15*time.Minute, cfg.CacheMaxAge)
	assert.Equal(t, time.Hour, cfg.RateWindow)
	assert.Equal(t, 4000, cfg.RateMax)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
}

func TestProcessAndValidateRejectsBadWorkers(t *testing.T) {
	input := validInput()
	input.Workers = 0
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "workers")
}

func TestProcessAndValidateRejectsBadOutput(t *testing.T) {
	input := validInput()
	input.Output = "yaml"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "output format")
}

func TestProcessAndValidateRejectsBadScope(t *testing.T) {
	input := validInput()
	input.Scope = "team"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "scope")
}

func TestProcessAndValidateTrackedNeedsDeveloper(t *testing.T) {
	input := validInput()
	input.Scope = "tracked"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "developer")

	input.Developer = "octocat"
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessAndValidateDurations(t *testing.T) {
	input := validInput()
	input.FetchTimeout = "10s"
	input.CacheMaxAge = "1m"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Minute, cfg.CacheMaxAge)

	input.FetchTimeout = "-5s"
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, input), "fetch-timeout")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@host/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/devpulse"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=devpulse sslmode=disable"))
}

func TestBackendValidationRejectsSharedSQLiteFile(t *testing.T) {
	input := validInput()
	input.SnapshotBackend = "sqlite"
	input.ModelBackend = "sqlite"
	input.SnapshotDBConnect = "/tmp/devpulse.db"
	input.ModelDBConnect = "/tmp/devpulse.db"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "different SQLite database files")
}

func TestRefreshTaskCarriesForce(t *testing.T) {
	input := validInput()
	input.Force = true
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.True(t, cfg.RefreshTask().Force)

	input.Scope = "tracked"
	input.Developer = "octocat"
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.True(t, cfg.RefreshTask().Force)
}

func TestParseRepoRef(t *testing.T) {
	ref, err := ParseRepoRef("octo/repo")
	assert.NoError(t, err)
	assert.Equal(t, "octo/repo", ref.FullName())

	for _, bad := range []string{"", "octo", "octo/", "/repo", "a/b/c"} {
		_, err := ParseRepoRef(bad)
		assert.Error(t, err, "input=%q", bad)
	}
}
