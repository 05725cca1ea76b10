package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_API_ID", "12345")
	t.Setenv("TELEGRAM_API_HASH", "hash")
	t.Setenv("TELEGRAM_PHONE", "+10000000000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 12345, cfg.Telegram.APIID)
	require.Equal(t, 2000, cfg.Relay.EventBuffer)
	require.Equal(t, 10, cfg.Relay.PipeCapacity)
	require.Equal(t, 15*time.Second, cfg.Relay.EnqueueTimeout)
	require.Equal(t, 100, cfg.Sync.HistoryLimit)
	require.True(t, cfg.Sync.Enabled)
	require.False(t, cfg.Kafka.Enabled())
	require.Equal(t, "relay-service", cfg.Service.Name)
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "api id", unset: "TELEGRAM_API_ID"},
		{name: "api hash", unset: "TELEGRAM_API_HASH"},
		{name: "phone", unset: "TELEGRAM_PHONE"},
		{name: "bot token", unset: "TELEGRAM_BOT_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.unset)
		})
	}
}

func TestLoad_KafkaBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.True(t, cfg.Kafka.Enabled())
}

func TestValidate_HistoryLimit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SYNC_HISTORY_LIMIT", "500")

	_, err := Load()
	require.Error(t, err)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "relay", SSLMode: "disable"}
	require.Equal(t, "host=db port=5432 user=u password=p dbname=relay sslmode=disable", cfg.GetDSN())

	cfg.DSN = "postgres://u:p@db/relay"
	require.Equal(t, "postgres://u:p@db/relay", cfg.GetDSN())
}
