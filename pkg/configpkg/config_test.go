package configpkg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600)
	require.NoError(t, err)

	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `SERVER_ADDRESS=127.0.0.1:9090
GO_ENV=development
INITIAL_BALANCE=1000
TRANSFER_LATENCY=10ms
TRANSFER_SUCCESS_RATE=1
SHUTDOWN_TIMEOUT=3s
READ_HEADER_TIMEOUT=2s
MAX_BODY_BYTES=1024
`)

	c, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, Config{
		ServerAddress:       "127.0.0.1:9090",
		Environment:         "development",
		InitialBalance:      "1000",
		TransferLatency:     10 * time.Millisecond,
		TransferSuccessRate: 1,
		ShutdownTimeout:     3 * time.Second,
		ReadHeaderTimeout:   2 * time.Second,
		MaxBodyBytes:        1024,
	}, c)
	require.True(t, c.IsDevelopment())

	balance, err := c.Balance()
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(1000)))
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "10000", c.InitialBalance)
	require.Equal(t, 1500*time.Millisecond, c.TransferLatency)
	require.Equal(t, 0.8, c.TransferSuccessRate)
	require.Equal(t, 10*time.Second, c.ShutdownTimeout)
	require.Equal(t, 5*time.Second, c.ReadHeaderTimeout)
	require.Equal(t, int64(4096), c.MaxBodyBytes)
	require.False(t, c.IsDevelopment())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("INITIAL_BALANCE", "250.5")

	c, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "250.5", c.InitialBalance)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "Balance not a number", content: "INITIAL_BALANCE=lots\n"},
		{name: "Negative balance", content: "INITIAL_BALANCE=-1\n"},
		{name: "Success rate above one", content: "TRANSFER_SUCCESS_RATE=1.5\n"},
		{name: "Negative latency", content: "TRANSFER_LATENCY=-1s\n"},
		{name: "Zero header timeout", content: "READ_HEADER_TIMEOUT=0s\n"},
		{name: "Zero body limit", content: "MAX_BODY_BYTES=0\n"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
		})
	}
}
