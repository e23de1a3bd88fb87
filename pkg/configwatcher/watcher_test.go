package configwatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func configWithTarget(target int) string {
	return fmt.Sprintf(`server:
  port: "0"
  mode: debug
jwt:
  secret: unit-test-secret
  expire_hours: 1
drill:
  repetition_target: %d
`, target)
}

// A reload hands the callback a freshly parsed config and refreshes the
// viper-backed values, without the callback touching shared state.
func TestWatchConfigPublishesFreshConfig(t *testing.T) {
	logger.Log = zap.NewNop()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configWithTarget(3)), 0o644))

	reloaded := make(chan *config.Config, 1)
	go WatchConfig(path, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	// Let the watcher attach before touching the file.
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(configWithTarget(9)), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9, cfg.Drill.RepetitionTarget)
		assert.Equal(t, 9, config.RepetitionTarget())
	case <-time.After(5 * time.Second):
		t.Fatal("config reload was not observed")
	}
}
