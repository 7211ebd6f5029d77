package xlockconf

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xlockkit/pkg/sync/xmutex"
)

type reloads struct {
	mu   sync.Mutex
	cfgs []Config
	errs []error
}

func (r *reloads) record(cfg Config, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfgs = append(r.cfgs, cfg)
	r.errs = append(r.errs, err)
}

func (r *reloads) last() (Config, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.cfgs)
	if n == 0 {
		return Config{}, 0, nil
	}
	return r.cfgs[n-1], n, r.errs[n-1]
}

func TestWatchErrors(t *testing.T) {
	_, err := Watch("", nil)
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Watch("locks.toml", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Watch(filepath.Join(t.TempDir(), "missing-dir", "locks.yaml"), nil)
	assert.Error(t, err)
}

func TestWatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spin:\n  limit: 1\n"), 0o600))

	var r reloads
	w, err := Watch(path, r.record, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { require.NoError(t, w.Stop()) }()

	// 无关文件不触发重载
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o600))

	require.NoError(t, os.WriteFile(path, []byte("spin:\n  limit: 9\n"), 0o600))
	require.Eventually(t, func() bool {
		cfg, n, err := r.last()
		return n > 0 && err == nil && cfg.Spin.Limit == 9
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("spin:\n  limit: -3\n"), 0o600))
	require.Eventually(t, func() bool {
		_, _, err := r.last()
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)
	_, _, err = r.last()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWatchAutoApply(t *testing.T) {
	restoreGlobals(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "locks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	var r reloads
	w, err := Watch(path, r.record, WithDebounce(10*time.Millisecond), WithAutoApply())
	require.NoError(t, err)
	w.StartAsync()

	require.NoError(t, os.WriteFile(path, []byte(`{"spin": {"timeout": "3s", "limit": 11}}`), 0o600))
	require.Eventually(t, func() bool {
		return xmutex.CurrentDefaults().SpinLimit == 11
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 3*time.Second, xmutex.CurrentDefaults().SpinTimeout)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stop is idempotent")
	w.StartAsync() // 已停止的监视器不会重新启动
}
