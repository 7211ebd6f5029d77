package xlockconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

// WatchCallback 重新加载后的回调，err 非 nil 时 cfg 为零值。
type WatchCallback func(cfg Config, err error)

// Watcher 配置文件监视器。
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	callback WatchCallback
	opts     *watchOptions
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	timer    *time.Timer // 防抖定时器，Stop 时取消
	done     chan struct{}
}

// WatchOption 监视器配置选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce  time.Duration
	autoApply bool
	logger    xlog.Logger
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{
		debounce: 100 * time.Millisecond,
	}
}

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载。默认 100ms。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithAutoApply 重载成功后先调用 Config.Apply 再回调；Apply 的错误传给回调。
func WithAutoApply() WatchOption {
	return func(o *watchOptions) {
		o.autoApply = true
	}
}

// WithWatchLogger 设置日志记录器，nil 时使用 xlog.Default()。
func WithWatchLogger(l xlog.Logger) WatchOption {
	return func(o *watchOptions) {
		o.logger = l
	}
}

// Watch 创建配置文件监视器，需调用 Start 或 StartAsync 开始监视，Stop 停止。
//
// 监视的是文件所在目录：编辑器保存时可能先删除再创建，直接监视文件会丢失事件。
func Watch(path string, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, err := detectFormat(path); err != nil {
		return nil, err
	}
	o := defaultWatchOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xlockconf: failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		closeErr := fsWatcher.Close()
		return nil, errors.Join(
			fmt.Errorf("xlockconf: failed to watch directory %s: %w", dir, err),
			closeErr,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		watcher:  fsWatcher,
		callback: callback,
		opts:     o,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start 启动监视，阻塞直到 Stop。
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 中启动监视，立即返回。
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	go w.run()
}

func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.ctx.Err() != nil {
		return false
	}
	w.running = true
	return true
}

// Stop 停止监视并等待监视循环退出。可重复调用。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	running := w.running
	w.running = false
	w.mu.Unlock()

	err := w.watcher.Close()
	if running {
		<-w.done
	}
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	filename := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(Config{}, fmt.Errorf("xlockconf: watch error: %w", err))
		}
	}
}

// handleEvent 处理目标文件的 Write/Create/Rename 事件（原子写入通过 rename 完成）。
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.debounce, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	cfg, err := Load(w.path)
	if err == nil && w.opts.autoApply {
		err = cfg.Apply()
	}
	w.notify(cfg, err)
}

func (w *Watcher) notify(cfg Config, err error) {
	logger := xlog.OrDefault(w.opts.logger)
	if err != nil {
		logger.Warn(w.ctx, "config reload failed",
			xlog.Component("xlockconf"), xlog.Err(err))
		cfg = Config{}
	} else {
		logger.Info(w.ctx, "config reloaded",
			xlog.Component("xlockconf"), xlog.Kind(filepath.Ext(w.path)))
	}
	if w.callback != nil {
		w.callback(cfg, err)
	}
}
