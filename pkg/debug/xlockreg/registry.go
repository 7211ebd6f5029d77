package xlockreg

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/cpu"
)

// 原语类型名称，与 State.Kind 对应。
const (
	KindSpin     = "spin"
	KindBlocking = "blocking"
	KindSyncVar  = "syncvar"
)

// State 原语状态快照，由原语在自己的簿记锁保护下生成。
type State struct {
	Kind      string
	Owner     uint64 // 0 表示无持有者
	Recursion int
	Contested bool
	Waiters   int
	Destroyed bool
}

// Subject 是可登记到注册表的原语。
type Subject interface {
	LockName() string
	LockState() State
}

// Handle 注册句柄，进程内单调递增，0 表示未注册。
type Handle uint64

// Entry List 返回的单个原语信息。
type Entry struct {
	Handle Handle
	Name   string
	State  State
}

type shard struct {
	mu      sync.Mutex
	entries map[Handle]Subject
	_       cpu.CacheLinePad
}

// Registry 存活原语注册表，所有方法并发安全。
type Registry struct {
	shards []shard
	mask   uint64
	next   atomic.Uint64
	count  atomic.Int64
}

// New 创建注册表。配置无效时返回错误。
func New(opts ...Option) (*Registry, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	shards := make([]shard, o.shardCount)
	for i := range shards {
		shards[i].entries = make(map[Handle]Subject)
	}
	return &Registry{
		shards: shards,
		mask:   uint64(o.shardCount - 1),
	}, nil
}

func (r *Registry) shardOf(h Handle) *shard {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(h))
	return &r.shards[xxhash.Sum64(b[:])&r.mask]
}

// Register 登记原语并返回句柄。
func (r *Registry) Register(s Subject) (Handle, error) {
	if s == nil {
		return 0, ErrNilSubject
	}
	h := Handle(r.next.Add(1))
	sh := r.shardOf(h)
	sh.mu.Lock()
	sh.entries[h] = s
	sh.mu.Unlock()
	r.count.Add(1)
	return h, nil
}

// Unregister 注销句柄。重复注销返回 ErrNotRegistered。
func (r *Registry) Unregister(h Handle) error {
	sh := r.shardOf(h)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.entries[h]; !ok {
		return fmt.Errorf("%w: %d", ErrNotRegistered, h)
	}
	delete(sh.entries, h)
	r.count.Add(-1)
	return nil
}

func (r *Registry) lookup(h Handle) (Subject, bool) {
	sh := r.shardOf(h)
	sh.mu.Lock()
	s, ok := sh.entries[h]
	sh.mu.Unlock()
	return s, ok
}

// Len 返回存活原语数量（单次原子读取）。
func (r *Registry) Len() int {
	return int(max(r.count.Load(), 0))
}

// List 返回存活原语快照，按句柄（即注册顺序）排序。
// 快照不保证跨分片原子性，仅用于诊断。
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, r.Len())
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.Lock()
		for h, s := range sh.entries {
			out = append(out, Entry{Handle: h, Name: s.LockName()})
		}
		sh.mu.Unlock()
	}
	// LockState 可能获取原语的簿记锁，必须在分片锁之外调用
	for i := range out {
		if s, ok := r.lookup(out[i].Handle); ok {
			out[i].State = s.LockState()
		}
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Handle, b.Handle) })
	return out
}

// Held 报告句柄对应的原语当前是否有持有者。未注册返回 false。
func (r *Registry) Held(h Handle) bool {
	s, ok := r.lookup(h)
	if !ok {
		return false
	}
	return s.LockState().Owner != 0
}

// Validate 校验原语状态的数据不变式，违规时返回包装 ErrInvariant 的错误。
func (r *Registry) Validate(h Handle) error {
	s, ok := r.lookup(h)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotRegistered, h)
	}
	if err := CheckState(s.LockState()); err != nil {
		return fmt.Errorf("%q: %w", s.LockName(), err)
	}
	return nil
}

// CheckState 校验单个状态快照。
//
//	owner == 0        ⇒ recursion == 0 且未竞争
//	contested         ⇔ waiters > 0（互斥锁）
//	spin              ⇒ waiters == 0
//	已注册的原语不得处于已销毁状态
func CheckState(st State) error {
	var errs []error
	if st.Destroyed {
		errs = append(errs, errors.New("destroyed primitive still registered"))
	}
	if st.Owner == 0 && st.Recursion != 0 {
		errs = append(errs, fmt.Errorf("unowned with recursion %d", st.Recursion))
	}
	if st.Recursion < 0 {
		errs = append(errs, fmt.Errorf("negative recursion %d", st.Recursion))
	}
	switch st.Kind {
	case KindSpin:
		if st.Waiters != 0 || st.Contested {
			errs = append(errs, fmt.Errorf("spin mutex with %d waiters", st.Waiters))
		}
	case KindBlocking:
		if st.Contested != (st.Waiters > 0) {
			errs = append(errs, fmt.Errorf("contested=%t with %d waiters", st.Contested, st.Waiters))
		}
		if st.Owner == 0 && st.Contested {
			errs = append(errs, errors.New("unowned but contested"))
		}
	case KindSyncVar:
		if st.Contested {
			errs = append(errs, errors.New("syncvar marked contested"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", st.Kind))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvariant, errors.Join(errs...))
}
