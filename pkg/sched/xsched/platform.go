package xsched

import (
	"sync"
	"sync/atomic"
)

// Platform 中断屏蔽能力。屏蔽状态属于执行者（CPU/actor），互不影响。
type Platform interface {
	// InterruptsEnabled 报告 actor 当前是否允许中断。
	InterruptsEnabled(actor ActorID) bool

	// DisableInterrupts 屏蔽 actor 的中断并返回屏蔽前的状态。
	DisableInterrupts(actor ActorID) (prev bool)

	// RestoreInterrupts 恢复 DisableInterrupts 返回的状态。
	RestoreInterrupts(actor ActorID, prev bool)
}

// HostPlatform 用户态进程无法屏蔽中断：始终报告允许，Disable/Restore 为空操作。
type HostPlatform struct{}

func (HostPlatform) InterruptsEnabled(ActorID) bool { return true }
func (HostPlatform) DisableInterrupts(ActorID) bool { return true }
func (HostPlatform) RestoreInterrupts(ActorID, bool) {}

// SoftPlatform 按 actor 记录中断开关的软件模拟，未出现过的 actor 视为允许中断。
type SoftPlatform struct {
	mu       sync.Mutex
	masked   map[ActorID]struct{}
	disables atomic.Int64
}

// NewSoftPlatform 创建所有 actor 均允许中断的 SoftPlatform。
func NewSoftPlatform() *SoftPlatform {
	return &SoftPlatform{masked: make(map[ActorID]struct{})}
}

func (p *SoftPlatform) InterruptsEnabled(actor ActorID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, off := p.masked[actor]
	return !off
}

func (p *SoftPlatform) DisableInterrupts(actor ActorID) bool {
	p.disables.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	_, off := p.masked[actor]
	p.masked[actor] = struct{}{}
	return !off
}

func (p *SoftPlatform) RestoreInterrupts(actor ActorID, prev bool) {
	p.SetEnabled(actor, prev)
}

// SetEnabled 直接设置 actor 的中断开关。
func (p *SoftPlatform) SetEnabled(actor ActorID, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if on {
		delete(p.masked, actor)
		return
	}
	p.masked[actor] = struct{}{}
}

// Disables 返回 DisableInterrupts 的累计调用次数。
func (p *SoftPlatform) Disables() int64 {
	return p.disables.Load()
}

// 编译期接口检查。
var (
	_ Platform = HostPlatform{}
	_ Platform = (*SoftPlatform)(nil)
)
