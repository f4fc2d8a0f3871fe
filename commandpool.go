package vkres

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// CommandPool is a shared reference to a native command pool. Command
// buffers allocated from the pool hold their own reference, so the pool
// outlives every buffer allocated from it.
//
// The native driver requires that buffers from a pool are no longer in use
// when the pool is destroyed. That is not enforced here.
type CommandPool struct {
	inner    *commandPoolInner
	released atomic.Bool
}

type commandPoolInner struct {
	refs   *refCounter
	handle CommandPoolHandle
	device *Device
	info   CommandPoolCreateInfo
}

// NewCommandPoolBuilder returns a builder with no flags and queue family
// index zero.
func NewCommandPoolBuilder() *CommandPoolBuilder {
	return &CommandPoolBuilder{}
}

// CommandPoolBuilder accumulates creation parameters for a CommandPool.
// Nothing is validated until Build.
type CommandPoolBuilder struct {
	createInfo CommandPoolCreateInfo
}

// Flags specifies the usage behavior for the pool and the command buffers
// allocated from it.
func (b *CommandPoolBuilder) Flags(flags CommandPoolCreateFlags) *CommandPoolBuilder {
	b.createInfo.Flags = flags
	return b
}

// QueueFamilyIndex specifies a queue family. All command buffers allocated
// from the pool must be submitted on queues from this family.
func (b *CommandPoolBuilder) QueueFamilyIndex(queueFamilyIndex uint32) *CommandPoolBuilder {
	b.createInfo.QueueFamilyIndex = queueFamilyIndex
	return b
}

// Build creates the native command pool on device. The pool holds its own
// clone of device; the caller's reference is left untouched.
func (b *CommandPoolBuilder) Build(device *Device) (*CommandPool, error) {
	mustBeLive(&device.released, "device")
	info := b.createInfo
	driver := device.Driver()

	handle, ret := driver.CreateCommandPool(device.Handle(), &info)
	if err := check("create command pool", ret); err != nil {
		return nil, err
	}

	inner := &commandPoolInner{
		handle: handle,
		device: device.Clone(),
		info:   info,
	}
	inner.refs = newRefCounter(func() {
		Logger().Debug("destroy command pool", zap.Stringer("handle", handle))
		driver.DestroyCommandPool(inner.device.Handle(), handle)
		inner.device.Release()
	})

	Logger().Debug("create command pool",
		zap.Stringer("handle", handle),
		zap.Uint32("queue_family_index", info.QueueFamilyIndex),
		zap.Uint32("flags", uint32(info.Flags)))

	return &CommandPool{inner: inner}, nil
}

// AllocateCommandBufferHandles allocates count native command buffers of
// the given level in one call. On failure no handles are returned.
func (p *CommandPool) AllocateCommandBufferHandles(level CommandBufferLevel, count uint32) ([]CommandBufferHandle, error) {
	mustBeLive(&p.released, "command pool")
	if count == 0 {
		return []CommandBufferHandle{}, nil
	}

	allocInfo := CommandBufferAllocateInfo{
		CommandPool:        p.inner.handle,
		Level:              level,
		CommandBufferCount: count,
	}

	buffers := make([]CommandBufferHandle, count)
	ret := p.driver().AllocateCommandBuffers(p.inner.device.Handle(), &allocInfo, buffers)
	if err := check("allocate command buffers", ret); err != nil {
		return nil, err
	}

	Logger().Debug("allocate command buffers",
		zap.Stringer("pool", p.inner.handle),
		zap.Stringer("level", level),
		zap.Uint32("count", count))

	return buffers, nil
}

// AllocateCommandBuffers allocates count command buffers, each holding a
// reference to this pool. Either all buffers are returned or none.
func (p *CommandPool) AllocateCommandBuffers(level CommandBufferLevel, count uint32) ([]*CommandBuffer, error) {
	handles, err := p.AllocateCommandBufferHandles(level, count)
	if err != nil {
		return nil, err
	}

	ret := make([]*CommandBuffer, 0, len(handles))
	for _, h := range handles {
		cb, err := newCommandBuffer(p, h, level)
		if err != nil {
			for _, c := range ret {
				c.pool.Release()
			}
			p.driver().FreeCommandBuffers(p.inner.device.Handle(), p.inner.handle, handles)
			return nil, err
		}
		ret = append(ret, cb)
	}
	return ret, nil
}

// AllocateCommandBuffer allocates a single command buffer.
func (p *CommandPool) AllocateCommandBuffer(level CommandBufferLevel) (*CommandBuffer, error) {
	ret, err := p.AllocateCommandBuffers(level, 1)
	if err != nil {
		return nil, err
	}
	return ret[0], nil
}

// FreeCommandBuffers returns the buffers to the pool and releases them.
// Buffers which were already released, or belong to another pool, are
// skipped.
func (p *CommandPool) FreeCommandBuffers(buffers ...*CommandBuffer) {
	mustBeLive(&p.released, "command pool")
	handles := make([]CommandBufferHandle, 0, len(buffers))
	owned := make([]*CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		if b == nil || b.pool.inner != p.inner || !b.released.CompareAndSwap(false, true) {
			continue
		}
		handles = append(handles, b.handle)
		owned = append(owned, b)
	}
	if len(handles) == 0 {
		return
	}
	p.driver().FreeCommandBuffers(p.inner.device.Handle(), p.inner.handle, handles)
	for _, b := range owned {
		b.pool.Release()
	}
}

// Reset recycles all resources of every buffer allocated from the pool.
func (p *CommandPool) Reset(flags CommandPoolResetFlags) error {
	mustBeLive(&p.released, "command pool")
	return check("reset command pool",
		p.driver().ResetCommandPool(p.inner.device.Handle(), p.inner.handle, flags))
}

// Clone returns a new owner of the same pool.
func (p *CommandPool) Clone() *CommandPool {
	mustBeLive(&p.released, "command pool")
	p.inner.refs.acquire()
	return &CommandPool{inner: p.inner}
}

// Release drops this owner. The native pool is destroyed once every owner,
// including command buffers allocated from it, has been released.
func (p *CommandPool) Release() {
	if p == nil || !p.released.CompareAndSwap(false, true) {
		return
	}
	p.inner.refs.release()
}

func (p *CommandPool) Handle() CommandPoolHandle {
	return p.inner.handle
}

// Device returns the device the pool was created on. The returned value is
// owned by the pool and must not be released by the caller.
func (p *CommandPool) Device() *Device {
	return p.inner.device
}

func (p *CommandPool) Flags() CommandPoolCreateFlags {
	return p.inner.info.Flags
}

func (p *CommandPool) QueueFamilyIndex() uint32 {
	return p.inner.info.QueueFamilyIndex
}

func (p *CommandPool) driver() Driver {
	return p.inner.device.Driver()
}

func (p *CommandPool) String() string {
	return fmt.Sprintf("{ Handle: %s QueueFamily: %d }", p.inner.handle, p.inner.info.QueueFamilyIndex)
}
