package vkres

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// CommandBuffer wraps a native command buffer allocated from a CommandPool.
// The buffer keeps the pool alive until it is released. Recording commands
// is left to the caller through the native API; see Handle.
type CommandBuffer struct {
	handle   CommandBufferHandle
	pool     *CommandPool
	level    CommandBufferLevel
	released atomic.Bool
}

func newCommandBuffer(pool *CommandPool, handle CommandBufferHandle, level CommandBufferLevel) (*CommandBuffer, error) {
	if handle == 0 {
		return nil, check("wrap command buffer", ErrorInitializationFailed)
	}
	return &CommandBuffer{
		handle: handle,
		pool:   pool.Clone(),
		level:  level,
	}, nil
}

func (c *CommandBuffer) Handle() CommandBufferHandle {
	return c.handle
}

// Pool returns the pool the buffer was allocated from. The returned value is
// owned by the buffer and must not be released by the caller.
func (c *CommandBuffer) Pool() *CommandPool {
	return c.pool
}

func (c *CommandBuffer) Level() CommandBufferLevel {
	return c.level
}

// Reset returns the buffer to the initial state. The pool must have been
// created with CommandPoolCreateResetCommandBuffer.
func (c *CommandBuffer) Reset(flags CommandBufferResetFlags) error {
	mustBeLive(&c.released, "command buffer")
	return check("reset command buffer", c.pool.driver().ResetCommandBuffer(c.handle, flags))
}

// Release frees the native buffer and drops the buffer's pool reference.
// Releasing twice has no effect.
func (c *CommandBuffer) Release() {
	if c == nil || !c.released.CompareAndSwap(false, true) {
		return
	}
	Logger().Debug("free command buffer", zap.Stringer("handle", c.handle))
	c.pool.driver().FreeCommandBuffers(c.pool.inner.device.Handle(), c.pool.inner.handle, []CommandBufferHandle{c.handle})
	c.pool.Release()
}

func (c *CommandBuffer) String() string {
	return fmt.Sprintf("{ Handle: %s Level: %s Pool: %s }", c.handle, c.level, c.pool.inner.handle)
}
