package vkres

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// Queue identifies one queue of a logical device. Queues are retrieved from
// the device rather than created, so there is no native object to destroy.
// A Queue holds its own device owner, keeping the device alive until
// Release.
type Queue struct {
	handle    QueueHandle
	device    *Device
	familyIdx uint32
	idx       uint32
	released  atomic.Bool
}

// NewQueue retrieves queue queueIndex of family queueFamilyIndex from device.
func NewQueue(device *Device, queueFamilyIndex, queueIndex uint32) (*Queue, error) {
	mustBeLive(&device.released, "device")
	handle := device.Driver().GetDeviceQueue(device.Handle(), queueFamilyIndex, queueIndex)
	if handle == 0 {
		return nil, check("get device queue", ErrorInitializationFailed)
	}
	Logger().Debug("get device queue",
		zap.Stringer("handle", handle),
		zap.Uint32("family", queueFamilyIndex),
		zap.Uint32("index", queueIndex))

	return &Queue{
		handle:    handle,
		device:    device.Clone(),
		familyIdx: queueFamilyIndex,
		idx:       queueIndex,
	}, nil
}

func (q *Queue) Handle() QueueHandle {
	return q.handle
}

// Device returns the device the queue was retrieved from. The returned value
// is owned by the queue and must not be released by the caller.
func (q *Queue) Device() *Device {
	return q.device
}

func (q *Queue) FamilyIndex() uint32 {
	return q.familyIdx
}

func (q *Queue) Index() uint32 {
	return q.idx
}

// SubmitInfo describes one batch of a queue submission. WaitStages holds
// one stage mask per wait semaphore; missing entries default to
// PipelineStageAllCommands.
type SubmitInfo struct {
	WaitSemaphores   []*Semaphore
	WaitStages       []PipelineStageFlags
	CommandBuffers   []*CommandBuffer
	SignalSemaphores []*Semaphore
}

func (s *SubmitInfo) native() NativeSubmitInfo {
	stages := make([]PipelineStageFlags, len(s.WaitSemaphores))
	for i := range stages {
		if i < len(s.WaitStages) {
			stages[i] = s.WaitStages[i]
		} else {
			stages[i] = PipelineStageAllCommands
		}
	}
	return NativeSubmitInfo{
		WaitSemaphores:   Handles[SemaphoreHandle](s.WaitSemaphores...),
		WaitDstStageMask: stages,
		CommandBuffers:   Handles[CommandBufferHandle](s.CommandBuffers...),
		SignalSemaphores: Handles[SemaphoreHandle](s.SignalSemaphores...),
	}
}

// Submit hands the batches to the queue. fence may be nil; when set it is
// signaled once every batch has completed.
func (q *Queue) Submit(fence *Fence, batches ...SubmitInfo) error {
	mustBeLive(&q.released, "queue")
	submits := make([]NativeSubmitInfo, len(batches))
	for i := range batches {
		submits[i] = batches[i].native()
	}
	var fh FenceHandle
	if fence != nil {
		fh = fence.Handle()
	}
	return check("queue submit", q.device.Driver().QueueSubmit(q.handle, submits, fh))
}

// SubmitWaitIdle submits the command buffers as a single batch and blocks
// until the queue is idle.
func (q *Queue) SubmitWaitIdle(buffers ...*CommandBuffer) error {
	if err := q.Submit(nil, SubmitInfo{CommandBuffers: buffers}); err != nil {
		return err
	}
	return q.WaitIdle()
}

// WaitIdle blocks until all work submitted to the queue has completed.
func (q *Queue) WaitIdle() error {
	mustBeLive(&q.released, "queue")
	return check("queue wait idle", q.device.Driver().QueueWaitIdle(q.handle))
}

// Release drops the queue's device owner. The queue itself is never
// destroyed; it goes away with the device.
func (q *Queue) Release() {
	if q == nil || !q.released.CompareAndSwap(false, true) {
		return
	}
	q.device.Release()
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %d Index: %d}", q.device.String(), q.familyIdx, q.idx)
}
