package vkres

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Fence is a shared reference to a native fence, used to wait on the host
// for queue submissions to complete.
type Fence struct {
	inner    *fenceInner
	released atomic.Bool
}

type fenceInner struct {
	refs   *refCounter
	handle FenceHandle
	device *Device
}

// NewFence creates a fence on device, optionally in the signaled state.
func NewFence(device *Device, signaled bool) (*Fence, error) {
	mustBeLive(&device.released, "device")
	var createInfo FenceCreateInfo
	if signaled {
		createInfo.Flags = FenceCreateSignaled
	}
	driver := device.Driver()

	handle, ret := driver.CreateFence(device.Handle(), &createInfo)
	if err := check("create fence", ret); err != nil {
		return nil, err
	}

	inner := &fenceInner{handle: handle, device: device.Clone()}
	inner.refs = newRefCounter(func() {
		Logger().Debug("destroy fence", zap.Stringer("handle", handle))
		driver.DestroyFence(inner.device.Handle(), handle)
		inner.device.Release()
	})
	Logger().Debug("create fence", zap.Stringer("handle", handle), zap.Bool("signaled", signaled))

	return &Fence{inner: inner}, nil
}

// Signaled reports whether the fence is signaled. NotReady is not an error.
func (f *Fence) Signaled() (bool, error) {
	mustBeLive(&f.released, "fence")
	ret := f.inner.device.Driver().GetFenceStatus(f.inner.device.Handle(), f.inner.handle)
	switch ret {
	case Success:
		return true, nil
	case NotReady:
		return false, nil
	}
	return false, check("get fence status", ret)
}

// Reset returns the fence to the unsignaled state.
func (f *Fence) Reset() error {
	return ResetFences(f.inner.device, f)
}

// Wait blocks until the fence is signaled or timeout elapses. A timeout is
// reported as an error carrying Timeout.
func (f *Fence) Wait(timeout time.Duration) error {
	return WaitForFences(f.inner.device, true, timeout, f)
}

// Clone returns a new owner of the same fence.
func (f *Fence) Clone() *Fence {
	mustBeLive(&f.released, "fence")
	f.inner.refs.acquire()
	return &Fence{inner: f.inner}
}

// Release drops this owner, destroying the fence with the last one.
func (f *Fence) Release() {
	if f == nil || !f.released.CompareAndSwap(false, true) {
		return
	}
	f.inner.refs.release()
}

func (f *Fence) Handle() FenceHandle {
	return f.inner.handle
}

func (f *Fence) Device() *Device {
	return f.inner.device
}

// WaitForFences waits for all (or any, when waitAll is false) of fences.
func WaitForFences(device *Device, waitAll bool, timeout time.Duration, fences ...*Fence) error {
	mustBeLive(&device.released, "device")
	if len(fences) == 0 {
		return nil
	}
	return check("wait for fences",
		device.Driver().WaitForFences(device.Handle(), Handles[FenceHandle](fences...), waitAll, timeout))
}

// ResetFences resets every fence to the unsignaled state in one call.
func ResetFences(device *Device, fences ...*Fence) error {
	mustBeLive(&device.released, "device")
	if len(fences) == 0 {
		return nil
	}
	return check("reset fences", device.Driver().ResetFences(device.Handle(), Handles[FenceHandle](fences...)))
}
