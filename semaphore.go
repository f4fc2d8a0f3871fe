package vkres

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Semaphore is a shared reference to a native semaphore. Signal and wait
// happen through queue submissions which reference its handle.
type Semaphore struct {
	inner    *semaphoreInner
	released atomic.Bool
}

type semaphoreInner struct {
	refs   *refCounter
	handle SemaphoreHandle
	device *Device
}

// NewSemaphore creates a semaphore with no flags on device.
func NewSemaphore(device *Device) (*Semaphore, error) {
	mustBeLive(&device.released, "device")
	createInfo := SemaphoreCreateInfo{}
	driver := device.Driver()

	handle, ret := driver.CreateSemaphore(device.Handle(), &createInfo)
	if err := check("create semaphore", ret); err != nil {
		return nil, err
	}

	inner := &semaphoreInner{handle: handle, device: device.Clone()}
	inner.refs = newRefCounter(func() {
		Logger().Debug("destroy semaphore", zap.Stringer("handle", handle))
		driver.DestroySemaphore(inner.device.Handle(), handle)
		inner.device.Release()
	})
	Logger().Debug("create semaphore", zap.Stringer("handle", handle))

	return &Semaphore{inner: inner}, nil
}

// Clone returns a new owner of the same semaphore.
func (s *Semaphore) Clone() *Semaphore {
	mustBeLive(&s.released, "semaphore")
	s.inner.refs.acquire()
	return &Semaphore{inner: s.inner}
}

// Release drops this owner, destroying the semaphore with the last one.
func (s *Semaphore) Release() {
	if s == nil || !s.released.CompareAndSwap(false, true) {
		return
	}
	s.inner.refs.release()
}

func (s *Semaphore) Handle() SemaphoreHandle {
	return s.inner.handle
}

// Device returns the associated device, owned by the semaphore.
func (s *Semaphore) Device() *Device {
	return s.inner.device
}
