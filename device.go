package vkres

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// Device is a shared reference to a logical device. Every object created
// from a device holds its own clone, so the native device is only destroyed
// once the application and all of those objects have released it.
type Device struct {
	inner    *deviceInner
	released atomic.Bool
}

type deviceInner struct {
	refs     *refCounter
	driver   Driver
	handle   DeviceHandle
	physical *PhysicalDevice
}

// NewDevice takes ownership of a logical device handle created through
// driver. physical may be nil when the caller does not track it.
func NewDevice(driver Driver, physical *PhysicalDevice, handle DeviceHandle) *Device {
	inner := &deviceInner{
		driver:   driver,
		handle:   handle,
		physical: physical,
	}
	inner.refs = newRefCounter(func() {
		Logger().Debug("destroy device", zap.Stringer("handle", handle))
		driver.DestroyDevice(handle)
	})
	return &Device{inner: inner}
}

// Clone returns a new owner of the same device.
func (d *Device) Clone() *Device {
	mustBeLive(&d.released, "device")
	d.inner.refs.acquire()
	return &Device{inner: d.inner}
}

// Release drops this owner. The native device is destroyed when the last
// owner is released. Releasing the same value twice has no effect.
func (d *Device) Release() {
	if d == nil || !d.released.CompareAndSwap(false, true) {
		return
	}
	d.inner.refs.release()
}

func (d *Device) Handle() DeviceHandle {
	return d.inner.handle
}

// Driver returns the entry point table the device was created with.
func (d *Device) Driver() Driver {
	return d.inner.driver
}

func (d *Device) PhysicalDevice() *PhysicalDevice {
	return d.inner.physical
}

// WaitIdle blocks until all queues of the device are idle.
func (d *Device) WaitIdle() error {
	mustBeLive(&d.released, "device")
	return check("device wait idle", d.inner.driver.DeviceWaitIdle(d.inner.handle))
}

// GetQueue retrieves queue index of the given queue family. The queue holds
// a device owner until it is released.
func (d *Device) GetQueue(queueFamilyIndex, queueIndex uint32) (*Queue, error) {
	return NewQueue(d, queueFamilyIndex, queueIndex)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s Handle: %s }", d.inner.physical, d.inner.handle)
}
