package vulkan

import (
	"sync/atomic"
	"time"

	"github.com/celer/vkres"
	vk "github.com/vulkan-go/vulkan"
	"go.uber.org/zap"
)

// unknownHandle is reported when a vkres handle was not produced by this
// driver or has already been destroyed.
const unknownHandle = vkres.ErrorUnknown

// Driver implements vkres.Driver on top of github.com/vulkan-go/vulkan.
// The loader must be initialized (see Init) before any call.
type Driver struct {
	ids atomic.Uint64

	instances       *table[vkres.InstanceHandle, vk.Instance]
	physicalDevices *table[vkres.PhysicalDeviceHandle, vk.PhysicalDevice]
	devices         *table[vkres.DeviceHandle, vk.Device]
	surfaces        *table[vkres.SurfaceHandle, vk.Surface]
	queues          *table[vkres.QueueHandle, vk.Queue]
	commandPools    *table[vkres.CommandPoolHandle, vk.CommandPool]
	commandBuffers  *table[vkres.CommandBufferHandle, vk.CommandBuffer]
	semaphores      *table[vkres.SemaphoreHandle, vk.Semaphore]
	fences          *table[vkres.FenceHandle, vk.Fence]

	deviceQueues *owners[vkres.DeviceHandle, vkres.QueueHandle]
	devicePools  *owners[vkres.DeviceHandle, vkres.CommandPoolHandle]
	poolBuffers  *owners[vkres.CommandPoolHandle, vkres.CommandBufferHandle]
}

var _ vkres.Driver = (*Driver)(nil)

func NewDriver() *Driver {
	d := &Driver{}
	d.instances = newTable[vkres.InstanceHandle, vk.Instance](&d.ids)
	d.physicalDevices = newTable[vkres.PhysicalDeviceHandle, vk.PhysicalDevice](&d.ids)
	d.devices = newTable[vkres.DeviceHandle, vk.Device](&d.ids)
	d.surfaces = newTable[vkres.SurfaceHandle, vk.Surface](&d.ids)
	d.queues = newTable[vkres.QueueHandle, vk.Queue](&d.ids)
	d.commandPools = newTable[vkres.CommandPoolHandle, vk.CommandPool](&d.ids)
	d.commandBuffers = newTable[vkres.CommandBufferHandle, vk.CommandBuffer](&d.ids)
	d.semaphores = newTable[vkres.SemaphoreHandle, vk.Semaphore](&d.ids)
	d.fences = newTable[vkres.FenceHandle, vk.Fence](&d.ids)
	d.deviceQueues = newOwners[vkres.DeviceHandle, vkres.QueueHandle]()
	d.devicePools = newOwners[vkres.DeviceHandle, vkres.CommandPoolHandle]()
	d.poolBuffers = newOwners[vkres.CommandPoolHandle, vkres.CommandBufferHandle]()
	return d
}

// Live returns the number of native objects currently registered with the
// driver. Useful for spotting leaks.
func (d *Driver) Live() int {
	return d.instances.len() + d.physicalDevices.len() + d.devices.len() +
		d.surfaces.len() + d.queues.len() + d.commandPools.len() +
		d.commandBuffers.len() + d.semaphores.len() + d.fences.len()
}

func (d *Driver) DestroyDevice(device vkres.DeviceHandle) {
	dev, ok := d.devices.remove(device)
	if !ok {
		vkres.Logger().Warn("destroy of unknown device", zap.Stringer("handle", device))
		return
	}
	d.queues.removeAll(d.deviceQueues.take(device))
	// Pools still alive here are destroyed with the device.
	for _, pool := range d.devicePools.take(device) {
		d.commandPools.remove(pool)
		d.commandBuffers.removeAll(d.poolBuffers.take(pool))
	}
	vk.DestroyDevice(dev, nil)
}

func (d *Driver) DeviceWaitIdle(device vkres.DeviceHandle) vkres.Result {
	dev, ok := d.devices.get(device)
	if !ok {
		return unknownHandle
	}
	return vkres.Result(vk.DeviceWaitIdle(dev))
}

func (d *Driver) GetPhysicalDeviceQueueFamilyProperties(physicalDevice vkres.PhysicalDeviceHandle) ([]vkres.QueueFamilyProperties, vkres.Result) {
	pd, ok := d.physicalDevices.get(physicalDevice)
	if !ok {
		return nil, unknownHandle
	}

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	if count == 0 {
		return nil, vkres.Success
	}

	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)

	ret := make([]vkres.QueueFamilyProperties, count)
	for i := range props {
		props[i].Deref()
		props[i].MinImageTransferGranularity.Deref()
		ret[i] = vkres.QueueFamilyProperties{
			QueueFlags:         vkres.QueueFlags(props[i].QueueFlags),
			QueueCount:         props[i].QueueCount,
			TimestampValidBits: props[i].TimestampValidBits,
			MinImageTransferGranularity: [3]uint32{
				props[i].MinImageTransferGranularity.Width,
				props[i].MinImageTransferGranularity.Height,
				props[i].MinImageTransferGranularity.Depth,
			},
		}
	}
	return ret, vkres.Success
}

func (d *Driver) GetPhysicalDeviceSurfaceSupport(physicalDevice vkres.PhysicalDeviceHandle, queueFamilyIndex uint32, surface vkres.SurfaceHandle) (bool, vkres.Result) {
	pd, ok := d.physicalDevices.get(physicalDevice)
	if !ok {
		return false, unknownHandle
	}
	s, ok := d.surfaces.get(surface)
	if !ok {
		return false, unknownHandle
	}
	var supported vk.Bool32
	ret := vk.GetPhysicalDeviceSurfaceSupport(pd, queueFamilyIndex, s, &supported)
	return supported == vk.True, vkres.Result(ret)
}

func (d *Driver) GetDeviceQueue(device vkres.DeviceHandle, queueFamilyIndex, queueIndex uint32) vkres.QueueHandle {
	dev, ok := d.devices.get(device)
	if !ok {
		return 0
	}
	var q vk.Queue
	vk.GetDeviceQueue(dev, queueFamilyIndex, queueIndex, &q)
	if q == nil {
		return 0
	}
	h := d.queues.put(q)
	d.deviceQueues.add(device, h)
	return h
}

func (d *Driver) QueueSubmit(queue vkres.QueueHandle, submits []vkres.NativeSubmitInfo, fence vkres.FenceHandle) vkres.Result {
	q, ok := d.queues.get(queue)
	if !ok {
		return unknownHandle
	}

	var f vk.Fence
	if fence != 0 {
		if f, ok = d.fences.get(fence); !ok {
			return unknownHandle
		}
	}

	infos := make([]vk.SubmitInfo, len(submits))
	for i, s := range submits {
		waits, ok := d.semaphores.getAll(s.WaitSemaphores)
		if !ok {
			return unknownHandle
		}
		signals, ok := d.semaphores.getAll(s.SignalSemaphores)
		if !ok {
			return unknownHandle
		}
		buffers, ok := d.commandBuffers.getAll(s.CommandBuffers)
		if !ok {
			return unknownHandle
		}
		stages := make([]vk.PipelineStageFlags, len(s.WaitDstStageMask))
		for j, st := range s.WaitDstStageMask {
			stages[j] = vk.PipelineStageFlags(st)
		}

		infos[i] = vk.SubmitInfo{
			SType:                vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount:   uint32(len(waits)),
			PWaitSemaphores:      waits,
			PWaitDstStageMask:    stages,
			CommandBufferCount:   uint32(len(buffers)),
			PCommandBuffers:      buffers,
			SignalSemaphoreCount: uint32(len(signals)),
			PSignalSemaphores:    signals,
		}
	}

	return vkres.Result(vk.QueueSubmit(q, uint32(len(infos)), infos, f))
}

func (d *Driver) QueueWaitIdle(queue vkres.QueueHandle) vkres.Result {
	q, ok := d.queues.get(queue)
	if !ok {
		return unknownHandle
	}
	return vkres.Result(vk.QueueWaitIdle(q))
}

func (d *Driver) CreateCommandPool(device vkres.DeviceHandle, info *vkres.CommandPoolCreateInfo) (vkres.CommandPoolHandle, vkres.Result) {
	dev, ok := d.devices.get(device)
	if !ok {
		return 0, unknownHandle
	}

	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(info.Flags),
		QueueFamilyIndex: info.QueueFamilyIndex,
	}

	var pool vk.CommandPool
	if ret := vk.CreateCommandPool(dev, &createInfo, nil, &pool); ret != vk.Success {
		return 0, vkres.Result(ret)
	}
	h := d.commandPools.put(pool)
	d.devicePools.add(device, h)
	return h, vkres.Success
}

func (d *Driver) DestroyCommandPool(device vkres.DeviceHandle, pool vkres.CommandPoolHandle) {
	dev, ok := d.devices.get(device)
	if !ok {
		return
	}
	p, ok := d.commandPools.remove(pool)
	if !ok {
		return
	}
	d.devicePools.drop(pool)
	// Buffers never freed individually go away with their pool.
	d.commandBuffers.removeAll(d.poolBuffers.take(pool))
	vk.DestroyCommandPool(dev, p, nil)
}

func (d *Driver) ResetCommandPool(device vkres.DeviceHandle, pool vkres.CommandPoolHandle, flags vkres.CommandPoolResetFlags) vkres.Result {
	dev, ok := d.devices.get(device)
	if !ok {
		return unknownHandle
	}
	p, ok := d.commandPools.get(pool)
	if !ok {
		return unknownHandle
	}
	return vkres.Result(vk.ResetCommandPool(dev, p, vk.CommandPoolResetFlags(flags)))
}

func (d *Driver) AllocateCommandBuffers(device vkres.DeviceHandle, info *vkres.CommandBufferAllocateInfo, buffers []vkres.CommandBufferHandle) vkres.Result {
	dev, ok := d.devices.get(device)
	if !ok {
		return unknownHandle
	}
	p, ok := d.commandPools.get(info.CommandPool)
	if !ok {
		return unknownHandle
	}

	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p,
		Level:              vk.CommandBufferLevel(info.Level),
		CommandBufferCount: info.CommandBufferCount,
	}

	cmdBuffers := make([]vk.CommandBuffer, info.CommandBufferCount)
	if ret := vk.AllocateCommandBuffers(dev, &allocInfo, cmdBuffers); ret != vk.Success {
		return vkres.Result(ret)
	}
	for i, cb := range cmdBuffers {
		buffers[i] = d.commandBuffers.put(cb)
	}
	d.poolBuffers.add(info.CommandPool, buffers...)
	return vkres.Success
}

func (d *Driver) FreeCommandBuffers(device vkres.DeviceHandle, pool vkres.CommandPoolHandle, buffers []vkres.CommandBufferHandle) {
	dev, ok := d.devices.get(device)
	if !ok {
		return
	}
	p, ok := d.commandPools.get(pool)
	if !ok {
		return
	}
	b := make([]vk.CommandBuffer, 0, len(buffers))
	for _, h := range buffers {
		if !d.poolBuffers.has(pool, h) {
			continue
		}
		if cb, ok := d.commandBuffers.remove(h); ok {
			b = append(b, cb)
		}
	}
	d.poolBuffers.drop(buffers...)
	if len(b) == 0 {
		return
	}
	vk.FreeCommandBuffers(dev, p, uint32(len(b)), b)
}

func (d *Driver) ResetCommandBuffer(buffer vkres.CommandBufferHandle, flags vkres.CommandBufferResetFlags) vkres.Result {
	cb, ok := d.commandBuffers.get(buffer)
	if !ok {
		return unknownHandle
	}
	return vkres.Result(vk.ResetCommandBuffer(cb, vk.CommandBufferResetFlags(flags)))
}

func (d *Driver) CreateSemaphore(device vkres.DeviceHandle, info *vkres.SemaphoreCreateInfo) (vkres.SemaphoreHandle, vkres.Result) {
	dev, ok := d.devices.get(device)
	if !ok {
		return 0, unknownHandle
	}

	createInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		Flags: vk.SemaphoreCreateFlags(info.Flags),
	}

	var sema vk.Semaphore
	if ret := vk.CreateSemaphore(dev, &createInfo, nil, &sema); ret != vk.Success {
		return 0, vkres.Result(ret)
	}
	return d.semaphores.put(sema), vkres.Success
}

func (d *Driver) DestroySemaphore(device vkres.DeviceHandle, semaphore vkres.SemaphoreHandle) {
	dev, ok := d.devices.get(device)
	if !ok {
		return
	}
	if s, ok := d.semaphores.remove(semaphore); ok {
		vk.DestroySemaphore(dev, s, nil)
	}
}

func (d *Driver) CreateFence(device vkres.DeviceHandle, info *vkres.FenceCreateInfo) (vkres.FenceHandle, vkres.Result) {
	dev, ok := d.devices.get(device)
	if !ok {
		return 0, unknownHandle
	}

	createInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(info.Flags),
	}

	var fence vk.Fence
	if ret := vk.CreateFence(dev, &createInfo, nil, &fence); ret != vk.Success {
		return 0, vkres.Result(ret)
	}
	return d.fences.put(fence), vkres.Success
}

func (d *Driver) DestroyFence(device vkres.DeviceHandle, fence vkres.FenceHandle) {
	dev, ok := d.devices.get(device)
	if !ok {
		return
	}
	if f, ok := d.fences.remove(fence); ok {
		vk.DestroyFence(dev, f, nil)
	}
}

func (d *Driver) GetFenceStatus(device vkres.DeviceHandle, fence vkres.FenceHandle) vkres.Result {
	dev, ok := d.devices.get(device)
	if !ok {
		return unknownHandle
	}
	f, ok := d.fences.get(fence)
	if !ok {
		return unknownHandle
	}
	return vkres.Result(vk.GetFenceStatus(dev, f))
}

func (d *Driver) ResetFences(device vkres.DeviceHandle, fences []vkres.FenceHandle) vkres.Result {
	dev, ok := d.devices.get(device)
	if !ok {
		return unknownHandle
	}
	f, ok := d.fences.getAll(fences)
	if !ok {
		return unknownHandle
	}
	return vkres.Result(vk.ResetFences(dev, uint32(len(f)), f))
}

func (d *Driver) WaitForFences(device vkres.DeviceHandle, fences []vkres.FenceHandle, waitAll bool, timeout time.Duration) vkres.Result {
	dev, ok := d.devices.get(device)
	if !ok {
		return unknownHandle
	}
	f, ok := d.fences.getAll(fences)
	if !ok {
		return unknownHandle
	}

	var wait vk.Bool32
	if waitAll {
		wait = vk.True
	} else {
		wait = vk.False
	}

	return vkres.Result(vk.WaitForFences(dev, uint32(len(f)), f, wait, timeoutNanos(timeout)))
}

// timeoutNanos converts a wait timeout to the native nanosecond count.
// Negative durations poll instead of wrapping to a near infinite wait.
func timeoutNanos(timeout time.Duration) uint64 {
	if timeout < 0 {
		return 0
	}
	return uint64(timeout.Nanoseconds())
}
