package vkres

import "time"

// Driver is the table of native entry points every object in this package
// calls into. backend/vulkan provides the implementation backed by the
// system Vulkan loader.
//
// Entry points follow the native contract: they do not validate their
// arguments, and a Driver is only as thread safe as the native API it
// forwards to (pools and queues require external synchronization).
type Driver interface {
	DestroyDevice(device DeviceHandle)
	DeviceWaitIdle(device DeviceHandle) Result

	GetPhysicalDeviceQueueFamilyProperties(physicalDevice PhysicalDeviceHandle) ([]QueueFamilyProperties, Result)
	GetPhysicalDeviceSurfaceSupport(physicalDevice PhysicalDeviceHandle, queueFamilyIndex uint32, surface SurfaceHandle) (bool, Result)

	// GetDeviceQueue returns the null handle if the device has no such queue.
	GetDeviceQueue(device DeviceHandle, queueFamilyIndex, queueIndex uint32) QueueHandle
	QueueSubmit(queue QueueHandle, submits []NativeSubmitInfo, fence FenceHandle) Result
	QueueWaitIdle(queue QueueHandle) Result

	CreateCommandPool(device DeviceHandle, info *CommandPoolCreateInfo) (CommandPoolHandle, Result)
	DestroyCommandPool(device DeviceHandle, pool CommandPoolHandle)
	ResetCommandPool(device DeviceHandle, pool CommandPoolHandle, flags CommandPoolResetFlags) Result

	// AllocateCommandBuffers fills buffers, which must have exactly
	// info.CommandBufferCount elements.
	AllocateCommandBuffers(device DeviceHandle, info *CommandBufferAllocateInfo, buffers []CommandBufferHandle) Result
	FreeCommandBuffers(device DeviceHandle, pool CommandPoolHandle, buffers []CommandBufferHandle)
	ResetCommandBuffer(buffer CommandBufferHandle, flags CommandBufferResetFlags) Result

	CreateSemaphore(device DeviceHandle, info *SemaphoreCreateInfo) (SemaphoreHandle, Result)
	DestroySemaphore(device DeviceHandle, semaphore SemaphoreHandle)

	CreateFence(device DeviceHandle, info *FenceCreateInfo) (FenceHandle, Result)
	DestroyFence(device DeviceHandle, fence FenceHandle)
	GetFenceStatus(device DeviceHandle, fence FenceHandle) Result
	ResetFences(device DeviceHandle, fences []FenceHandle) Result
	WaitForFences(device DeviceHandle, fences []FenceHandle, waitAll bool, timeout time.Duration) Result
}
