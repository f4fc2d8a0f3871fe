package vkres

import (
	"sync"
	"time"
)

// fakeDriver is a test double for Driver. Handles are handed out from a
// counter, create/destroy calls are counted, and every entry point's
// result can be overridden.
type fakeDriver struct {
	mu   sync.Mutex
	next uint64

	families []QueueFamilyProperties
	present  map[uint32]bool

	familiesResult Result
	presentResult  Result
	createResult   Result
	allocResult    Result
	submitResult   Result
	fenceStatus    Result
	waitResult     Result

	// nullAt makes AllocateCommandBuffers leave the given slot null.
	nullAt int

	poolInfos       map[CommandPoolHandle]CommandPoolCreateInfo
	livePools       map[CommandPoolHandle]bool
	liveBuffers     map[CommandBufferHandle]CommandPoolHandle
	liveSemaphores  map[SemaphoreHandle]bool
	liveFences      map[FenceHandle]bool
	destroyedPools  []CommandPoolHandle
	destroyedSemas  []SemaphoreHandle
	destroyedFences []FenceHandle
	destroyedDevice []DeviceHandle

	allocCalls    int
	freeCalls     int
	presentCalls  int
	submits       [][]NativeSubmitInfo
	submitFences  []FenceHandle
	resetPools    int
	resetBuffers  int
	resetFences   int
	waitIdles     int
	queueRequests int
}

var _ Driver = (*fakeDriver)(nil)

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		nullAt:         -1,
		present:        make(map[uint32]bool),
		poolInfos:      make(map[CommandPoolHandle]CommandPoolCreateInfo),
		livePools:      make(map[CommandPoolHandle]bool),
		liveBuffers:    make(map[CommandBufferHandle]CommandPoolHandle),
		liveSemaphores: make(map[SemaphoreHandle]bool),
		liveFences:     make(map[FenceHandle]bool),
	}
}

func (f *fakeDriver) id() uint64 {
	f.next++
	return f.next
}

func (f *fakeDriver) DestroyDevice(device DeviceHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyedDevice = append(f.destroyedDevice, device)
}

func (f *fakeDriver) DeviceWaitIdle(device DeviceHandle) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waitIdles++
	return f.waitResult
}

func (f *fakeDriver) GetPhysicalDeviceQueueFamilyProperties(PhysicalDeviceHandle) ([]QueueFamilyProperties, Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.familiesResult != Success {
		return nil, f.familiesResult
	}
	return append([]QueueFamilyProperties(nil), f.families...), Success
}

func (f *fakeDriver) GetPhysicalDeviceSurfaceSupport(_ PhysicalDeviceHandle, idx uint32, _ SurfaceHandle) (bool, Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presentCalls++
	if f.presentResult != Success {
		return false, f.presentResult
	}
	return f.present[idx], Success
}

func (f *fakeDriver) GetDeviceQueue(device DeviceHandle, family, index uint32) QueueHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queueRequests++
	if int(family) >= len(f.families) || index >= f.families[family].QueueCount {
		return 0
	}
	return QueueHandle(0x1000 + family*0x10 + index)
}

func (f *fakeDriver) QueueSubmit(_ QueueHandle, submits []NativeSubmitInfo, fence FenceHandle) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, submits)
	f.submitFences = append(f.submitFences, fence)
	return f.submitResult
}

func (f *fakeDriver) QueueWaitIdle(QueueHandle) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waitIdles++
	return f.waitResult
}

func (f *fakeDriver) CreateCommandPool(_ DeviceHandle, info *CommandPoolCreateInfo) (CommandPoolHandle, Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createResult != Success {
		return 0, f.createResult
	}
	h := CommandPoolHandle(f.id())
	f.poolInfos[h] = *info
	f.livePools[h] = true
	return h, Success
}

func (f *fakeDriver) DestroyCommandPool(_ DeviceHandle, pool CommandPoolHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.livePools, pool)
	f.destroyedPools = append(f.destroyedPools, pool)
}

func (f *fakeDriver) ResetCommandPool(DeviceHandle, CommandPoolHandle, CommandPoolResetFlags) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetPools++
	return Success
}

func (f *fakeDriver) AllocateCommandBuffers(_ DeviceHandle, info *CommandBufferAllocateInfo, buffers []CommandBufferHandle) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allocCalls++
	if f.allocResult != Success {
		return f.allocResult
	}
	for i := range buffers {
		if i == f.nullAt {
			continue
		}
		h := CommandBufferHandle(f.id())
		buffers[i] = h
		f.liveBuffers[h] = info.CommandPool
	}
	return Success
}

func (f *fakeDriver) FreeCommandBuffers(_ DeviceHandle, _ CommandPoolHandle, buffers []CommandBufferHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freeCalls++
	for _, b := range buffers {
		delete(f.liveBuffers, b)
	}
}

func (f *fakeDriver) ResetCommandBuffer(CommandBufferHandle, CommandBufferResetFlags) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetBuffers++
	return Success
}

func (f *fakeDriver) CreateSemaphore(DeviceHandle, *SemaphoreCreateInfo) (SemaphoreHandle, Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createResult != Success {
		return 0, f.createResult
	}
	h := SemaphoreHandle(f.id())
	f.liveSemaphores[h] = true
	return h, Success
}

func (f *fakeDriver) DestroySemaphore(_ DeviceHandle, s SemaphoreHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.liveSemaphores, s)
	f.destroyedSemas = append(f.destroyedSemas, s)
}

func (f *fakeDriver) CreateFence(DeviceHandle, *FenceCreateInfo) (FenceHandle, Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createResult != Success {
		return 0, f.createResult
	}
	h := FenceHandle(f.id())
	f.liveFences[h] = true
	return h, Success
}

func (f *fakeDriver) DestroyFence(_ DeviceHandle, fence FenceHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.liveFences, fence)
	f.destroyedFences = append(f.destroyedFences, fence)
}

func (f *fakeDriver) GetFenceStatus(DeviceHandle, FenceHandle) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fenceStatus
}

func (f *fakeDriver) ResetFences(DeviceHandle, []FenceHandle) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetFences++
	return Success
}

func (f *fakeDriver) WaitForFences(DeviceHandle, []FenceHandle, bool, time.Duration) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waitResult
}

func (f *fakeDriver) poolDestroyCount(h CommandPoolHandle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.destroyedPools {
		if p == h {
			n++
		}
	}
	return n
}

func (f *fakeDriver) semaphoreDestroyCount(h SemaphoreHandle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.destroyedSemas {
		if s == h {
			n++
		}
	}
	return n
}

func (f *fakeDriver) deviceDestroyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.destroyedDevice)
}

// newTestDevice returns a device backed by a fresh fakeDriver.
func newTestDevice() (*Device, *fakeDriver) {
	drv := newFakeDriver()
	pd := NewPhysicalDevice(drv, 1, "fake gpu")
	return NewDevice(drv, pd, 2), drv
}
