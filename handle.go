package vkres

import "fmt"

// Handler is implemented by every handle type and every object wrapper in
// this package. Handle types return themselves, wrappers return the native
// handle they own.
type Handler[H any] interface {
	Handle() H
}

// Handles collects the native handles of objs in order.
func Handles[H any, T Handler[H]](objs ...T) []H {
	ret := make([]H, len(objs))
	for i, o := range objs {
		ret[i] = o.Handle()
	}
	return ret
}

// Native handles are opaque to this package and only meaningful to the
// Driver which produced them. Zero is the null handle for every kind.
type (
	InstanceHandle       uint64
	PhysicalDeviceHandle uint64
	DeviceHandle         uint64
	SurfaceHandle        uint64
	QueueHandle          uint64
	CommandPoolHandle    uint64
	CommandBufferHandle  uint64
	SemaphoreHandle      uint64
	FenceHandle          uint64
)

func (h InstanceHandle) Handle() InstanceHandle             { return h }
func (h PhysicalDeviceHandle) Handle() PhysicalDeviceHandle { return h }
func (h DeviceHandle) Handle() DeviceHandle                 { return h }
func (h SurfaceHandle) Handle() SurfaceHandle               { return h }
func (h QueueHandle) Handle() QueueHandle                   { return h }
func (h CommandPoolHandle) Handle() CommandPoolHandle       { return h }
func (h CommandBufferHandle) Handle() CommandBufferHandle   { return h }
func (h SemaphoreHandle) Handle() SemaphoreHandle           { return h }
func (h FenceHandle) Handle() FenceHandle                   { return h }

func (h InstanceHandle) String() string       { return fmt.Sprintf("VkInstance(%#x)", uint64(h)) }
func (h PhysicalDeviceHandle) String() string { return fmt.Sprintf("VkPhysicalDevice(%#x)", uint64(h)) }
func (h DeviceHandle) String() string         { return fmt.Sprintf("VkDevice(%#x)", uint64(h)) }
func (h SurfaceHandle) String() string        { return fmt.Sprintf("VkSurfaceKHR(%#x)", uint64(h)) }
func (h QueueHandle) String() string          { return fmt.Sprintf("VkQueue(%#x)", uint64(h)) }
func (h CommandPoolHandle) String() string    { return fmt.Sprintf("VkCommandPool(%#x)", uint64(h)) }
func (h CommandBufferHandle) String() string  { return fmt.Sprintf("VkCommandBuffer(%#x)", uint64(h)) }
func (h SemaphoreHandle) String() string      { return fmt.Sprintf("VkSemaphore(%#x)", uint64(h)) }
func (h FenceHandle) String() string          { return fmt.Sprintf("VkFence(%#x)", uint64(h)) }
