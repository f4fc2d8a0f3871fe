package vkres

import "strings"

// QueueFlags describes the operations supported by a queue family.
type QueueFlags uint32

const (
	QueueGraphics      QueueFlags = 0x1
	QueueCompute       QueueFlags = 0x2
	QueueTransfer      QueueFlags = 0x4
	QueueSparseBinding QueueFlags = 0x8
	QueueProtected     QueueFlags = 0x10
)

// Contains reports whether every bit of want is set in f.
func (f QueueFlags) Contains(want QueueFlags) bool {
	return f&want == want
}

func (f QueueFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, b := range []struct {
		bit  QueueFlags
		name string
	}{
		{QueueGraphics, "graphics"},
		{QueueCompute, "compute"},
		{QueueTransfer, "transfer"},
		{QueueSparseBinding, "sparse"},
		{QueueProtected, "protected"},
	} {
		if f&b.bit != 0 {
			parts = append(parts, b.name)
		}
	}
	return strings.Join(parts, "|")
}

// CommandPoolCreateFlags specify the usage behavior of a pool and the
// command buffers allocated from it.
type CommandPoolCreateFlags uint32

const (
	CommandPoolCreateTransient          CommandPoolCreateFlags = 0x1
	CommandPoolCreateResetCommandBuffer CommandPoolCreateFlags = 0x2
	CommandPoolCreateProtected          CommandPoolCreateFlags = 0x4
)

type CommandPoolResetFlags uint32

const CommandPoolResetReleaseResources CommandPoolResetFlags = 0x1

type CommandBufferResetFlags uint32

const CommandBufferResetReleaseResources CommandBufferResetFlags = 0x1

type CommandBufferLevel int32

const (
	CommandBufferLevelPrimary   CommandBufferLevel = 0
	CommandBufferLevelSecondary CommandBufferLevel = 1
)

func (l CommandBufferLevel) String() string {
	switch l {
	case CommandBufferLevelPrimary:
		return "primary"
	case CommandBufferLevelSecondary:
		return "secondary"
	}
	return "unknown"
}

type SemaphoreCreateFlags uint32

type FenceCreateFlags uint32

const FenceCreateSignaled FenceCreateFlags = 0x1

// PipelineStageFlags are used as wait stages when submitting work.
type PipelineStageFlags uint32

const (
	PipelineStageTopOfPipe             PipelineStageFlags = 0x1
	PipelineStageColorAttachmentOutput PipelineStageFlags = 0x400
	PipelineStageComputeShader         PipelineStageFlags = 0x800
	PipelineStageTransfer              PipelineStageFlags = 0x1000
	PipelineStageBottomOfPipe          PipelineStageFlags = 0x2000
	PipelineStageAllCommands           PipelineStageFlags = 0x10000
)

// CommandPoolCreateInfo mirrors VkCommandPoolCreateInfo.
type CommandPoolCreateInfo struct {
	Flags            CommandPoolCreateFlags
	QueueFamilyIndex uint32
}

// CommandBufferAllocateInfo mirrors VkCommandBufferAllocateInfo.
type CommandBufferAllocateInfo struct {
	CommandPool        CommandPoolHandle
	Level              CommandBufferLevel
	CommandBufferCount uint32
}

// SemaphoreCreateInfo mirrors VkSemaphoreCreateInfo.
type SemaphoreCreateInfo struct {
	Flags SemaphoreCreateFlags
}

// FenceCreateInfo mirrors VkFenceCreateInfo.
type FenceCreateInfo struct {
	Flags FenceCreateFlags
}

// QueueFamilyProperties mirrors the parts of VkQueueFamilyProperties used
// for queue selection.
type QueueFamilyProperties struct {
	QueueFlags                  QueueFlags
	QueueCount                  uint32
	TimestampValidBits          uint32
	MinImageTransferGranularity [3]uint32
}

// NativeSubmitInfo is the handle-level form of a queue submission batch
// handed to the Driver.
type NativeSubmitInfo struct {
	WaitSemaphores   []SemaphoreHandle
	WaitDstStageMask []PipelineStageFlags
	CommandBuffers   []CommandBufferHandle
	SignalSemaphores []SemaphoreHandle
}
