package vulkan

import (
	"github.com/celer/vkres"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"go.uber.org/zap"
)

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
	// QueueCount is the number of queues requested per family, at least 1.
	QueueCount int
}

// CreateDevice creates a logical device on physicalDevice exposing queues
// from each of the given families. The returned device destroys the native
// device when its last owner is released.
func (d *Driver) CreateDevice(physicalDevice *vkres.PhysicalDevice, families []uint32, options *CreateDeviceOptions) (*vkres.Device, error) {
	pd, ok := d.physicalDevices.get(physicalDevice.Handle())
	if !ok {
		return nil, errors.Errorf("unknown physical device %s", physicalDevice.Handle())
	}

	queueCount := 1
	if options != nil && options.QueueCount > 1 {
		queueCount = options.QueueCount
	}
	priorities := make([]float32, queueCount)
	for i := range priorities {
		priorities[i] = 1.0
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	seen := make(map[uint32]bool, len(families))
	for _, f := range families {
		if seen[f] {
			continue
		}
		seen[f] = true
		queueCreateInfos = append(queueCreateInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: f,
			QueueCount:       uint32(queueCount),
			PQueuePriorities: priorities,
		})
	}

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(pd, &features)

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{features},
	}
	if options != nil {
		if len(options.EnabledExtensions) > 0 {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if len(options.EnabledLayers) > 0 {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var device vk.Device
	if ret := vk.CreateDevice(pd, &deviceCreateInfo, nil, &device); ret != vk.Success {
		return nil, errors.Wrap(vk.Error(ret), "create device")
	}

	h := d.devices.put(device)
	vkres.Logger().Debug("create device",
		zap.Stringer("handle", h),
		zap.Stringer("physical_device", physicalDevice),
		zap.Uint32s("families", families))

	return vkres.NewDevice(d, physicalDevice, h), nil
}
