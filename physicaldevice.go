package vkres

// PhysicalDevice identifies one piece of hardware reported by the driver.
// Physical devices are owned by their instance and never destroyed here.
type PhysicalDevice struct {
	DeviceName string

	driver Driver
	handle PhysicalDeviceHandle
}

func NewPhysicalDevice(driver Driver, handle PhysicalDeviceHandle, name string) *PhysicalDevice {
	return &PhysicalDevice{DeviceName: name, driver: driver, handle: handle}
}

func (p *PhysicalDevice) Handle() PhysicalDeviceHandle {
	return p.handle
}

func (p *PhysicalDevice) Driver() Driver {
	return p.driver
}

// QueueFamilyProperties returns the properties of every queue family, in
// family index order.
func (p *PhysicalDevice) QueueFamilyProperties() ([]QueueFamilyProperties, error) {
	props, ret := p.driver.GetPhysicalDeviceQueueFamilyProperties(p.handle)
	if err := check("get queue family properties", ret); err != nil {
		return nil, err
	}
	return props, nil
}

// SurfaceSupport reports whether the queue family can present to surface.
func (p *PhysicalDevice) SurfaceSupport(queueFamilyIndex uint32, surface SurfaceHandle) (bool, error) {
	supported, ret := p.driver.GetPhysicalDeviceSurfaceSupport(p.handle, queueFamilyIndex, surface)
	if err := check("get surface support", ret); err != nil {
		return false, err
	}
	return supported, nil
}

// QueueFamilyList returns every queue family of the device.
func (p *PhysicalDevice) QueueFamilyList() (QueueFamilySlice, error) {
	props, err := p.QueueFamilyProperties()
	if err != nil {
		return nil, err
	}
	ret := make(QueueFamilySlice, len(props))
	for i, prop := range props {
		ret[i] = &QueueFamily{Index: uint32(i), PhysicalDevice: p, Properties: prop}
	}
	return ret, nil
}

func (p *PhysicalDevice) String() string {
	if p == nil {
		return "<nil>"
	}
	return p.DeviceName
}
