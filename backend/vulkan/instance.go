package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/celer/vkres"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"go.uber.org/zap"
)

// Init loads the system Vulkan loader. Use InitWithProcAddr instead when a
// windowing library (glfw) provides vkGetInstanceProcAddr.
func Init() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(err, "set default vkGetInstanceProcAddr")
	}
	return errors.Wrap(vk.Init(), "vulkan init")
}

// InitWithProcAddr initializes Vulkan through the given vkGetInstanceProcAddr.
func InitWithProcAddr(procAddr unsafe.Pointer) error {
	vk.SetGetInstanceProcAddr(procAddr)
	return errors.Wrap(vk.Init(), "vulkan init")
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// EngineName the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	EnabledLayers     []string
	EnabledExtensions []string
}

// EnableValidation enables the Khronos validation layer if it is installed.
func (a *App) EnableValidation() error {
	return a.EnableLayer("VK_LAYER_KHRONOS_validation")
}

// EnableLayer enables layer, failing if the loader does not know it.
func (a *App) EnableLayer(layer string) error {
	layers, err := SupportedLayers()
	if err != nil {
		return errors.Wrap(err, "get supported layers")
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return nil
		}
	}
	return errors.Errorf("layer '%s' not found", layer)
}

// EnableExtension enables an instance extension.
func (a *App) EnableExtension(extension string) *App {
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

func (a *App) applicationInfo() vk.ApplicationInfo {
	apiVersion := a.APIVersion
	if apiVersion.Major < 1 {
		apiVersion = Version{Major: 1}
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         apiVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// SupportedLayers lists the instance layers known to the loader.
func SupportedLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions lists the instance extensions known to the loader.
func SupportedExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// Instance is an instance of the Vulkan subsystem.
type Instance struct {
	driver *Driver
	handle vkres.InstanceHandle
	vk     vk.Instance
}

// CreateInstance creates a Vulkan instance for app and loads its entry points.
func (d *Driver) CreateInstance(app *App) (*Instance, error) {
	appInfo := app.applicationInfo()
	extensions := safeStrings(app.EnabledExtensions)
	layers := safeStrings(app.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if ret := vk.CreateInstance(&createInfo, nil, &instance); ret != vk.Success {
		return nil, errors.Wrap(vk.Error(ret), "create instance")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "init instance")
	}

	h := d.instances.put(instance)
	vkres.Logger().Debug("create instance", zap.Stringer("handle", h), zap.String("app", app.Name))
	return &Instance{driver: d, handle: h, vk: instance}, nil
}

func (i *Instance) Handle() vkres.InstanceHandle {
	return i.handle
}

// VK returns the native instance, for handing to windowing libraries.
func (i *Instance) VK() vk.Instance {
	return i.vk
}

// PhysicalDevices returns every physical device of the instance.
func (i *Instance) PhysicalDevices() ([]*vkres.PhysicalDevice, error) {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(i.vk, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}
	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(i.vk, &count, devices)); err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	ret := make([]*vkres.PhysicalDevice, count)
	for j, device := range devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(device, &props)
		props.Deref()
		name := vk.ToString(props.DeviceName[:])
		ret[j] = vkres.NewPhysicalDevice(i.driver, i.driver.physicalDevices.put(device), name)
	}
	return ret, nil
}

// RegisterSurface takes ownership of a surface created for this instance by
// a windowing library, e.g. glfw's Window.CreateWindowSurface.
func (i *Instance) RegisterSurface(surface uintptr) vkres.SurfaceHandle {
	return i.driver.surfaces.put(vk.SurfaceFromPointer(surface))
}

func (i *Instance) DestroySurface(surface vkres.SurfaceHandle) {
	if s, ok := i.driver.surfaces.remove(surface); ok {
		vk.DestroySurface(i.vk, s, nil)
	}
}

// Destroy destroys the instance. Devices and surfaces created from it must
// already be destroyed.
func (i *Instance) Destroy() {
	if _, ok := i.driver.instances.remove(i.handle); !ok {
		return
	}
	vkres.Logger().Debug("destroy instance", zap.Stringer("handle", i.handle))
	vk.DestroyInstance(i.vk, nil)
}

func (i *Instance) String() string {
	return fmt.Sprintf("{ Handle: %s }", i.handle)
}
