// Package vulkan implements vkres.Driver with github.com/vulkan-go/vulkan.
//
// Native handles never leave this package: every object the driver creates
// is registered in a handle table and handed out as an opaque vkres handle.
// The package also bootstraps Vulkan, creating the instance, enumerating
// physical devices and creating logical devices.
//
// Vulkan must be initialized with Init or InitWithProcAddr before use.
package vulkan
