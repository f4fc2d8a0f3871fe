/*
Package vkres pairs Vulkan objects with the device that owns them and
destroys them deterministically. Vulkan leaves object lifetime entirely to
the application: every object must be destroyed exactly once, through the
device it was created from, and never while something still uses it. This
package takes care of the first two rules and makes the third easier to get
right.

Overview

Objects are shared references. A constructor returns one owner, Clone adds
another, and Release drops one. The native object is destroyed when the last
owner is released, and each object holds its own owner of the device it was
created from, so the device is destroyed last.

	device (Device)
	  command pool (CommandPool)   holds a device owner
	    command buffer (CommandBuffer)  holds a pool owner
	  semaphore (Semaphore)        holds a device owner
	  fence (Fence)                holds a device owner
	  queue (Queue)                holds a device owner, never destroyed

Releasing the same value twice is harmless; using a value after releasing it
panics. Reference counts are safe to share between goroutines, the native
objects themselves still follow Vulkan's external synchronization rules.

Vulkan does not allow a pool to be destroyed while buffers allocated from it
are pending execution. Buffers keep their pool alive, but nothing here waits
for the GPU: wait on a Fence or Queue.WaitIdle before releasing.

Native entry points

Every call into Vulkan goes through a Driver. The backend/vulkan package
implements Driver on top of github.com/vulkan-go/vulkan and also creates the
instance, physical devices and logical device the objects here are built
from. Any native status other than VK_SUCCESS is returned as a *ResultError;
ResultOf recovers the code.

Queue families

QueueFamilies scans a physical device for a queue family supporting a set of
capabilities and records which of the visited families can present to a
surface. The scan stops at the first matching family.
*/
package vkres
