package vkres

import (
	"fmt"

	"go.uber.org/zap"
)

// QueueFamilyIndices is the result of a QueueFamilies scan.
type QueueFamilyIndices struct {
	physicalDevice *PhysicalDevice
	flags          QueueFlags

	flagIdxs         []uint32
	presentationIdxs []uint32
}

// QueueFamilies scans the queue families of physicalDevice in index order,
// collecting the families whose flags contain flags and the families able to
// present to surface. Both require a non-zero queue count.
//
// The scan stops at the first family matching flags. Presentation support is
// only recorded for the families visited up to that point, so
// PresentationIndices is not a full list of presentation capable families.
func QueueFamilies(surface SurfaceHandle, physicalDevice *PhysicalDevice, flags QueueFlags) (*QueueFamilyIndices, error) {
	indices := &QueueFamilyIndices{
		physicalDevice: physicalDevice,
		flags:          flags,
	}

	props, err := physicalDevice.QueueFamilyProperties()
	if err != nil {
		return nil, err
	}

	for i, family := range props {
		idx := uint32(i)
		if family.QueueCount > 0 && family.QueueFlags.Contains(flags) {
			indices.flagIdxs = append(indices.flagIdxs, idx)
		}

		present, err := physicalDevice.SurfaceSupport(idx, surface)
		if err != nil {
			return nil, err
		}
		if family.QueueCount > 0 && present {
			indices.presentationIdxs = append(indices.presentationIdxs, idx)
		}

		if indices.IsComplete() {
			break
		}
	}

	Logger().Debug("queue family scan",
		zap.Stringer("physical_device", physicalDevice),
		zap.Stringer("flags", flags),
		zap.Uint32s("flag_indices", indices.flagIdxs),
		zap.Uint32s("presentation_indices", indices.presentationIdxs))

	return indices, nil
}

// IsComplete reports whether a family supporting the requested flags was found.
func (q *QueueFamilyIndices) IsComplete() bool {
	return len(q.flagIdxs) > 0
}

// FamilyIndices returns the indices of families supporting the requested flags.
func (q *QueueFamilyIndices) FamilyIndices() []uint32 {
	return append([]uint32(nil), q.flagIdxs...)
}

// PresentationIndices returns the indices of visited families which can
// present to the scanned surface.
func (q *QueueFamilyIndices) PresentationIndices() []uint32 {
	return append([]uint32(nil), q.presentationIdxs...)
}

func (q *QueueFamilyIndices) Flags() QueueFlags {
	return q.flags
}

func (q *QueueFamilyIndices) PhysicalDevice() *PhysicalDevice {
	return q.physicalDevice
}

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make(QueueFamilySlice, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

// FilterFlags keeps the families with at least one queue supporting flags.
func (ql QueueFamilySlice) FilterFlags(flags QueueFlags) QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.Properties.QueueCount > 0 && q.Properties.QueueFlags.Contains(flags)
	})
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.FilterFlags(QueueGraphics)
}

func (ql QueueFamilySlice) FilterCompute() QueueFamilySlice {
	return ql.FilterFlags(QueueCompute)
}

func (ql QueueFamilySlice) FilterTransfer() QueueFamilySlice {
	return ql.FilterFlags(QueueTransfer)
}

// FilterPresent keeps the families able to present to surface. A family
// whose support query fails is treated as unable to present and the error
// is discarded; use PresentFamilies to see it.
func (ql QueueFamilySlice) FilterPresent(surface SurfaceHandle) QueueFamilySlice {
	ret, _ := ql.filterPresent(surface, false)
	return ret
}

// PresentFamilies keeps the families able to present to surface, stopping
// at the first failed support query.
func (ql QueueFamilySlice) PresentFamilies(surface SurfaceHandle) (QueueFamilySlice, error) {
	return ql.filterPresent(surface, true)
}

func (ql QueueFamilySlice) filterPresent(surface SurfaceHandle, stopOnError bool) (QueueFamilySlice, error) {
	ret := make(QueueFamilySlice, 0)
	for _, q := range ql {
		ok, err := q.SupportsPresent(surface)
		if err != nil {
			if stopOnError {
				return nil, err
			}
			continue
		}
		if ok {
			ret = append(ret, q)
		}
	}
	return ret, nil
}

// Indices returns the family index of each element.
func (ql QueueFamilySlice) Indices() []uint32 {
	ret := make([]uint32, len(ql))
	for i, q := range ql {
		ret[i] = q.Index
	}
	return ret
}

type QueueFamily struct {
	Index          uint32
	PhysicalDevice *PhysicalDevice
	Properties     QueueFamilyProperties
}

func (q *QueueFamily) IsGraphics() bool {
	return q.Properties.QueueFlags.Contains(QueueGraphics)
}

func (q *QueueFamily) IsCompute() bool {
	return q.Properties.QueueFlags.Contains(QueueCompute)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.Properties.QueueFlags.Contains(QueueTransfer)
}

func (q *QueueFamily) SupportsPresent(surface SurfaceHandle) (bool, error) {
	return q.PhysicalDevice.SurfaceSupport(q.Index, surface)
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Queues: %d Compute: %v Graphics: %v Transfer: %v }",
		q.Index, q.Properties.QueueCount, q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}
