package vkres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCheck(t *testing.T) {
	if err := check("noop", Success); err != nil {
		t.Errorf("Success produced %v", err)
	}

	err := check("create thing", ErrorOutOfDeviceMemory)
	if err == nil {
		t.Fatal("error code produced no error")
	}
	if !strings.Contains(err.Error(), "create thing") || !strings.Contains(err.Error(), "VK_ERROR_OUT_OF_DEVICE_MEMORY") {
		t.Errorf("message %q", err)
	}

	wrapped := errors.Wrap(err, "outer")
	r, ok := ResultOf(wrapped)
	if !ok || r != ErrorOutOfDeviceMemory {
		t.Errorf("ResultOf(wrapped) = %s %v", r, ok)
	}
	if _, ok := ResultOf(errors.New("plain")); ok {
		t.Error("plain error carries a result")
	}

	if !strings.Contains(fmt.Sprintf("%+v", err), "TestCheck") {
		t.Error("error has no stack trace")
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
		err  bool
	}{
		{Success, "VK_SUCCESS", false},
		{Timeout, "VK_TIMEOUT", false},
		{ErrorDeviceLost, "VK_ERROR_DEVICE_LOST", true},
		{ErrorOutOfDate, "VK_ERROR_OUT_OF_DATE_KHR", true},
		{Result(-424242), "VkResult(-424242)", true},
	}
	for _, tt := range tests {
		if tt.r.String() != tt.want || tt.r.IsError() != tt.err {
			t.Errorf("%d: %s %v", int32(tt.r), tt.r, tt.r.IsError())
		}
	}
}

func TestHandles(t *testing.T) {
	dev, _ := newTestDevice()
	defer dev.Release()
	a, _ := NewSemaphore(dev)
	b, _ := NewSemaphore(dev)
	defer a.Release()
	defer b.Release()

	hs := Handles[SemaphoreHandle](a, b)
	if len(hs) != 2 || hs[0] != a.Handle() || hs[1] != b.Handle() {
		t.Errorf("handles %v", hs)
	}
	if got := Handles[SemaphoreHandle](hs...); got[1] != hs[1] {
		t.Error("handle types do not return themselves")
	}
	if s := SemaphoreHandle(0x2a).String(); s != "VkSemaphore(0x2a)" {
		t.Errorf("String() = %s", s)
	}
}

func TestQueueFlags(t *testing.T) {
	f := QueueGraphics | QueueCompute
	if !f.Contains(QueueGraphics) || !f.Contains(0) || f.Contains(QueueGraphics|QueueTransfer) {
		t.Error("Contains")
	}
	if f.String() != "graphics|compute" || QueueFlags(0).String() != "none" {
		t.Errorf("String() = %s", f)
	}
}
