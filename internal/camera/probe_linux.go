//go:build linux

package camera

import (
	"bytes"
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// VIDIOC_QUERYCAP is _IOR('V', 0, struct v4l2_capability).
const vidiocQuerycap = 0x80685600

const (
	v4l2CapVideoCapture = 0x00000001
	v4l2CapDeviceCaps   = 0x80000000
)

type v4l2Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

// ProbeDevice opens a V4L2 node such as /dev/video0, checks that it can
// capture video and closes it again. Errors are *CaptureError with the cause
// a browser would report for the same condition.
func ProbeDevice(path string) (DeviceInfo, error) {
	var info DeviceInfo
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return info, &CaptureError{Cause: causeFromErrno(err), Err: err}
	}
	defer unix.Close(fd)

	var c v4l2Capability
	_, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), vidiocQuerycap, uintptr(unsafe.Pointer(&c)))
	if eno != 0 {
		if eno == unix.ENOTTY || eno == unix.EINVAL {
			return info, &CaptureError{Cause: NotFound, Err: eno}
		}
		return info, &CaptureError{Cause: causeFromErrno(eno), Err: eno}
	}

	caps := c.Capabilities
	if caps&v4l2CapDeviceCaps != 0 {
		caps = c.DeviceCaps
	}
	info = DeviceInfo{
		Path:    path,
		Driver:  cString(c.Driver[:]),
		Card:    cString(c.Card[:]),
		BusInfo: cString(c.BusInfo[:]),
	}
	if caps&v4l2CapVideoCapture == 0 {
		return info, &CaptureError{Cause: Overconstrained, Err: errors.New("node has no video capture capability")}
	}
	return info, nil
}

func causeFromErrno(err error) Cause {
	switch {
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return PermissionDenied
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV), errors.Is(err, unix.ENXIO):
		return NotFound
	}
	return NotReadable
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
