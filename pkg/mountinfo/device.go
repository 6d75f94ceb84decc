package mountinfo

import (
	"fmt"
	"strconv"
	"strings"
)

// Device is a Linux device number. The major half identifies the driver,
// the minor half a specific device handled by it.
//
// The kernel packs both halves into one integer (major in the high 16 bits,
// minor in the low 16); mountinfo prints the pair as "major:minor". Device
// keeps the halves as separate fields and only packs on request: the only
// operations ever performed on device numbers here are equality, rendering,
// and the occasional pack/unpack, so there is nothing to gain from carrying
// the raw form around.
type Device struct {
	Major int
	Minor int
}

// NewDevice builds a Device from a major/minor pair.
//
// The minor is masked to 16 bits, mirroring the truncation the packed form
// applies. No range validation is performed: mountinfo is kernel output, and
// an out-of-range half would indicate a kernel bug rather than caller error.
func NewDevice(major, minor int) Device {
	return Device{Major: major, Minor: minor & 0xffff}
}

// DeviceFromRaw unpacks a Device from its packed integer form.
func DeviceFromRaw(raw int) Device {
	return Device{Major: raw >> 16, Minor: raw & 0xffff}
}

// Raw returns the packed integer form: major in the high 16 bits, minor in
// the low 16.
func (d Device) Raw() int {
	return d.Major<<16 | d.Minor&0xffff
}

// String renders the device in the mountinfo wire form "major:minor".
func (d Device) String() string {
	return strconv.Itoa(d.Major) + ":" + strconv.Itoa(d.Minor)
}

// ParseDevice parses a "major:minor" token into a Device.
//
// The token must split on ":" into exactly two base-10 integers. The same
// parser serves both the record parser and typed filter values, so a filter
// like ".dev=8:1" uses the exact wire syntax.
func ParseDevice(s string) (Device, error) {
	majStr, minStr, ok := strings.Cut(s, ":")
	if !ok {
		return Device{}, fmt.Errorf("device %q: expected major:minor", s)
	}
	major, err := strconv.Atoi(majStr)
	if err != nil {
		return Device{}, fmt.Errorf("device %q: bad major component", s)
	}
	minor, err := strconv.Atoi(minStr)
	if err != nil {
		return Device{}, fmt.Errorf("device %q: bad minor component", s)
	}
	return NewDevice(major, minor), nil
}
