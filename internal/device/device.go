// Package device exposes the display capability oracle the pipeline
// consults when choosing thumbnail-vs-full-file and whether to downscale.
package device

// Capabilities answers what the current display device can handle. On real
// hardware this may be a platform check; for tests it is a static profile.
type Capabilities interface {
	// CanDecodeHEIC reports whether the device decodes HEIC natively.
	CanDecodeHEIC() bool

	// MaxResolution returns the device's display resolution ceiling.
	// ok is false when the device has no known limit.
	MaxResolution() (width, height int, ok bool)
}

// StaticProfile is a fixed Capabilities implementation.
type StaticProfile struct {
	HEICDecode bool
	Width      int
	Height     int
}

var _ Capabilities = StaticProfile{}

func (p StaticProfile) CanDecodeHEIC() bool { return p.HEICDecode }

func (p StaticProfile) MaxResolution() (int, int, bool) {
	if p.Width <= 0 || p.Height <= 0 {
		return 0, 0, false
	}
	return p.Width, p.Height, true
}
