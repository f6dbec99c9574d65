package platform

import "errors"

var (
	errFrame       = errors.New("platform: spi frame must be 3 bytes")
	errNoSPI       = errors.New("platform: spi bus not available")
	errUnsupported = errors.New("platform: native hardware not supported on this build")
)
