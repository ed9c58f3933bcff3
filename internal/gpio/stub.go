//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// CdevGateway is not available on non-Linux platforms.
type CdevGateway struct{}

// NewCdevGateway returns an error on non-Linux platforms.
func NewCdevGateway(chip string) (*CdevGateway, error) {
	return nil, errUnsupported
}

func (g *CdevGateway) Export(pin Pin) error                      { return errUnsupported }
func (g *CdevGateway) SetDirection(pin Pin, dir Direction) error { return errUnsupported }
func (g *CdevGateway) Value(pin Pin) (bool, error)               { return false, errUnsupported }
func (g *CdevGateway) Unexport(pin Pin) error                    { return errUnsupported }
func (g *CdevGateway) Close() error                              { return nil }

// RpioGateway is not available on non-Linux platforms.
type RpioGateway struct{}

// NewRpioGateway returns an error on non-Linux platforms.
func NewRpioGateway() (*RpioGateway, error) {
	return nil, errUnsupported
}

func (g *RpioGateway) Export(pin Pin) error                      { return errUnsupported }
func (g *RpioGateway) SetDirection(pin Pin, dir Direction) error { return errUnsupported }
func (g *RpioGateway) Value(pin Pin) (bool, error)               { return false, errUnsupported }
func (g *RpioGateway) Unexport(pin Pin) error                    { return errUnsupported }
func (g *RpioGateway) Close() error                              { return nil }
