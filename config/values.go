package config

import (
	"context"
	"fmt"

	"github.com/darkhz/bluezero/api/eddystone"
	"github.com/darkhz/bluezero/api/errorkinds"
	"github.com/darkhz/bluezero/bluez"
)

// AdapterFinder looks up a Bluez adapter.
// It is implemented by *bluez.Conn.
type AdapterFinder interface {
	FindAdapter(ctx context.Context, pattern string) (bluez.Interface, error)
}

// Values describes the possible configuration values that a user can
// modify and supply to the application.
type Values struct {
	Adapter   string `koanf:"adapter"`
	FrameType int    `koanf:"frame-type"`
	TxPower   int    `koanf:"tx-power"`
	Strict    bool   `koanf:"strict"`
	Verbose   bool   `koanf:"verbose"`

	FrameTypeByte   byte
	TxPowerByte     byte
	SelectedAdapter bluez.Interface
}

// defaultValues returns the values used when neither the configuration
// file nor the command-line flags set them.
func defaultValues() map[string]any {
	return map[string]any{
		"adapter":    "",
		"frame-type": eddystone.FrameTypeURL,
		"tx-power":   0xFF,
		"strict":     false,
		"verbose":    false,
	}
}

// validateValues validates all configuration values.
func (v *Values) validateValues() error {
	for _, validate := range []func() error{
		v.validateFrameType,
		v.validateTxPower,
	} {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

// validateSessionValues validates all configuration values that require a Bluez connection.
func (v *Values) validateSessionValues(finder AdapterFinder) error {
	for _, validate := range []func(AdapterFinder) error{
		v.validateAdapter,
	} {
		if err := validate(finder); err != nil {
			return err
		}
	}

	return nil
}

// validateAdapter validates if the adapter specified by the user exists in the system.
func (v *Values) validateAdapter(finder AdapterFinder) error {
	adapter, err := finder.FindAdapter(context.Background(), v.Adapter)
	if err != nil {
		if v.Adapter == "" {
			return fmt.Errorf("no adapters were found: %w", err)
		}

		return fmt.Errorf("%s: the adapter does not exist: %w", v.Adapter, err)
	}

	v.SelectedAdapter = adapter

	return nil
}

// validateFrameType validates the frame type byte of the Eddystone frame.
func (v *Values) validateFrameType() error {
	if v.FrameType < 0 || v.FrameType > 0xFF {
		return fmt.Errorf("%w: frame-type %d is not a byte value (0-255)", errorkinds.ErrInvalidConfig, v.FrameType)
	}

	v.FrameTypeByte = byte(v.FrameType)

	return nil
}

// validateTxPower validates the calibrated tx power of the Eddystone frame.
// Negative values are stored in two's complement, so both -1 and 255 result in 0xFF.
func (v *Values) validateTxPower() error {
	if v.TxPower < -128 || v.TxPower > 0xFF {
		return fmt.Errorf("%w: tx-power %d is not a signed or unsigned byte value", errorkinds.ErrInvalidConfig, v.TxPower)
	}

	v.TxPowerByte = byte(v.TxPower)

	return nil
}
