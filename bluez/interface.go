package bluez

import (
	"context"
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/darkhz/bluezero/api/errorkinds"
)

// baseUUID is the Bluetooth base UUID, which 16-bit UUIDs are expanded into.
var baseUUID = uuid.MustParse("00000000-0000-1000-8000-00805f9b34fb")

// Interface is a proxy for a single interface of a Bluez DBus object.
type Interface struct {
	Object dbus.BusObject
	Name   string
}

// Path returns the object path of the proxy.
func (i Interface) Path() dbus.ObjectPath {
	return i.Object.Path()
}

// Call calls method on the interface.
func (i Interface) Call(ctx context.Context, method string, args ...any) *dbus.Call {
	return i.Object.CallWithContext(ctx, i.Name+"."+method, 0, args...)
}

// Property returns the value of a property of the interface.
func (i Interface) Property(ctx context.Context, name string) (dbus.Variant, error) {
	var value dbus.Variant

	if err := i.Object.CallWithContext(ctx, GetPropertyIface, 0, i.Name, name).Store(&value); err != nil {
		return dbus.Variant{}, errorkinds.GenericError{Errors: fault.Wrap(err,
			fctx.With(ctx, "error_at", "get-property", "property", i.Name+"."+name),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot get property"),
		)}
	}

	return value, nil
}

// ServiceData returns the service data dictionary of an LE advertisement,
// which carries data for the service identified by id.
func ServiceData(id uuid.UUID, data []byte) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		ServiceKey(id): dbus.MakeVariant(data),
	}
}

// ServiceKey returns the key Bluez uses for a service UUID: the 4-digit
// short form for UUIDs derived from the Bluetooth base UUID, and the
// full string form otherwise.
func ServiceKey(id uuid.UUID) string {
	if id[0] != 0 || id[1] != 0 || [12]byte(id[4:]) != [12]byte(baseUUID[4:]) {
		return id.String()
	}

	return fmt.Sprintf("%02X%02X", id[2], id[3])
}
