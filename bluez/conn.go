package bluez

import (
	"context"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/darkhz/bluezero/api/errorkinds"
)

// ObjectProvider returns proxies for remote DBus objects.
// It is implemented by *dbus.Conn.
type ObjectProvider interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Conn describes a connection to the Bluez daemon.
type Conn struct {
	bus ObjectProvider
	log *logrus.Logger
}

// AdapterInfo holds the identifying properties of an adapter.
type AdapterInfo struct {
	Path    dbus.ObjectPath
	Name    string
	Alias   string
	Address string
	Powered bool
}

// Connect opens a private connection to the system bus.
func Connect(log *logrus.Logger) (*Conn, error) {
	systemBus, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, errorkinds.GenericError{Errors: fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "connect-systembus"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot initialize system DBus"),
		)}
	}

	return NewConn(systemBus, log), nil
}

// NewConn returns a Conn which looks up objects using bus.
// If log is nil, the standard logger is used.
func NewConn(bus ObjectProvider, log *logrus.Logger) *Conn {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Conn{bus: bus, log: log}
}

// Close closes the underlying bus connection, if it can be closed.
func (c *Conn) Close() error {
	closer, ok := c.bus.(interface{ Close() error })
	if !ok {
		return nil
	}

	if err := closer.Close(); err != nil {
		return errorkinds.GenericError{Errors: fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "close-systembus"),
			ftag.With(ftag.Internal),
			fmsg.With("Error while closing system bus"),
		)}
	}

	return nil
}

// ManagedObjects returns all objects currently managed by the Bluez daemon.
func (c *Conn) ManagedObjects(ctx context.Context) (ManagedObjects, error) {
	objects := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	if err := c.bus.Object(BusName, RootPath).
		CallWithContext(ctx, GetManagedObjectsIface, 0).
		Store(&objects); err != nil {
		return nil, errorkinds.GenericError{Errors: fault.Wrap(err,
			fctx.With(ctx, "error_at", "get-managed-objects"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot get the objects managed by Bluez"),
		)}
	}

	c.log.WithField("objects", len(objects)).Debug("fetched managed objects")

	return objects, nil
}

// FindAdapter returns a proxy for the first adapter that matches pattern.
// The pattern is matched against the adapter address and the end of the
// adapter path (for example, "hci0"). An empty pattern matches any adapter.
func (c *Conn) FindAdapter(ctx context.Context, pattern string) (Interface, error) {
	objects, err := c.ManagedObjects(ctx)
	if err != nil {
		return Interface{}, err
	}

	path, err := FindAdapterInObjects(objects, pattern)
	if err != nil {
		return Interface{}, fault.Wrap(err,
			fctx.With(ctx, "error_at", "find-adapter", "pattern", pattern),
			ftag.With(ftag.NotFound),
		)
	}

	c.log.WithFields(logrus.Fields{"pattern": pattern, "path": path}).Debug("found adapter")

	return c.proxy(path, AdapterIface), nil
}

// FindDevice returns a proxy for the device with the given address.
// If adapterPattern is not empty, only the devices of the matching adapter are searched.
func (c *Conn) FindDevice(ctx context.Context, address, adapterPattern string) (Interface, error) {
	objects, err := c.ManagedObjects(ctx)
	if err != nil {
		return Interface{}, err
	}

	path, err := FindDeviceInObjects(objects, address, adapterPattern)
	if err != nil {
		return Interface{}, fault.Wrap(err,
			fctx.With(ctx,
				"error_at", "find-device",
				"address", address,
				"adapter", adapterPattern,
			),
			ftag.With(ftag.NotFound),
		)
	}

	c.log.WithFields(logrus.Fields{"address": address, "path": path}).Debug("found device")

	return c.proxy(path, DeviceIface), nil
}

// FindAdvertisingAdapter returns the path of the first object that
// implements the LE advertising manager interface.
func (c *Conn) FindAdvertisingAdapter(ctx context.Context) (dbus.ObjectPath, bool, error) {
	return c.findInterface(ctx, LEAdvertisingManagerIface)
}

// FindGattAdapter returns the path of the first object that
// implements the GATT manager interface.
func (c *Conn) FindGattAdapter(ctx context.Context) (dbus.ObjectPath, bool, error) {
	return c.findInterface(ctx, GattManagerIface)
}

// Adapters returns the properties of all adapters, sorted by path.
func (c *Conn) Adapters(ctx context.Context) ([]AdapterInfo, error) {
	objects, err := c.ManagedObjects(ctx)
	if err != nil {
		return nil, err
	}

	var adapters []AdapterInfo
	for _, path := range objects.Paths() {
		props, ok := objects[path][AdapterIface]
		if !ok {
			continue
		}

		adapters = append(adapters, AdapterInfo{
			Path:    path,
			Name:    stringProperty(props, "Name"),
			Alias:   stringProperty(props, "Alias"),
			Address: stringProperty(props, "Address"),
			Powered: boolProperty(props, "Powered"),
		})
	}

	return adapters, nil
}

// GattManager returns a GATT manager proxy for the adapter at path.
func (c *Conn) GattManager(path dbus.ObjectPath) Interface {
	return c.proxy(path, GattManagerIface)
}

// GattService returns a GATT service proxy for the object at path.
func (c *Conn) GattService(path dbus.ObjectPath) Interface {
	return c.proxy(path, GattServiceIface)
}

// GattCharacteristic returns a GATT characteristic proxy for the object at path.
func (c *Conn) GattCharacteristic(path dbus.ObjectPath) Interface {
	return c.proxy(path, GattCharacteristicIface)
}

// GattDescriptor returns a GATT descriptor proxy for the object at path.
func (c *Conn) GattDescriptor(path dbus.ObjectPath) Interface {
	return c.proxy(path, GattDescriptorIface)
}

// AdvertisingManager returns an LE advertising manager proxy for the adapter at path.
func (c *Conn) AdvertisingManager(path dbus.ObjectPath) Interface {
	return c.proxy(path, LEAdvertisingManagerIface)
}

// findInterface returns the path of the first managed object implementing iface.
func (c *Conn) findInterface(ctx context.Context, iface string) (dbus.ObjectPath, bool, error) {
	objects, err := c.ManagedObjects(ctx)
	if err != nil {
		return "", false, err
	}

	path, ok := FindInterfaceInObjects(objects, iface)
	c.log.WithFields(logrus.Fields{"interface": iface, "path": path, "found": ok}).Debug("searched interface")

	return path, ok, nil
}

// proxy returns an interface proxy for the Bluez object at path.
// An empty path refers to the default adapter.
func (c *Conn) proxy(path dbus.ObjectPath, iface string) Interface {
	if path == "" {
		path = DefaultAdapterPath
	}

	return Interface{
		Object: c.bus.Object(BusName, path),
		Name:   iface,
	}
}
