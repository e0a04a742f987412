package bluez

import "github.com/godbus/dbus/v5"

// The DBus specific bus and interface names.
const (
	ObjectManagerIface     = "org.freedesktop.DBus.ObjectManager"
	GetManagedObjectsIface = ObjectManagerIface + ".GetManagedObjects"
	PropertiesIface        = "org.freedesktop.DBus.Properties"
	GetPropertyIface       = PropertiesIface + ".Get"

	BusName      = "org.bluez"
	AdapterIface = "org.bluez.Adapter1"
	DeviceIface  = "org.bluez.Device1"

	GattManagerIface        = "org.bluez.GattManager1"
	GattServiceIface        = "org.bluez.GattService1"
	GattCharacteristicIface = "org.bluez.GattCharacteristic1"
	GattDescriptorIface     = "org.bluez.GattDescriptor1"

	LEAdvertisingManagerIface = "org.bluez.LEAdvertisingManager1"
)

// The well-known Bluez object paths.
const (
	RootPath           = dbus.ObjectPath("/")
	DefaultAdapterPath = dbus.ObjectPath("/org/bluez/hci0")
)
