package bluez

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/darkhz/bluezero/api/errorkinds"
)

// ManagedObjects holds the objects, interfaces and properties returned
// by the DBus object manager of the Bluez daemon.
type ManagedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Paths returns the object paths in sorted order.
func (m ManagedObjects) Paths() []dbus.ObjectPath {
	return slices.Sorted(maps.Keys(m))
}

// FindAdapterInObjects returns the path of the first adapter whose address equals
// pattern, or whose path ends with pattern. An empty pattern matches any adapter.
func FindAdapterInObjects(objects ManagedObjects, pattern string) (dbus.ObjectPath, error) {
	for _, path := range objects.Paths() {
		adapter, ok := objects[path][AdapterIface]
		if !ok {
			continue
		}

		if pattern == "" ||
			pattern == stringProperty(adapter, "Address") ||
			strings.HasSuffix(string(path), pattern) {
			return path, nil
		}
	}

	if pattern != "" {
		return "", fmt.Errorf("%w: %s", errorkinds.ErrAdapterNotFound, pattern)
	}

	return "", errorkinds.ErrAdapterNotFound
}

// FindDeviceInObjects returns the path of the device with the given address.
// If adapterPattern is not empty, only devices of the adapter it matches are searched.
func FindDeviceInObjects(objects ManagedObjects, address, adapterPattern string) (dbus.ObjectPath, error) {
	want, err := ParseAddress(address)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, address)
	}

	var prefix string
	if adapterPattern != "" {
		adapterPath, err := FindAdapterInObjects(objects, adapterPattern)
		if err != nil {
			return "", err
		}

		prefix = string(adapterPath) + "/"
	}

	for _, path := range objects.Paths() {
		device, ok := objects[path][DeviceIface]
		if !ok {
			continue
		}

		if !strings.HasPrefix(string(path), prefix) {
			continue
		}

		if got, err := ParseAddress(stringProperty(device, "Address")); err == nil && got == want {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s", errorkinds.ErrDeviceNotFound, address)
}

// FindInterfaceInObjects returns the first object path that implements iface.
func FindInterfaceInObjects(objects ManagedObjects, iface string) (dbus.ObjectPath, bool) {
	for _, path := range objects.Paths() {
		if _, ok := objects[path][iface]; ok {
			return path, true
		}
	}

	return "", false
}

// stringProperty returns the string value of a property, or an empty string
// if the property does not exist or is not a string.
func stringProperty(props map[string]dbus.Variant, name string) string {
	v, ok := props[name]
	if !ok {
		return ""
	}

	s, _ := v.Value().(string)

	return s
}

// boolProperty returns the boolean value of a property.
func boolProperty(props map[string]dbus.Variant, name string) bool {
	v, ok := props[name]
	if !ok {
		return false
	}

	b, _ := v.Value().(bool)

	return b
}
