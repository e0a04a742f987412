package bluez

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkhz/bluezero/api/errorkinds"
)

// fakeObject is a remote object that answers GetManagedObjects and
// records every other method call.
type fakeObject struct {
	dbus.BusObject

	dest    string
	path    dbus.ObjectPath
	bus     *fakeBus
	objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
}

func (f *fakeObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	f.bus.calls = append(f.bus.calls, string(f.path)+" "+method)

	if f.bus.err != nil {
		return &dbus.Call{Err: f.bus.err}
	}

	switch method {
	case GetManagedObjectsIface:
		return &dbus.Call{Body: []any{f.objects}}

	case GetPropertyIface:
		return &dbus.Call{Body: []any{dbus.MakeVariant(args)}}
	}

	return &dbus.Call{Body: args}
}

func (f *fakeObject) Path() dbus.ObjectPath {
	return f.path
}

func (f *fakeObject) Destination() string {
	return f.dest
}

// fakeBus hands out fake objects over a fixed set of managed objects.
type fakeBus struct {
	objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	calls   []string
	err     error
	closed  bool
}

func (b *fakeBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{dest: dest, path: path, bus: b, objects: b.objects}
}

func (b *fakeBus) Close() error {
	b.closed = true

	return nil
}

func testObjects() map[dbus.ObjectPath]map[string]map[string]dbus.Variant {
	adapter := func(address, name string) map[string]map[string]dbus.Variant {
		return map[string]map[string]dbus.Variant{
			AdapterIface: {
				"Address": dbus.MakeVariant(address),
				"Name":    dbus.MakeVariant(name),
				"Alias":   dbus.MakeVariant(name + "-alias"),
				"Powered": dbus.MakeVariant(true),
			},
			GattManagerIface:          {},
			LEAdvertisingManagerIface: {},
		}
	}
	device := func(address string) map[string]map[string]dbus.Variant {
		return map[string]map[string]dbus.Variant{
			DeviceIface: {
				"Address": dbus.MakeVariant(address),
			},
		}
	}

	return map[dbus.ObjectPath]map[string]map[string]dbus.Variant{
		"/org/bluez": {
			"org.bluez.AgentManager1": {},
		},
		"/org/bluez/hci0":                       adapter("00:11:22:33:44:55", "laptop"),
		"/org/bluez/hci1":                       adapter("66:77:88:99:AA:BB", "dongle"),
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF": device("AA:BB:CC:DD:EE:FF"),
		"/org/bluez/hci1/dev_AA_BB_CC_DD_EE_FF": device("AA:BB:CC:DD:EE:FF"),
		"/org/bluez/hci1/dev_12_34_56_78_9A_BC": device("12:34:56:78:9A:BC"),
	}
}

func newTestConn(t *testing.T) (*Conn, *fakeBus) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	bus := &fakeBus{objects: testObjects()}

	return NewConn(bus, log), bus
}

func TestFindAdapterInObjects(t *testing.T) {
	objects := ManagedObjects(testObjects())

	cases := []struct {
		pattern string
		want    dbus.ObjectPath
	}{
		{"", "/org/bluez/hci0"},
		{"hci0", "/org/bluez/hci0"},
		{"hci1", "/org/bluez/hci1"},
		{"66:77:88:99:AA:BB", "/org/bluez/hci1"},
		{"/org/bluez/hci1", "/org/bluez/hci1"},
	}

	for _, tt := range cases {
		got, err := FindAdapterInObjects(objects, tt.pattern)
		require.NoError(t, err, "pattern %q", tt.pattern)
		assert.Equal(t, tt.want, got, "pattern %q", tt.pattern)
	}

	_, err := FindAdapterInObjects(objects, "hci9")
	assert.ErrorIs(t, err, errorkinds.ErrAdapterNotFound)

	_, err = FindAdapterInObjects(ManagedObjects{}, "")
	assert.ErrorIs(t, err, errorkinds.ErrAdapterNotFound)
}

func TestFindDeviceInObjects(t *testing.T) {
	objects := ManagedObjects(testObjects())

	got, err := FindDeviceInObjects(objects, "AA:BB:CC:DD:EE:FF", "")
	require.NoError(t, err)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF"), got)

	got, err = FindDeviceInObjects(objects, "aa:bb:cc:dd:ee:ff", "hci1")
	require.NoError(t, err)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci1/dev_AA_BB_CC_DD_EE_FF"), got)

	_, err = FindDeviceInObjects(objects, "12:34:56:78:9A:BC", "hci0")
	assert.ErrorIs(t, err, errorkinds.ErrDeviceNotFound)

	_, err = FindDeviceInObjects(objects, "12:34:56:78:9A:BC", "hci7")
	assert.ErrorIs(t, err, errorkinds.ErrAdapterNotFound)

	_, err = FindDeviceInObjects(objects, "not-an-address", "")
	assert.ErrorIs(t, err, errorkinds.ErrInvalidAddress)
}

func TestFindInterfaceInObjects(t *testing.T) {
	objects := ManagedObjects(testObjects())

	path, ok := FindInterfaceInObjects(objects, GattManagerIface)
	assert.True(t, ok)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0"), path)

	_, ok = FindInterfaceInObjects(objects, "org.bluez.Network1")
	assert.False(t, ok)
}

func TestConnFindAdapter(t *testing.T) {
	conn, bus := newTestConn(t)

	adapter, err := conn.FindAdapter(context.Background(), "hci1")
	require.NoError(t, err)
	assert.Equal(t, AdapterIface, adapter.Name)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci1"), adapter.Path())
	assert.Equal(t, []string{"/ " + GetManagedObjectsIface}, bus.calls)

	_, err = conn.FindAdapter(context.Background(), "hci3")
	assert.ErrorIs(t, err, errorkinds.ErrAdapterNotFound)
	assert.Equal(t, ftag.NotFound, ftag.Get(err))
}

func TestConnFindDevice(t *testing.T) {
	conn, _ := newTestConn(t)

	device, err := conn.FindDevice(context.Background(), "12:34:56:78:9A:BC", "")
	require.NoError(t, err)
	assert.Equal(t, DeviceIface, device.Name)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci1/dev_12_34_56_78_9A_BC"), device.Path())

	_, err = conn.FindDevice(context.Background(), "12:34:56:78:9A:BC", "hci0")
	assert.ErrorIs(t, err, errorkinds.ErrDeviceNotFound)
}

func TestConnBusError(t *testing.T) {
	conn, bus := newTestConn(t)
	bus.err = errors.New("org.freedesktop.DBus.Error.ServiceUnknown")

	_, err := conn.ManagedObjects(context.Background())
	assert.ErrorIs(t, err, bus.err)
	assert.Equal(t, ftag.Internal, ftag.Get(err))

	var generic errorkinds.GenericError
	require.ErrorAs(t, err, &generic)
	assert.ErrorIs(t, generic.Errors, bus.err)

	_, err = conn.FindAdapter(context.Background(), "")
	assert.ErrorIs(t, err, bus.err)

	_, _, err = conn.FindGattAdapter(context.Background())
	assert.ErrorIs(t, err, bus.err)
}

func TestConnManagers(t *testing.T) {
	conn, bus := newTestConn(t)

	path, ok, err := conn.FindGattAdapter(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0"), path)

	path, ok, err = conn.FindAdvertisingAdapter(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0"), path)

	bus.objects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant{}
	_, ok, err = conn.FindAdvertisingAdapter(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnAdapters(t *testing.T) {
	conn, _ := newTestConn(t)

	adapters, err := conn.Adapters(context.Background())
	require.NoError(t, err)
	require.Len(t, adapters, 2)

	assert.Equal(t, AdapterInfo{
		Path:    "/org/bluez/hci0",
		Name:    "laptop",
		Alias:   "laptop-alias",
		Address: "00:11:22:33:44:55",
		Powered: true,
	}, adapters[0])
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci1"), adapters[1].Path)
}

func TestConnProxies(t *testing.T) {
	conn, bus := newTestConn(t)

	cases := []struct {
		proxy Interface
		iface string
	}{
		{conn.GattManager(""), GattManagerIface},
		{conn.GattService(""), GattServiceIface},
		{conn.GattCharacteristic(""), GattCharacteristicIface},
		{conn.GattDescriptor(""), GattDescriptorIface},
		{conn.AdvertisingManager(""), LEAdvertisingManagerIface},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.iface, tt.proxy.Name)
		assert.Equal(t, DefaultAdapterPath, tt.proxy.Path())
		assert.Equal(t, BusName, tt.proxy.Object.Destination())
	}

	manager := conn.GattManager("/org/bluez/hci1")
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci1"), manager.Path())

	call := manager.Call(context.Background(), "RegisterApplication", dbus.ObjectPath("/app"))
	require.NoError(t, call.Err)
	assert.Equal(t, []any{dbus.ObjectPath("/app")}, call.Body)

	roles, err := manager.Property(context.Background(), "Roles")
	require.NoError(t, err)
	assert.Equal(t, []any{GattManagerIface, "Roles"}, roles.Value())

	assert.Equal(t, []string{
		"/org/bluez/hci1 " + GattManagerIface + ".RegisterApplication",
		"/org/bluez/hci1 " + GetPropertyIface,
	}, bus.calls)

	bus.err = errors.New("property failed")
	_, err = manager.Property(context.Background(), "Roles")
	assert.ErrorIs(t, err, bus.err)
	assert.ErrorAs(t, err, &errorkinds.GenericError{})
	assert.Equal(t, ftag.Internal, ftag.Get(err))

	require.NoError(t, conn.Close())
	assert.True(t, bus.closed)
}

func TestServiceData(t *testing.T) {
	eddystone := uuid.MustParse("0000feaa-0000-1000-8000-00805f9b34fb")
	data := ServiceData(eddystone, []byte{0x10, 0xFF, 0x03})

	require.Contains(t, data, "FEAA")
	assert.Equal(t, []byte{0x10, 0xFF, 0x03}, data["FEAA"].Value())

	custom := uuid.MustParse("11118000-2222-3333-4444-555566667777")
	assert.Equal(t, "11118000-2222-3333-4444-555566667777", ServiceKey(custom))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("aa:Bb:0C:1d:EE:f0")
	require.NoError(t, err)
	assert.Equal(t, Address{0xAA, 0xBB, 0x0C, 0x1D, 0xEE, 0xF0}, addr)
	assert.Equal(t, "AA:BB:0C:1D:EE:F0", addr.String())

	for _, s := range []string{"", "AA:BB:CC:DD:EE", "AA:BB:CC:DD:EE:FF:00", "AA:BB:CC:DD:EE:FG", "AAB:B:CC:DD:EE:FF", "AA-BB-CC-DD-EE-FF"} {
		_, err := ParseAddress(s)
		assert.ErrorIs(t, err, errorkinds.ErrInvalidAddress, "ParseAddress(%q)", s)
	}
}
