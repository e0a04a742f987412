/*
Package bluez provides helpers to look up BlueZ objects over DBus:
- Find adapters and devices in the objects managed by the Bluez daemon.
- Obtain proxies for the GATT and LE advertising interfaces of an adapter.
- Package service data in the form an LE advertisement exposes it.

It also has constants defined for the Bluez DBus bus and interface names.
*/
package bluez
