/*
Package datatypes converts between unsigned integers and the fixed-width
little-endian byte arrays that GATT characteristic values are carried in.

The widths correspond to the unsigned presentation formats of the
Characteristic Presentation Format descriptor:

	Format | Short Name | Description
	-------|------------|-----------------------------
	0x04   | uint8      | unsigned 8-bit integer
	0x06   | uint16     | unsigned 16-bit integer
	0x07   | uint24     | unsigned 24-bit integer
	0x08   | uint32     | unsigned 32-bit integer
*/
package datatypes
