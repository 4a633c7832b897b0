package session

import "github.com/avrprog/stk500v1/target"

// buildSetDeviceBody constructs the 20-byte SET_DEVICE descriptor.
// STK500v1 bootloaders are tolerant of most of these fields (they were
// designed for the full STK500 board, which this engine never talks
// to) — avrdude's m328p descriptor is mirrored here for the fields
// that matter (page size, flash size) and otherwise uses the same
// constant placeholders avrdude does. A conforming bootloader accepts
// any well-formed 20-byte frame.
func buildSetDeviceBody(p target.Params) []byte {
	flashSize := uint32(p.FlashSize())
	return []byte{
		0x86, // devicecode (placeholder, unused by Arduino bootloaders)
		0x00, // revision
		0x00, // progtype
		0x01, // parmode (parallel/serial capable)
		0x01, // polling
		0x01, // selftimed
		0x01, // lockbytes
		0x03, // fusebytes
		0xFF, 0xFF, // flashpollval1/2
		0xFF, 0xFF, // eeprompollval1/2
		byte(p.PageSize >> 8), byte(p.PageSize), // pagesize
		0x00, 0x00, // eepromsize (this engine never writes EEPROM)
		byte(flashSize >> 24), byte(flashSize >> 16), byte(flashSize >> 8), byte(flashSize),
	}
}

// buildSetDeviceExtBody constructs the 5-byte SET_DEVICE_EXT
// descriptor. Arduino-style STK500v1 bootloaders ignore it entirely;
// it is sent for protocol completeness only.
func buildSetDeviceExtBody() []byte {
	return []byte{0x05, 0x00, 0x00, 0x00, 0x00}
}
