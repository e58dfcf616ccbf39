// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block without the name.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotFlags] = s.Flags
	regs[SlotEndpointCount] = s.EndpointCount
	regs[SlotSecondsInError] = s.SecondsInError

	putU32(regs, SlotPdSent, s.PdSent)
	putU32(regs, SlotPdReceived, s.PdReceived)
	putU32(regs, SlotMdRequestsSent, s.MdRequestsSent)
	putU32(regs, SlotMdRepliesReceived, s.MdRepliesReceived)
	putU32(regs, SlotMdRequestsReceived, s.MdRequestsReceived)
	putU32(regs, SlotMdRepliesSent, s.MdRepliesSent)

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers,
// two bytes per register, big-endian. Non-printable bytes become '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}

func putU32(regs []uint16, slot int, v uint32) {
	regs[slot] = uint16(v >> 16)
	regs[slot+1] = uint16(v)
}
