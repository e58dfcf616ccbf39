// internal/writer/types.go
package writer

// StatusPlan is the fully-built delivery plan for the status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// endpointClient is the only capability the status writer needs.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
