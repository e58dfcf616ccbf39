// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/trdp-sim/internal/config"
	wmodbus "github.com/tamzrod/trdp-sim/internal/writer/modbus"
)

// BuildStatusPlan converts the status export config into a StatusPlan.
// Assumes config has already passed validation.
func BuildStatusPlan(se cfg.StatusExportConfig) (StatusPlan, error) {
	if se.Endpoint == "" {
		return StatusPlan{}, errors.New("writer: status_export.endpoint required")
	}
	return StatusPlan{
		Endpoint:   se.Endpoint,
		UnitID:     se.UnitID,
		BaseSlot:   se.BaseSlot,
		DeviceName: se.DeviceName,
	}, nil
}

// BuildStatusWriter dials the endpoint and returns a ready writer plus its closer.
func BuildStatusWriter(se cfg.StatusExportConfig) (*DeviceStatusWriter, func() error, error) {
	plan, err := BuildStatusPlan(se)
	if err != nil {
		return nil, nil, err
	}

	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(se.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewDeviceStatusWriter(plan, c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return sw, c.Close, nil
}
