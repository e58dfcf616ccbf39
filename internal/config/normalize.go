// internal/config/normalize.go
package config

// Defaults. Interface, publisher cycle and sender reply timeout are
// applied at decode time for omitted keys; the rest by Normalize.
const (
	DefaultInterface       = "eth0"
	DefaultTTL       uint8 = 64

	DefaultPublisherCycleMs    uint32 = 1000
	DefaultSenderReplyTimeout  uint32 = 1000
	DefaultSampleIntervalMs           = 1000
	DefaultStatusExportTimeout        = 2000

	AdapterEmulator = "emulator"
)

// Normalize applies runtime defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// NETWORK / LOGGING
	// ------------------------------------------------------------

	if cfg.Network.TTL == 0 {
		cfg.Network.TTL = DefaultTTL
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Adapter == "" {
		cfg.Adapter = AdapterEmulator
	}

	// ------------------------------------------------------------
	// ENDPOINTS
	// ------------------------------------------------------------

	for i := range cfg.PdPublishers {
		p := &cfg.PdPublishers[i]
		if p.Payload.Format == "" {
			p.Payload.Format = PayloadHex
		}
	}

	for i := range cfg.MdSenders {
		s := &cfg.MdSenders[i]
		if s.Payload.Format == "" {
			s.Payload.Format = PayloadHex
		}
	}

	for i := range cfg.MdListeners {
		l := &cfg.MdListeners[i]
		if l.ReplyPayload.Format == "" {
			l.ReplyPayload.Format = PayloadHex
		}
	}

	// ------------------------------------------------------------
	// SINKS
	// ------------------------------------------------------------

	if r := cfg.Recorder; r != nil && r.IntervalMs <= 0 {
		r.IntervalMs = DefaultSampleIntervalMs
	}

	if se := cfg.StatusExport; se != nil {
		if se.IntervalMs <= 0 {
			se.IntervalMs = DefaultSampleIntervalMs
		}
		if se.TimeoutMs <= 0 {
			se.TimeoutMs = DefaultStatusExportTimeout
		}
		// Device name is truncated to what the status block can hold.
		if len(se.DeviceName) > 16 {
			se.DeviceName = se.DeviceName[:16]
		}
	}
}
