// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	// ------------------------------------------------------------
	// NETWORK / LOGGING
	// ------------------------------------------------------------

	if cfg.Network.Interface == "" {
		return fmt.Errorf("network interface name must not be empty")
	}

	switch cfg.Logging.Level {
	case "", LogLevelError, LogLevelWarn, LogLevelInfo, LogLevelDebug:
	default:
		return fmt.Errorf("invalid log level %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "", LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q", cfg.Logging.Format)
	}

	// ------------------------------------------------------------
	// NAME UNIQUENESS (PER CATEGORY)
	// ------------------------------------------------------------

	pubNames := make([]string, 0, len(cfg.PdPublishers))
	for _, p := range cfg.PdPublishers {
		pubNames = append(pubNames, p.Name)
	}
	if err := ensureUnique("PD publisher", pubNames); err != nil {
		return err
	}

	subNames := make([]string, 0, len(cfg.PdSubscribers))
	for _, s := range cfg.PdSubscribers {
		subNames = append(subNames, s.Name)
	}
	if err := ensureUnique("PD subscriber", subNames); err != nil {
		return err
	}

	sndNames := make([]string, 0, len(cfg.MdSenders))
	for _, s := range cfg.MdSenders {
		sndNames = append(sndNames, s.Name)
	}
	if err := ensureUnique("MD sender", sndNames); err != nil {
		return err
	}

	lisNames := make([]string, 0, len(cfg.MdListeners))
	for _, l := range cfg.MdListeners {
		lisNames = append(lisNames, l.Name)
	}
	if err := ensureUnique("MD listener", lisNames); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// PER-ENDPOINT RULES
	// ------------------------------------------------------------

	for _, p := range cfg.PdPublishers {
		if p.CycleTimeMs == 0 {
			return fmt.Errorf("PD publisher %q must specify cycle_time_ms > 0", p.Name)
		}
		if err := validatePayload(p.Payload); err != nil {
			return fmt.Errorf("PD publisher %q: %w", p.Name, err)
		}
	}

	for _, s := range cfg.MdSenders {
		if s.ExpectReply && s.ReplyTimeoutMs == 0 {
			return fmt.Errorf("MD sender %q expects a reply but reply_timeout_ms is 0", s.Name)
		}
		if err := validatePayload(s.Payload); err != nil {
			return fmt.Errorf("MD sender %q: %w", s.Name, err)
		}
	}

	for _, l := range cfg.MdListeners {
		if l.AutoReply && l.ReplyPayload.Value == "" {
			return fmt.Errorf("MD listener %q auto_reply requires a reply_payload", l.Name)
		}
		if err := validatePayload(l.ReplyPayload); err != nil {
			return fmt.Errorf("MD listener %q: %w", l.Name, err)
		}
	}

	// ------------------------------------------------------------
	// SINKS
	// ------------------------------------------------------------

	if se := cfg.StatusExport; se != nil {
		if se.Endpoint == "" {
			return fmt.Errorf("status_export: endpoint required")
		}
		for i := 0; i < len(se.DeviceName); i++ {
			if se.DeviceName[i] > 0x7F {
				return fmt.Errorf("status_export: device_name must contain ASCII characters only")
			}
		}
	}

	if c := cfg.Capture; c != nil && c.Path == "" {
		return fmt.Errorf("capture: path required")
	}

	return nil
}

func ensureUnique(kind string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%s name must not be empty", kind)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("duplicate %s name %q", kind, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

func validatePayload(p PayloadConfig) error {
	switch p.Format {
	case "", PayloadHex, PayloadText, PayloadFile:
		return nil
	default:
		return fmt.Errorf("unsupported payload format %q", p.Format)
	}
}
