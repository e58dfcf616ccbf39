// internal/config/validate_test.go
package config

import "testing"

// helper to build a minimal valid config quickly
func baseConfig() *Config {
	cfg := &Config{
		Network: NetworkConfig{Interface: "eth0"},
		PdPublishers: []PdPublisherConfig{
			{Name: "pub1", ComID: 100, CycleTimeMs: 500, Payload: PayloadConfig{Format: PayloadHex, Value: "0A0B"}},
		},
		PdSubscribers: []PdSubscriberConfig{
			{Name: "sub1", ComID: 100},
		},
		MdSenders: []MdSenderConfig{
			{Name: "snd1", ComID: 200},
		},
		MdListeners: []MdListenerConfig{
			{Name: "lis1", ComID: 200},
		},
	}
	return cfg
}

// ---- tests ----

func TestValidate_BaseConfigOK(t *testing.T) {
	if err := Validate(baseConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateNamesPerCategory(t *testing.T) {
	cfg := baseConfig()
	cfg.PdPublishers = append(cfg.PdPublishers, cfg.PdPublishers[0])

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate publisher error, got nil")
	}
}

func TestValidate_SameNameAcrossCategoriesAllowed(t *testing.T) {
	cfg := baseConfig()
	cfg.PdSubscribers[0].Name = "pub1"
	cfg.MdSenders[0].Name = "pub1"

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyName(t *testing.T) {
	cfg := baseConfig()
	cfg.MdListeners[0].Name = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected empty name error, got nil")
	}
}

func TestValidate_PublisherZeroCycle(t *testing.T) {
	cfg := baseConfig()
	cfg.PdPublishers[0].CycleTimeMs = 0

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected cycle error, got nil")
	}
}

func TestValidate_ExpectReplyNeedsTimeout(t *testing.T) {
	cfg := baseConfig()
	cfg.MdSenders[0].ExpectReply = true
	cfg.MdSenders[0].ReplyTimeoutMs = 0

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected reply timeout error, got nil")
	}
}

func TestValidate_AutoReplyNeedsPayload(t *testing.T) {
	cfg := baseConfig()
	cfg.MdListeners[0].AutoReply = true

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected auto reply payload error, got nil")
	}

	cfg.MdListeners[0].ReplyPayload.Value = "01"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownPayloadFormat(t *testing.T) {
	cfg := baseConfig()
	cfg.PdPublishers[0].Payload.Format = "base64"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected payload format error, got nil")
	}
}

func TestValidate_EmptyInterface(t *testing.T) {
	cfg := baseConfig()
	cfg.Network.Interface = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected interface error, got nil")
	}
}

func TestValidate_StatusExportDeviceNameASCII(t *testing.T) {
	cfg := baseConfig()
	cfg.StatusExport = &StatusExportConfig{Endpoint: "127.0.0.1:502", DeviceName: "zug-ß"}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ASCII error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{
		PdPublishers:  []PdPublisherConfig{{Name: "p"}},
		PdSubscribers: []PdSubscriberConfig{{Name: "s"}},
		MdSenders:     []MdSenderConfig{{Name: "m"}},
		StatusExport:  &StatusExportConfig{Endpoint: "x", DeviceName: "ABCDEFGHIJKLMNOPQRS"},
	}
	Normalize(cfg)

	if cfg.Network.TTL != DefaultTTL {
		t.Fatalf("ttl: got=%d want=%d", cfg.Network.TTL, DefaultTTL)
	}
	if cfg.PdPublishers[0].Payload.Format != PayloadHex {
		t.Fatalf("payload format: got=%q", cfg.PdPublishers[0].Payload.Format)
	}
	if !cfg.PdSubscribers[0].ComIDFilterEnabled() {
		t.Fatalf("com id filter should default to enabled")
	}
	if cfg.MdSenders[0].CycleTimeMs != 0 {
		t.Fatalf("sender cycle must stay one-shot, got=%d", cfg.MdSenders[0].CycleTimeMs)
	}
	if cfg.MdSenders[0].ReplyTimeoutMs != 0 {
		t.Fatalf("reply timeout is a decode-time default, got=%d", cfg.MdSenders[0].ReplyTimeoutMs)
	}
	if len(cfg.StatusExport.DeviceName) != 16 {
		t.Fatalf("device name not truncated: %q", cfg.StatusExport.DeviceName)
	}
	if !cfg.Logging.ConsoleEnabled() {
		t.Fatalf("console should default to enabled")
	}
}
