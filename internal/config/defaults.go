// internal/config/defaults.go
package config

// documentKeys records which defaulted keys a document spelled out.
// Only an omitted key gets its default; an explicit zero reaches Validate.
type documentKeys struct {
	Network struct {
		Interface *string `yaml:"interface" toml:"interface"`
	} `yaml:"network" toml:"network"`

	PdPublishers []struct {
		CycleTimeMs *uint32 `yaml:"cycle_time_ms" toml:"cycle_time_ms"`
	} `yaml:"pd_publishers" toml:"pd_publishers"`

	MdSenders []struct {
		ReplyTimeoutMs *uint32 `yaml:"reply_timeout_ms" toml:"reply_timeout_ms"`
	} `yaml:"md_senders" toml:"md_senders"`
}

// applyTo fills omitted keys with their decode-time defaults.
// It runs before Validate.
func (k *documentKeys) applyTo(cfg *Config) {
	if k.Network.Interface == nil {
		cfg.Network.Interface = DefaultInterface
	}

	for i := range cfg.PdPublishers {
		if i >= len(k.PdPublishers) || k.PdPublishers[i].CycleTimeMs == nil {
			cfg.PdPublishers[i].CycleTimeMs = DefaultPublisherCycleMs
		}
	}

	for i := range cfg.MdSenders {
		if i >= len(k.MdSenders) || k.MdSenders[i].ReplyTimeoutMs == nil {
			cfg.MdSenders[i].ReplyTimeoutMs = DefaultSenderReplyTimeout
		}
	}
}
