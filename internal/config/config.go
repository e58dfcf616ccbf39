// internal/config/config.go
package config

// Config is the full simulator configuration.
// Field tags cover YAML and TOML documents; Lua tables map by field name.
type Config struct {
	Network       NetworkConfig        `yaml:"network" toml:"network"`
	Logging       LoggingConfig        `yaml:"logging" toml:"logging"`
	Adapter       string               `yaml:"adapter" toml:"adapter"`
	PdPublishers  []PdPublisherConfig  `yaml:"pd_publishers" toml:"pd_publishers"`
	PdSubscribers []PdSubscriberConfig `yaml:"pd_subscribers" toml:"pd_subscribers"`
	MdSenders     []MdSenderConfig     `yaml:"md_senders" toml:"md_senders"`
	MdListeners   []MdListenerConfig   `yaml:"md_listeners" toml:"md_listeners"`

	// Optional sinks
	Capture      *CaptureConfig      `yaml:"capture" toml:"capture"`
	Recorder     *RecorderConfig     `yaml:"recorder" toml:"recorder"`
	StatusExport *StatusExportConfig `yaml:"status_export" toml:"status_export"`
}

// ---- NETWORK ----

type NetworkConfig struct {
	Interface string `yaml:"interface" toml:"interface"`
	HostIP    string `yaml:"host_ip" toml:"host_ip"`
	GatewayIP string `yaml:"gateway_ip" toml:"gateway_ip"`
	VlanID    uint16 `yaml:"vlan_id" toml:"vlan_id"`
	TTL       uint8  `yaml:"ttl" toml:"ttl"`
}

// ---- LOGGING ----

// LogLevel specifies the logging verbosity.
type LogLevel string

const (
	LogLevelError LogLevel = "error"
	LogLevelWarn  LogLevel = "warn"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

// LogFormat specifies the log output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

type LoggingConfig struct {
	Console *bool     `yaml:"console" toml:"console"` // nil => true
	File    string    `yaml:"file" toml:"file"`
	Level   LogLevel  `yaml:"level" toml:"level"`
	Format  LogFormat `yaml:"format" toml:"format"`
}

// ConsoleEnabled reports whether console output is on. Unset means on.
func (l LoggingConfig) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}

// ---- PAYLOAD ----

// PayloadFormat tags how a payload value is decoded.
type PayloadFormat string

const (
	PayloadHex  PayloadFormat = "hex"
	PayloadText PayloadFormat = "text"
	PayloadFile PayloadFormat = "file"
)

type PayloadConfig struct {
	Format PayloadFormat `yaml:"format" toml:"format" json:"format"`
	Value  string        `yaml:"value" toml:"value" json:"value"`
}

// ---- PROCESS DATA ----

type PdPublisherConfig struct {
	Name               string        `yaml:"name" toml:"name"`
	ComID              uint32        `yaml:"com_id" toml:"com_id"`
	DatasetID          uint32        `yaml:"dataset_id" toml:"dataset_id"`
	EtbTopoCount       uint16        `yaml:"etb_topo_count" toml:"etb_topo_count"`
	OpTrnTopoCount     uint16        `yaml:"op_trn_topo_count" toml:"op_trn_topo_count"`
	SourceIP           string        `yaml:"source_ip" toml:"source_ip"`
	DestIP             string        `yaml:"dest_ip" toml:"dest_ip"`
	CycleTimeMs        uint32        `yaml:"cycle_time_ms" toml:"cycle_time_ms"`
	RedundancyGroup    uint32        `yaml:"redundancy_group" toml:"redundancy_group"`
	UseSequenceCounter bool          `yaml:"use_sequence_counter" toml:"use_sequence_counter"`
	Payload            PayloadConfig `yaml:"payload" toml:"payload"`
}

type PdSubscriberConfig struct {
	Name           string `yaml:"name" toml:"name"`
	ComID          uint32 `yaml:"com_id" toml:"com_id"`
	EtbTopoCount   uint16 `yaml:"etb_topo_count" toml:"etb_topo_count"`
	OpTrnTopoCount uint16 `yaml:"op_trn_topo_count" toml:"op_trn_topo_count"`
	SourceIP       string `yaml:"source_ip" toml:"source_ip"`
	DestIP         string `yaml:"dest_ip" toml:"dest_ip"`
	TimeoutMs      uint32 `yaml:"timeout_ms" toml:"timeout_ms"`
	ComIDFilter    *bool  `yaml:"com_id_filter" toml:"com_id_filter"` // nil => true
}

// ComIDFilterEnabled reports whether com-id filtering is on. Unset means on.
func (s PdSubscriberConfig) ComIDFilterEnabled() bool {
	return s.ComIDFilter == nil || *s.ComIDFilter
}

// ---- MESSAGE DATA ----

type MdSenderConfig struct {
	Name           string        `yaml:"name" toml:"name"`
	ComID          uint32        `yaml:"com_id" toml:"com_id"`
	ReplyComID     uint32        `yaml:"reply_com_id" toml:"reply_com_id"`
	SourceIP       string        `yaml:"source_ip" toml:"source_ip"`
	DestIP         string        `yaml:"dest_ip" toml:"dest_ip"`
	CycleTimeMs    uint32        `yaml:"cycle_time_ms" toml:"cycle_time_ms"` // 0 => one-shot
	ReplyTimeoutMs uint32        `yaml:"reply_timeout_ms" toml:"reply_timeout_ms"`
	ExpectReply    bool          `yaml:"expect_reply" toml:"expect_reply"`
	Payload        PayloadConfig `yaml:"payload" toml:"payload"`
}

type MdListenerConfig struct {
	Name         string        `yaml:"name" toml:"name"`
	ComID        uint32        `yaml:"com_id" toml:"com_id"` // 0 => any
	SourceIP     string        `yaml:"source_ip" toml:"source_ip"`
	DestIP       string        `yaml:"dest_ip" toml:"dest_ip"`
	AutoReply    bool          `yaml:"auto_reply" toml:"auto_reply"`
	ReplyPayload PayloadConfig `yaml:"reply_payload" toml:"reply_payload"`
}

// ---- SINKS ----

// CaptureConfig enables a pcap file of emulated traffic.
type CaptureConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// RecorderConfig enables a sqlite history of metrics samples.
type RecorderConfig struct {
	Path       string `yaml:"path" toml:"path"`
	IntervalMs int    `yaml:"interval_ms" toml:"interval_ms"`
}

// StatusExportConfig mirrors simulator status into Modbus holding registers.
type StatusExportConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id" toml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot" toml:"base_slot"`
	TimeoutMs  int    `yaml:"timeout_ms" toml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms" toml:"interval_ms"`
	DeviceName string `yaml:"device_name" toml:"device_name"`
}
