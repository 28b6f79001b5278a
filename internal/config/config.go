// internal/config/config.go
package config

type Config struct {
	Device DeviceConfig `yaml:"device"`
	Serial SerialConfig `yaml:"serial"`
	Bridge BridgeConfig `yaml:"bridge"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	UIOPath     string   `yaml:"uio_path"`
	MemSize     int      `yaml:"mem_size"`
	PintcOffset int      `yaml:"pintc_offset"`
	EventIndex  *int     `yaml:"event_index"` // nil = default; 0 is a valid index
	SysfsDir    string   `yaml:"sysfs_dir"`
	AddrPins    []uint32 `yaml:"addr_pins"` // 5 gpio ids, address bit 0 first
}

// ---- SERIAL ----

type SerialConfig struct {
	Baud         uint32 `yaml:"baud"`
	Mode         string `yaml:"mode"` // "master" or "slave"
	SyncCounter  uint16 `yaml:"sync_counter"`
	TimeoutTicks uint32 `yaml:"timeout_ticks"`
	ReadHWAddr   bool   `yaml:"read_hw_address"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	PollIntervalMs int            `yaml:"poll_interval_ms"`
	TimeoutMs      int            `yaml:"timeout_ms"`
	Targets        []TargetConfig `yaml:"targets"`

	// Link status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}

// ---- TARGET ----

type TargetConfig struct {
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
	Address  uint16 `yaml:"address"`  // first destination register
	Quantity uint16 `yaml:"quantity"` // registers replicated from the snapshot head

	StatusUnitID *uint8 `yaml:"status_unit_id"` // per-target status memory (optional)
}
