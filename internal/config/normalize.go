// internal/config/normalize.go
package config

// Defaults for the AM335x PRUSS attachment: the driver exports its events
// on /dev/uio0..7, transfer completion rides event-out 1, and the
// interrupt controller sits at 0x20000 inside the 512 KiB I/O region.
const (
	DefaultUIOPath     = "/dev/uio1"
	DefaultMemSize     = 0x80000
	DefaultPintcOffset = 0x20000
	DefaultEventIndex  = 1
	DefaultSysfsDir    = "/sys/class/uio/uio1/device"

	defaultPollIntervalMs = 1000
	defaultTimeoutMs      = 5000

	// defaultQuantity keeps one replication cycle inside a single
	// write-multiple-registers request.
	defaultQuantity = 123

	deviceNameMaxChars = 16
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.UIOPath == "" {
		cfg.Device.UIOPath = DefaultUIOPath
	}
	if cfg.Device.MemSize == 0 {
		cfg.Device.MemSize = DefaultMemSize
	}
	if cfg.Device.PintcOffset == 0 {
		cfg.Device.PintcOffset = DefaultPintcOffset
	}
	if cfg.Device.EventIndex == nil {
		v := DefaultEventIndex
		cfg.Device.EventIndex = &v
	}
	if cfg.Device.SysfsDir == "" {
		cfg.Device.SysfsDir = DefaultSysfsDir
	}

	if cfg.Bridge.PollIntervalMs == 0 {
		cfg.Bridge.PollIntervalMs = defaultPollIntervalMs
	}
	if cfg.Bridge.TimeoutMs == 0 {
		cfg.Bridge.TimeoutMs = defaultTimeoutMs
	}
	for i := range cfg.Bridge.Targets {
		if cfg.Bridge.Targets[i].Quantity == 0 {
			cfg.Bridge.Targets[i].Quantity = defaultQuantity
		}
	}

	if len(cfg.Bridge.DeviceName) > deviceNameMaxChars {
		cfg.Bridge.DeviceName = cfg.Bridge.DeviceName[:deviceNameMaxChars]
	}
}
