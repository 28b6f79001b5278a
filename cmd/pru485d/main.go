// cmd/pru485d/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Blackrose/pru485/internal/bridge"
	"github.com/Blackrose/pru485/internal/config"
	"github.com/Blackrose/pru485/internal/device"
	"github.com/Blackrose/pru485/internal/hwaddr"
	"github.com/Blackrose/pru485/internal/intc"
	"github.com/Blackrose/pru485/internal/shmem"
	"github.com/Blackrose/pru485/internal/status"
	"github.com/Blackrose/pru485/internal/uio"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: pru485d <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Attach the coprocessor
	// --------------------

	node, err := uio.Open(cfg.Device.UIOPath, cfg.Device.MemSize)
	if err != nil {
		log.Fatalf("uio open failed: %v", err)
	}
	defer node.Close()

	dev := device.New(uio.NewPins(), addrPins(cfg.Device.AddrPins))
	dev.Attach(node.Window(), cfg.Device.PintcOffset, *cfg.Device.EventIndex)

	hostBit := intc.HostIntBase + *cfg.Device.EventIndex
	go node.ServeIRQ(hostBit, func(bit int) { dev.HandleInterrupt(bit) })

	// --------------------
	// One session for the daemon's lifetime
	// --------------------

	sess, err := dev.Open()
	if err != nil {
		log.Fatalf("device open failed: %v", err)
	}
	defer sess.Close()

	if err := setup(sess, cfg); err != nil {
		log.Fatalf("device setup failed: %v", err)
	}

	// --------------------
	// Replication pipeline
	// --------------------

	if len(cfg.Bridge.Targets) == 0 {
		log.Printf("no bridge targets configured; idling")
		for {
			time.Sleep(time.Hour)
		}
	}

	plan := bridge.BuildPlan(cfg.Bridge)

	clients, closeClients, err := bridge.BuildClients(cfg.Bridge)
	if err != nil {
		log.Fatalf("bridge clients failed: %v", err)
	}
	defer closeClients()

	p, err := bridge.New(bridge.Config{
		Interval: time.Duration(cfg.Bridge.PollIntervalMs) * time.Millisecond,
	}, sess)
	if err != nil {
		log.Fatalf("poller build failed: %v", err)
	}

	dataWriter := bridge.NewWriter(plan, clients)
	statusWriter, statusEnabled := bridge.NewStatusWriter(plan, clients)

	ctx := context.Background()
	out := make(chan bridge.SnapshotResult)

	// Orchestrator (runner-owned state + 1Hz seconds ticker)
	go func() {
		var snap status.Snapshot
		snap.Health = status.HealthUnknown

		secTicker := time.NewTicker(time.Second)
		defer secTicker.Stop()

		// Full block write on start (identity re-assert) if enabled.
		if statusEnabled {
			if err := statusWriter.WriteStatus(snap); err != nil {
				log.Printf("status write failed on start: %v", err)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case res := <-out:
				// --- data delivery ---
				if err := dataWriter.Write(res); err != nil {
					log.Printf("writer error: %v", err)
				}

				// --- status update (link-level truth) ---
				if !statusEnabled {
					continue
				}

				changed := false
				if res.Err == nil {
					if snap.Health != status.HealthOK {
						snap.Health = status.HealthOK
						changed = true
					}
					if snap.LastErrorCode != 0 {
						snap.LastErrorCode = 0
						changed = true
					}
					if snap.SecondsInError != 0 {
						snap.SecondsInError = 0
						changed = true
					}
				} else {
					if snap.Health != status.HealthError {
						snap.Health = status.HealthError
						changed = true
					}
					if code := errorCode(res.Err); snap.LastErrorCode != code {
						snap.LastErrorCode = code
						changed = true
					}
					// seconds_in_error increments on the 1Hz ticker only.
				}

				if changed {
					if err := statusWriter.WriteStatus(snap); err != nil {
						log.Printf("status write failed: %v", err)
					}
				}

			case <-secTicker.C:
				if !statusEnabled {
					continue
				}
				// Tick 1 Hz while not OK.
				if snap.Health != status.HealthOK && snap.SecondsInError < 65535 {
					snap.SecondsInError++
					if err := statusWriter.WriteStatus(snap); err != nil {
						log.Printf("status seconds tick write failed: %v", err)
					}
				}
			}
		}
	}()

	// snapshot producer
	go p.Run(ctx, out)

	// --------------------
	// Block forever (daemon-safe, no deadlock)
	// --------------------
	for {
		time.Sleep(time.Hour)
	}
}

// setup applies the configured serial parameters through the session.
func setup(sess *device.Session, cfg *config.Config) error {
	mode := byte(shmem.ModeSlave)
	if cfg.Serial.Mode == "master" {
		mode = shmem.ModeMaster
	}
	if err := sess.SetMode(mode); err != nil {
		return err
	}
	if cfg.Serial.Baud != 0 {
		if err := sess.SetBaudRate(cfg.Serial.Baud); err != nil {
			return err
		}
	}
	if cfg.Serial.SyncCounter != 0 {
		if err := sess.SetCounter(cfg.Serial.SyncCounter); err != nil {
			return err
		}
	}
	if cfg.Serial.TimeoutTicks != 0 {
		if err := sess.SetTimeout(cfg.Serial.TimeoutTicks); err != nil {
			return err
		}
	}
	if cfg.Serial.ReadHWAddr {
		addr, err := sess.HardwareAddress()
		if err != nil {
			return err
		}
		log.Printf("hardware address: %d", addr)
	}
	return nil
}

// addrPins maps configured gpio ids onto the default straps; an empty
// list keeps the defaults.
func addrPins(ids []uint32) [5]hwaddr.Pin {
	pins := hwaddr.DefaultPins
	for i := 0; i < len(ids) && i < len(pins); i++ {
		pins[i] = hwaddr.Pin{ID: ids[i], Label: fmt.Sprintf("gpio%d", ids[i])}
	}
	return pins
}

// errorCode extracts a best-effort uint16 code from an error for the
// status block.
func errorCode(err error) uint16 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, device.ErrNotReady):
		return 2
	case errors.Is(err, device.ErrBusy):
		return 3
	case errors.Is(err, device.ErrResourceFault):
		return 4
	default:
		return 1
	}
}
