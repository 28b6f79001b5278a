// cmd/pru485ctl/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"

	"github.com/Blackrose/pru485/internal/config"
	"github.com/Blackrose/pru485/internal/device"
	"github.com/Blackrose/pru485/internal/hwaddr"
	"github.com/Blackrose/pru485/internal/intc"
	"github.com/Blackrose/pru485/internal/shmem"
	"github.com/Blackrose/pru485/internal/uio"
)

const usage = `usage: pru485ctl <config.yaml> <command> [arg]

commands:
  mode M|S        select master or slave firmware role
  baud <rate>     apply a baud profile
  counter <n>     set the sync counter
  timeout <n>     set the cycle timeout, in ticks
  step            load the sync-step program
  stop            clear the sync stop flag (master only)
  clean           zero the head of the I/O region
  addr            sample the address straps and publish the result
  sync            force the DMA buffer back to host-visible state
  dump            print the parsed shared-region header
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	cmd := os.Args[2]
	arg := ""
	if len(os.Args) > 3 {
		arg = os.Args[3]
	}

	// sync is sysfs-only; no session needed.
	if cmd == "sync" {
		if err := uio.SyncDDR(cfg.Device.SysfsDir); err != nil {
			log.Fatalf("sync_ddr failed: %v", err)
		}
		return
	}

	node, err := uio.Open(cfg.Device.UIOPath, cfg.Device.MemSize)
	if err != nil {
		log.Fatalf("uio open failed: %v", err)
	}
	defer node.Close()

	dev := device.New(uio.NewPins(), hwaddr.DefaultPins)
	dev.Attach(node.Window(), cfg.Device.PintcOffset, *cfg.Device.EventIndex)

	hostBit := intc.HostIntBase + *cfg.Device.EventIndex
	go node.ServeIRQ(hostBit, func(bit int) { dev.HandleInterrupt(bit) })

	sess, err := dev.Open()
	if err != nil {
		log.Fatalf("device open failed: %v", err)
	}
	defer sess.Close()

	if err := run(sess, cmd, arg); err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

func run(sess *device.Session, cmd, arg string) error {
	switch cmd {
	case "mode":
		if len(arg) != 1 {
			return fmt.Errorf("mode wants M or S")
		}
		return sess.SetMode(arg[0])

	case "baud":
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return err
		}
		return sess.SetBaudRate(uint32(n))

	case "counter":
		n, err := strconv.ParseUint(arg, 10, 16)
		if err != nil {
			return err
		}
		return sess.SetCounter(uint16(n))

	case "timeout":
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return err
		}
		return sess.SetTimeout(uint32(n))

	case "step":
		return sess.SyncStep()

	case "stop":
		return sess.SyncStop()

	case "clean":
		return sess.Clean()

	case "addr":
		addr, err := sess.HardwareAddress()
		if err != nil {
			return err
		}
		fmt.Printf("hardware address: %d\n", addr)
		return nil

	case "dump":
		return dump(sess)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// regionHeader is the host-interpreted slice of the shared region, for
// diagnostics only.
type regionHeader struct {
	Status      uint8
	BaudConfig  uint8
	BaudLSB     uint8
	BaudMSB     uint8
	Timeout     uint32
	HWAddr      uint8
	Mode        string
	ByteTimeNs  uint32
	Counter     uint16
	OutboundLen uint32
}

func dump(sess *device.Session) error {
	// The snapshot carries the inbound window; the header fields come
	// through the same control surface the firmware sees.
	snap, err := sess.Read()
	if err != nil {
		return err
	}

	w, err := sess.Window()
	if err != nil {
		return err
	}
	hdr := regionHeader{
		Status:      w.U8(shmem.StatusOffset),
		BaudConfig:  w.U8(shmem.BaudConfigOffset),
		BaudLSB:     w.U8(shmem.BaudLSBOffset),
		BaudMSB:     w.U8(shmem.BaudMSBOffset),
		Timeout:     w.U32(shmem.TimeoutOffset),
		HWAddr:      w.U8(shmem.HWAddrOffset),
		Mode:        string(rune(w.U8(shmem.ModeOffset))),
		ByteTimeNs:  w.U24(shmem.ByteLengthOffset),
		Counter:     w.U16(shmem.CounterOffset),
		OutboundLen: w.U32(shmem.OutboundOffset),
	}

	spew.Dump(hdr)
	fmt.Printf("inbound window: %d bytes, first 16: % x\n", len(snap), snap[:16])
	return nil
}
