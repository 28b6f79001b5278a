// internal/bridge/modbus/client.go
package modbus

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"
)

// Client adapts a Modbus TCP connection to the bridge's register-write
// contract. Not safe for concurrent use; the bridge runner is the single
// caller.
type Client struct {
	handler *modbus.TCPClientHandler
	c       modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID

	if err := handler.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: handler,
		c:       modbus.NewClient(handler),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// WriteRegisters writes regs as holding registers starting at addr on
// unitID.
func (c *Client) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}

	c.handler.SlaveId = unitID

	buf := make([]byte, 2*len(regs))
	for i, r := range regs {
		buf[2*i] = byte(r >> 8)
		buf[2*i+1] = byte(r)
	}

	_, err := c.c.WriteMultipleRegisters(addr, uint16(len(regs)), buf)
	return err
}
