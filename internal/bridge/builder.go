// internal/bridge/builder.go
package bridge

import (
	"time"

	bmodbus "github.com/Blackrose/pru485/internal/bridge/modbus"
	cfg "github.com/Blackrose/pru485/internal/config"
)

// BuildPlan turns the validated bridge configuration into a replication
// plan. Status placement reuses the first target's endpoint settings.
func BuildPlan(bc cfg.BridgeConfig) Plan {
	plan := Plan{}

	for _, t := range bc.Targets {
		plan.Targets = append(plan.Targets, Target{
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
			Quantity: t.Quantity,
		})
	}

	if bc.StatusSlot != nil && len(bc.Targets) > 0 {
		first := bc.Targets[0]
		sp := &StatusPlan{
			Endpoint:   first.Endpoint,
			BaseSlot:   *bc.StatusSlot,
			DeviceName: bc.DeviceName,
		}
		if first.StatusUnitID != nil {
			sp.UnitID = *first.StatusUnitID
		}
		plan.Status = sp
	}

	return plan
}

// BuildClients connects one Modbus TCP client per unique endpoint.
// Fail fast at startup: any connect error tears the built ones down.
func BuildClients(bc cfg.BridgeConfig) (map[string]Client, func(), error) {
	clients := make(map[string]Client)
	var closers []func() error

	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	timeout := time.Duration(bc.TimeoutMs) * time.Millisecond
	for _, t := range bc.Targets {
		if _, ok := clients[t.Endpoint]; ok {
			continue
		}
		c, err := bmodbus.New(bmodbus.Config{
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Timeout:  timeout,
		})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		clients[t.Endpoint] = c
		closers = append(closers, c.Close)
	}

	return clients, closeAll, nil
}
