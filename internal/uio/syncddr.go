// internal/uio/syncddr.go
package uio

import (
	"os"
	"path/filepath"
)

// SyncDDR pokes the driver's sync_ddr attribute under the platform
// device's sysfs directory, forcing the DMA buffer back into host-visible
// state. Trigger-only; the write value is ignored by the driver.
func SyncDDR(devDir string) error {
	f, err := os.OpenFile(filepath.Join(devDir, "sync_ddr"), os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString("1")
	return err
}
