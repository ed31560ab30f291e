// Package cartsave derives a stable save-slot key for a cartridge,
// replacing the teacher's TODO'd "MD5 Cart Checksum" naming scheme
// (pkg/emu/saves.go) with a real hash (spec §6.4).
package cartsave

import (
	"encoding/hex"

	"github.com/cespare/xxhash"
)

// Key fingerprints a cartridge by title and header bytes so the same
// physical cartridge always resolves to the same save slot across
// runs, independent of the ROM file's path on disk.
func Key(title string, header []byte) string {
	h := xxhash.New()
	h.Write([]byte(title))
	h.Write(header)
	return hex.EncodeToString(h.Sum(nil))
}
