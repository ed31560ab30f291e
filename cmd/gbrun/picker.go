package main

import (
	"path/filepath"
	"time"

	"github.com/retrogb/gbcore/internal/host"
)

// pickROM implements spec §6.3's "run DIR" selection UI: a vertical list
// of bar-coded rows (one per .gb/.gbc file, width proportional to name
// length) the host display renders, navigated with Up/Down and
// confirmed with A, polled directly through the host.Joypad/Display
// capabilities the core itself uses (no separate input path).
func pickROM(h interface {
	host.Display
	host.Joypad
}, entries []string) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}
	selected := 0
	lastDown, lastUp, lastA := false, false, false

	for {
		renderPicker(h, entries, selected)

		down := h.JoypadPressed(host.KeyDown)
		up := h.JoypadPressed(host.KeyUp)
		a := h.JoypadPressed(host.KeyA)
		b := h.JoypadPressed(host.KeyB)

		if down && !lastDown {
			selected = (selected + 1) % len(entries)
		}
		if up && !lastUp {
			selected = (selected - 1 + len(entries)) % len(entries)
		}
		if a && !lastA {
			return entries[selected], true
		}
		if b {
			return "", false
		}

		lastDown, lastUp, lastA = down, up, a
		time.Sleep(16 * time.Millisecond)
	}
}

// renderPicker draws one highlighted row per entry, eight pixel rows
// tall, the file's basename length determining the bar's width.
func renderPicker(disp host.Display, entries []string, selected int) {
	const rowHeight = 8
	var line [160]uint32
	for y := 0; y < 144; y++ {
		row := y / rowHeight
		for x := range line {
			line[x] = 0xFFFFFF
		}
		if row < len(entries) {
			name := filepath.Base(entries[row])
			width := len(name) * 6
			if width > 160 {
				width = 160
			}
			shade := uint32(0x808080)
			if row == selected {
				shade = 0x000000
			}
			for x := 0; x < width; x++ {
				line[x] = shade
			}
		}
		disp.VRAMUpdate(y, line)
	}
}
