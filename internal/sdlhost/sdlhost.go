// Package sdlhost implements internal/host.Host on top of go-sdl2,
// grounded on the teacher's pkg/audio SDL audio device wiring and the
// go-jeebie SDL2 backend's window/texture/QueueAudio pattern: a
// streaming texture for the 160x144 framebuffer, SDL_QueueAudio for
// the mixed APU stream, and keyboard-state polling for the joypad.
package sdlhost

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/retrogb/gbcore/internal/host"
)

const (
	screenWidth  = 160
	screenHeight = 144

	sampleRate     = 44100
	targetQueued   = 4 * 2048 // bytes: ~2048 stereo 16-bit samples of slack
	audioBatch     = 512      // stereo samples queued per pump iteration
)

// Config controls window scale and save behavior; zero-value Config is
// usable with sensible defaults substituted in New.
type Config struct {
	Title    string
	Scale    int
	SavePath string // cartridge RAM battery file; empty disables persistence
	Log      *logrus.Entry
}

// Host is an internal/host.Host implementation backed by a real SDL2
// window, audio device, and keyboard.
type Host struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pixels []byte // RGBA8888 scratch buffer, screenWidth*screenHeight*4

	audioDevice sdl.AudioDeviceID

	savePath string
	log      *logrus.Entry

	start   time.Time
	running bool
}

// keyScancodes maps the core's logical buttons to physical SDL scancodes:
// arrow keys for the D-pad, X/Z for A/B, Backspace/Return for
// Select/Start.
var keyScancodes = map[host.Key]sdl.Scancode{
	host.KeyRight:  sdl.SCANCODE_RIGHT,
	host.KeyLeft:   sdl.SCANCODE_LEFT,
	host.KeyUp:     sdl.SCANCODE_UP,
	host.KeyDown:   sdl.SCANCODE_DOWN,
	host.KeyA:      sdl.SCANCODE_X,
	host.KeyB:      sdl.SCANCODE_Z,
	host.KeySelect: sdl.SCANCODE_BACKSPACE,
	host.KeyStart:  sdl.SCANCODE_RETURN,
}

// New initializes SDL's video and audio subsystems and opens a window
// sized cfg.Scale times the DMG's 160x144 screen (scale 0 defaults to 3).
func New(cfg Config) (*Host, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = 3
	}
	if cfg.Title == "" {
		cfg.Title = "gbcore"
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.New())
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdlhost: init: %w", err)
	}

	window, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(screenWidth*cfg.Scale), int32(screenHeight*cfg.Scale), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, screenWidth, screenHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: create texture: %w", err)
	}

	spec := &sdl.AudioSpec{Freq: sampleRate, Format: sdl.AUDIO_S16LSB, Channels: 2, Samples: 1024}
	obtained := &sdl.AudioSpec{}
	dev, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		cfg.Log.WithError(err).Warn("sdlhost: audio device unavailable, running muted")
	} else {
		sdl.PauseAudioDevice(dev, false)
	}

	h := &Host{
		window:      window,
		renderer:    renderer,
		texture:     texture,
		pixels:      make([]byte, screenWidth*screenHeight*4),
		audioDevice: dev,
		savePath:    cfg.SavePath,
		log:         cfg.Log,
		start:       time.Now(),
		running:     true,
	}
	return h, nil
}

// SetSavePath changes where LoadRAM/SaveRAM persist cartridge RAM,
// letting a host opened before the ROM is known (e.g. during the "run
// DIR" picker) be reused for the ROM the user selects.
func (h *Host) SetSavePath(path string) {
	h.savePath = path
}

// Close releases every SDL resource the host opened.
func (h *Host) Close() {
	if h.audioDevice != 0 {
		sdl.CloseAudioDevice(h.audioDevice)
	}
	h.texture.Destroy()
	h.renderer.Destroy()
	h.window.Destroy()
	sdl.Quit()
}

// VRAMUpdate writes one scanline into the pixel buffer and, on the last
// visible line, uploads and presents the completed frame.
func (h *Host) VRAMUpdate(line int, pixels [160]uint32) {
	base := line * screenWidth * 4
	for x, rgb := range pixels {
		o := base + x*4
		// RGBA8888 is stored little-endian, so byte order is A,B,G,R.
		h.pixels[o] = 0xFF
		h.pixels[o+1] = byte(rgb)
		h.pixels[o+2] = byte(rgb >> 8)
		h.pixels[o+3] = byte(rgb >> 16)
	}
	if line != screenHeight-1 {
		return
	}
	if err := h.texture.Update(nil, h.pixels, screenWidth*4); err != nil {
		h.log.WithError(err).Warn("sdlhost: texture update failed")
		return
	}
	h.renderer.Clear()
	h.renderer.Copy(h.texture, nil, nil)
	h.renderer.Present()
}

// JoypadPressed reports whether the mapped SDL scancode is currently held.
func (h *Host) JoypadPressed(key host.Key) bool {
	state := sdl.GetKeyboardState()
	code, ok := keyScancodes[key]
	if !ok {
		return false
	}
	return state[code] != 0
}

// SoundPlay launches a goroutine that pulls mixed samples from stream
// and queues them to the SDL audio device until the stream goes silent.
func (h *Host) SoundPlay(stream host.Stream) {
	if h.audioDevice == 0 {
		return
	}
	go h.pumpAudio(stream)
}

func (h *Host) pumpAudio(stream host.Stream) {
	buf := make([]int16, audioBatch*2)
	max := float64(stream.Max())
	for h.running && stream.On() {
		if sdl.GetQueuedAudioSize(h.audioDevice) > targetQueued {
			time.Sleep(time.Millisecond)
			continue
		}
		for i := 0; i < audioBatch; i++ {
			l, r := stream.Next(sampleRate)
			buf[i*2] = scaleSample(l, max)
			buf[i*2+1] = scaleSample(r, max)
		}
		sdl.QueueAudio(h.audioDevice, int16SliceToBytes(buf))
	}
}

func scaleSample(v uint16, max float64) int16 {
	if max <= 0 {
		return 0
	}
	scaled := (float64(v)/max)*2 - 1
	return int16(scaled * 32767)
}

func int16SliceToBytes(s []int16) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

// Clock returns elapsed microseconds since the host was created, the
// monotonic counter the frequency governor and MBC3 RTC measure against.
func (h *Host) Clock() uint64 {
	return uint64(time.Since(h.start).Microseconds())
}

// SendByte/RecvByte implement the local-loopback-only serial contract
// (spec §1): with no link partner attached, nothing is ever received.
func (h *Host) SendByte(b uint8)            {}
func (h *Host) RecvByte() (uint8, bool)     { return 0, false }

// Sched polls the SDL event queue for a quit request and reports
// whether the emulation loop should keep running.
func (h *Host) Sched() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e.(type) {
		case *sdl.QuitEvent:
			h.running = false
		}
	}
	return h.running
}

// LoadRAM reads a previously saved cartridge RAM image from SavePath.
// A missing file is not an error: the mapper zero-fills in that case.
func (h *Host) LoadRAM(size int) ([]byte, error) {
	if h.savePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(h.savePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

// SaveRAM persists cartridge RAM to SavePath whenever the cartridge's
// RAM-enable latch is cleared (spec §6.1 save_ram).
func (h *Host) SaveRAM(data []byte) error {
	if h.savePath == "" {
		return nil
	}
	return os.WriteFile(h.savePath, data, 0o644)
}
