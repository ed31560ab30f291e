package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameSequencerCyclesEachStep64TimesIn512Ticks(t *testing.T) {
	var s sequencer
	counts := map[uint8]int{}
	for i := 0; i < 512; i++ {
		s.advance(sequencerPeriod, func(step uint8, _ stepKind) {
			counts[step]++
		})
	}
	for step := uint8(0); step < 8; step++ {
		assert.Equal(t, 64, counts[step], "step %d should fire 64 times per 512 ticks", step)
	}
}

func TestSequencerStepKinds(t *testing.T) {
	assert.True(t, kindOf(0).length)
	assert.False(t, kindOf(1).length)
	assert.True(t, kindOf(2).sweep)
	assert.True(t, kindOf(6).sweep)
	assert.True(t, kindOf(7).envelope)
	assert.False(t, kindOf(0).envelope)
}

func TestNR52PowerOffClearsRegisters(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80) // power on
	a.Write(0xFF11, 0xFF) // duty+length on ch1
	a.Write(0xFF25, 0xFF) // pan

	a.Write(0xFF26, 0x00) // power off
	assert.Equal(t, uint8(0), a.ch1.duty)
	assert.Equal(t, uint8(0), a.pan)
	assert.False(t, a.powered)
}

func TestRegistersIgnoredWhilePoweredOff(t *testing.T) {
	a := New()
	a.Write(0xFF11, 0xC0)
	assert.Equal(t, uint8(0), a.ch1.duty, "register writes other than NR52 and wave RAM should be dropped while powered off")
}

func TestWaveRAMWritableRegardlessOfPower(t *testing.T) {
	a := New()
	a.Write(0xFF30, 0xAB)
	assert.Equal(t, uint8(0xAB), a.Read(0xFF30))
}

func TestSquareChannelTriggerAndAmplitude(t *testing.T) {
	a := New()
	a.Write(0xFF26, 0x80)
	a.Write(0xFF12, 0xF0) // initial volume 15, no sweep
	a.Write(0xFF11, 0x80) // duty = 50%
	a.Write(0xFF13, 0x00)
	a.Write(0xFF14, 0x87) // trigger, freq high bits

	assert.True(t, a.ch1.enabled)
	assert.Equal(t, uint8(15), a.ch1.env.volume)
}

func TestChannel4NoiseLFSRReversible(t *testing.T) {
	c := newChannel4()
	c.divisorCode = 0
	c.shift = 0
	c.shortMode = false
	c.env.initial = 0x0F // DAC on, so the trigger leaves the channel enabled
	c.trigger()
	seed := c.lfsr

	period := c.period()
	for i := 0; i < (1<<15)-1; i++ {
		c.step(period)
	}
	assert.Equal(t, seed, c.lfsr, "15-bit LFSR should return to its seed after 2^15-1 ticks")
}

func TestChannel3WaveAmplitudeShift(t *testing.T) {
	c := newChannel3()
	c.dacEnabled = true
	c.wave[0] = 0xF0 // samples 0,1 = 0xF, 0x0
	c.trigger()

	c.volumeCode = 1 // full volume, no shift
	assert.Equal(t, uint8(0xF), c.amplitude())

	c.volumeCode = 2 // shift right 1
	assert.Equal(t, uint8(0x7), c.amplitude())

	c.volumeCode = 0 // muted
	assert.Equal(t, uint8(0), c.amplitude())
}
