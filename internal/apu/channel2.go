package apu

// channel2 is the plain square channel (no sweep).
type channel2 struct {
	square
}

func newChannel2() *channel2 {
	c := &channel2{}
	c.length.full = 64
	return c
}
