package frame_test

import (
	"errors"
	"testing"

	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/fixed"
	"github.com/mewkiz/flacenc/internal/rice"
)

func TestNewHeader(t *testing.T) {
	golden := []struct {
		id         frame.BlockID
		nominal    int
		blockSize  int
		sampleRate int
		bps        int
		want       error
	}{
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 4096, sampleRate: 44100, bps: 16},
		{id: frame.FrameNumber(3), nominal: 4096, blockSize: 1, sampleRate: 44100, bps: 16},
		{id: frame.SampleNumber(1<<36 - 1), nominal: 16, blockSize: 16, sampleRate: frame.MaxSampleRate, bps: 32},
		{id: frame.FrameNumber(0), nominal: 192, blockSize: 192, sampleRate: 1, bps: 4},
		{id: frame.FrameNumber(0), nominal: 15, blockSize: 15, sampleRate: 44100, bps: 16, want: frame.ErrInvalidBlockSize},
		{id: frame.FrameNumber(0), nominal: 65536, blockSize: 16, sampleRate: 44100, bps: 16, want: frame.ErrInvalidBlockSize},
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 0, sampleRate: 44100, bps: 16, want: frame.ErrInvalidBlockSize},
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 4097, sampleRate: 44100, bps: 16, want: frame.ErrInvalidBlockSize},
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 4096, sampleRate: 0, bps: 16, want: frame.ErrInvalidSampleRate},
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 4096, sampleRate: frame.MaxSampleRate + 1, bps: 16, want: frame.ErrInvalidSampleRate},
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 4096, sampleRate: 44100, bps: 3, want: frame.ErrInvalidBitsPerSample},
		{id: frame.FrameNumber(0), nominal: 4096, blockSize: 4096, sampleRate: 44100, bps: 33, want: frame.ErrInvalidBitsPerSample},
		{id: frame.SampleNumber(1 << 36), nominal: 4096, blockSize: 4096, sampleRate: 44100, bps: 16, want: frame.ErrInvalidBlockNum},
		{id: nil, nominal: 4096, blockSize: 4096, sampleRate: 44100, bps: 16, want: frame.ErrInvalidBlockNum},
	}
	for i, g := range golden {
		hdr, err := frame.NewHeader(g.id, g.nominal, g.blockSize, g.sampleRate, g.bps)
		if !errors.Is(err, g.want) {
			t.Errorf("i=%d: error mismatch; expected %v, got %v", i, g.want, err)
			continue
		}
		if err != nil {
			continue
		}
		if int(hdr.BlockSize) != g.blockSize || int(hdr.NominalBlockSize) != g.nominal {
			t.Errorf("i=%d: block size mismatch; expected %d/%d, got %d/%d", i, g.blockSize, g.nominal, hdr.BlockSize, hdr.NominalBlockSize)
		}
		_, isFrameNum := g.id.(frame.FrameNumber)
		if hdr.HasFixedBlockSize() != isFrameNum {
			t.Errorf("i=%d: blocking strategy mismatch; expected fixed=%v, got fixed=%v", i, isFrameNum, hdr.HasFixedBlockSize())
		}
	}
}

func TestChannelsCount(t *testing.T) {
	golden := []struct {
		channels frame.Channels
		want     int
	}{
		{channels: frame.ChannelsMono, want: 1},
		{channels: frame.ChannelsLR, want: 2},
		{channels: frame.ChannelsLRCLfeLsRsSlSr, want: 8},
		{channels: frame.ChannelsLeftSide, want: 2},
		{channels: frame.ChannelsSideRight, want: 2},
		{channels: frame.ChannelsMidSide, want: 2},
		{channels: frame.Channels(11), want: 0},
	}
	for _, g := range golden {
		if got := g.channels.Count(); got != g.want {
			t.Errorf("channel count mismatch of %v; expected %d, got %d", g.channels, g.want, got)
		}
	}
	for n := 0; n <= 9; n++ {
		channels, err := frame.IndependentChannels(n)
		if n < 1 || n > 8 {
			if !errors.Is(err, frame.ErrInvalidChannelCount) {
				t.Errorf("n=%d: error mismatch; expected %v, got %v", n, frame.ErrInvalidChannelCount, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("n=%d: unexpected error; %v", n, err)
			continue
		}
		if got := channels.Count(); got != n {
			t.Errorf("n=%d: channel count mismatch; got %d", n, got)
		}
	}
}

func TestLayoutChannels(t *testing.T) {
	golden := []struct {
		layout frame.Layout[int16, int32]
		want   frame.Channels
	}{
		{layout: &frame.Independent[int16, int32]{Subframes: make([]frame.Subframe[int16], 1)}, want: frame.ChannelsMono},
		{layout: &frame.Independent[int16, int32]{Subframes: make([]frame.Subframe[int16], 2)}, want: frame.ChannelsLR},
		{layout: &frame.Independent[int16, int32]{Subframes: make([]frame.Subframe[int16], 6)}, want: frame.ChannelsLRCLfeLsRs},
		{layout: &frame.LeftSide[int16, int32]{}, want: frame.ChannelsLeftSide},
		{layout: &frame.SideRight[int16, int32]{}, want: frame.ChannelsSideRight},
		{layout: &frame.MidSide[int16, int32]{}, want: frame.ChannelsMidSide},
	}
	for _, g := range golden {
		if got := g.layout.Channels(); got != g.want {
			t.Errorf("channel assignment mismatch of %T; expected %v, got %v", g.layout, g.want, got)
		}
	}
}

func TestNewFixed(t *testing.T) {
	samples := []int32{10, 20, 30, 40, 50, 60, 70, 80}
	sf, err := frame.NewFixed(samples, 2)
	if err != nil {
		t.Fatalf("unable to create fixed subframe; %v", err)
	}
	if sf.Order != 2 || len(sf.Warmup) != 2 || sf.Warmup[0] != 10 || sf.Warmup[1] != 20 {
		t.Errorf("warm-up mismatch; got order %d, warm-up %v", sf.Order, sf.Warmup)
	}
	for i, e := range sf.Residuals {
		if e != 0 {
			t.Errorf("residual %d mismatch; expected 0, got %d", i, e)
		}
	}
	if sf.Param != 0 || sf.Method != frame.ResidualCodingMethodRice1 {
		t.Errorf("residual coding mismatch; expected rice1 with parameter 0, got method %d with parameter %d", sf.Method, sf.Param)
	}
	if n := sf.NSamples(); n != len(samples) {
		t.Errorf("sample count mismatch; expected %d, got %d", len(samples), n)
	}
	for _, order := range []int{0, 5, -1} {
		if _, err := frame.NewFixed(samples, order); !errors.Is(err, fixed.ErrInvalidOrder) {
			t.Errorf("order %d: error mismatch; expected %v, got %v", order, fixed.ErrInvalidOrder, err)
		}
	}
}

// Residuals too large for a 4-bit Rice parameter select the 5-bit parameter
// field.
func TestNewFixedRice2(t *testing.T) {
	samples := make([]int64, 64)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 1 << 30
		} else {
			samples[i] = -1 << 30
		}
	}
	sf, err := frame.NewFixed(samples, 1)
	if err != nil {
		t.Fatalf("unable to create fixed subframe; %v", err)
	}
	if sf.Param <= rice.MaxParam4 {
		t.Fatalf("parameter mismatch; expected > %d, got %d", rice.MaxParam4, sf.Param)
	}
	if sf.Method != frame.ResidualCodingMethodRice2 || sf.Method.ParamSize() != 5 {
		t.Errorf("residual coding method mismatch; expected rice2, got %d", sf.Method)
	}
}
