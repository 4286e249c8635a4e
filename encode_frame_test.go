package flac

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/mewkiz/flacenc/frame"
	"github.com/mewkiz/flacenc/internal/bitwriter"
	"github.com/mewkiz/flacenc/internal/hashutil/crc16"
	"github.com/mewkiz/flacenc/internal/hashutil/crc8"
	"github.com/mewkiz/flacenc/internal/sample"
)

func TestEncodeFrameHeader(t *testing.T) {
	golden := []struct {
		id                            frame.BlockID
		nominal, blockSize, rate, bps int
		channels                      frame.Channels
		want                          []byte
	}{
		{
			id:        frame.FrameNumber(0),
			nominal:   192,
			blockSize: 192,
			rate:      44100,
			bps:       16,
			channels:  frame.ChannelsMono,
			want:      []byte{0xFF, 0xF8, 0x19, 0x08, 0x00, 0xBA},
		},
		{
			id:        frame.FrameNumber(1),
			nominal:   4608,
			blockSize: 4608,
			rate:      8000,
			bps:       8,
			channels:  frame.ChannelsLR,
			want:      []byte{0xFF, 0xF8, 0x54, 0x12, 0x01, 0x7F},
		},
		{
			// Uncommon block size and sample rate.
			id:        frame.FrameNumber(5),
			nominal:   100,
			blockSize: 100,
			rate:      11025,
			bps:       20,
			channels:  frame.ChannelsLRC,
			want:      []byte{0xFF, 0xF8, 0x60, 0x2A, 0x05, 0x63, 0x41},
		},
		{
			// Variable block size stream.
			id:        frame.SampleNumber(4096),
			nominal:   4096,
			blockSize: 1000,
			rate:      44100,
			bps:       24,
			channels:  frame.ChannelsMidSide,
			want:      []byte{0xFF, 0xF9, 0x79, 0xAC, 0xE1, 0x80, 0x80, 0x03, 0xE7, 0x67},
		},
	}
	for _, g := range golden {
		hdr, err := frame.NewHeader(g.id, g.nominal, g.blockSize, g.rate, g.bps)
		if err != nil {
			t.Errorf("%v: unable to create frame header; %v", g.id, err)
			continue
		}
		bw := bitwriter.New()
		if err := encodeFrameHeader(bw, hdr, g.channels); err != nil {
			t.Errorf("%v: unable to encode frame header; %v", g.id, err)
			continue
		}
		got := bw.Finish()
		if !bytes.Equal(got, g.want) {
			t.Errorf("%v: frame header mismatch; expected % X, got % X", g.id, g.want, got)
		}
		// The trailing CRC-8 covers the entire header.
		if crc := crc8.ChecksumATM(got); crc != 0 {
			t.Errorf("%v: CRC-8 residue mismatch; expected 0, got 0x%02X", g.id, crc)
		}
	}
}

func TestEncodeFrameHeaderInvalidChannels(t *testing.T) {
	hdr, err := frame.NewHeader(frame.FrameNumber(0), 4096, 4096, 44100, 16)
	if err != nil {
		t.Fatal(err)
	}
	if err := encodeFrameHeader(bitwriter.New(), hdr, frame.Channels(11)); err == nil {
		t.Errorf("expected error for reserved channel assignment")
	}
}

func TestChecksumEmpty(t *testing.T) {
	if crc := crc8.ChecksumATM(nil); crc != 0 {
		t.Errorf("CRC-8 mismatch; expected 0, got 0x%02X", crc)
	}
	if crc := crc16.ChecksumIBM(nil); crc != 0 {
		t.Errorf("CRC-16 mismatch; expected 0, got 0x%04X", crc)
	}
}

func TestBlockSizeCode(t *testing.T) {
	golden := []struct {
		blockSize   uint16
		want        uint64
		nsuffixBits uint
	}{
		{blockSize: 192, want: 0x1},
		{blockSize: 576, want: 0x2},
		{blockSize: 1152, want: 0x3},
		{blockSize: 2304, want: 0x4},
		{blockSize: 4608, want: 0x5},
		{blockSize: 256, want: 0x8},
		{blockSize: 512, want: 0x9},
		{blockSize: 1024, want: 0xA},
		{blockSize: 2048, want: 0xB},
		{blockSize: 4096, want: 0xC},
		{blockSize: 8192, want: 0xD},
		{blockSize: 16384, want: 0xE},
		{blockSize: 32768, want: 0xF},
		{blockSize: 1, want: 0x6, nsuffixBits: 8},
		{blockSize: 255, want: 0x6, nsuffixBits: 8},
		{blockSize: 257, want: 0x7, nsuffixBits: 16},
		{blockSize: 65535, want: 0x7, nsuffixBits: 16},
	}
	for _, g := range golden {
		got, nsuffixBits := blockSizeCode(g.blockSize)
		if got != g.want || nsuffixBits != g.nsuffixBits {
			t.Errorf("%d: block size code mismatch; expected (0x%X, %d), got (0x%X, %d)", g.blockSize, g.want, g.nsuffixBits, got, nsuffixBits)
		}
	}
}

// testSubblocks returns subblocks of varying character with samples of bps
// bits.
func testSubblocks(bps uint, n int) [][]int64 {
	r := rand.New(rand.NewSource(int64(bps)))
	max := int64(1)<<(bps-1) - 1
	min := -max - 1
	var (
		constant = make([]int64, n)
		noise    = make([]int64, n)
		ramp     = make([]int64, n)
		extremes = make([]int64, n)
		small    = make([]int64, n)
	)
	for i := 0; i < n; i++ {
		constant[i] = min
		noise[i] = r.Int63n(max-min+1) + min
		ramp[i] = min + int64(i)%(max-min+1)
		if i%2 == 0 {
			extremes[i] = min
		} else {
			extremes[i] = max
		}
		small[i] = int64(r.Intn(7) - 3)
	}
	return [][]int64{constant, noise, ramp, extremes, small, {max}, {min, max}}
}

func TestSubframeLength(t *testing.T) {
	for _, bps := range []uint{4, 8, 12, 16} {
		for i, samples := range testSubblocks(bps, 300) {
			checkSubframeLength[int16](t, samples, bps, i)
			// Side channels of bps+1 bits.
			checkSubframeLength[int32](t, samples, bps+1, i)
		}
	}
	for _, bps := range []uint{17, 24, 32} {
		for i, samples := range testSubblocks(bps, 300) {
			checkSubframeLength[int32](t, samples, bps, i)
			checkSubframeLength[int64](t, samples, bps+1, i)
		}
	}
}

// checkSubframeLength verifies that the analyzed length of the best subframe
// of samples equals its serialized length.
func checkSubframeLength[T sample.Int](t *testing.T, samples []int64, bps uint, i int) {
	t.Helper()
	subblock := make([]T, len(samples))
	for j, x := range samples {
		subblock[j] = T(x)
	}
	sf, n := analyzeSubframe(subblock, bps)
	bw := bitwriter.New()
	if err := encodeSubframe(bw, sf, bps); err != nil {
		t.Errorf("bps=%d, subblock %d: unable to encode subframe; %v", bps, i, err)
		return
	}
	if got := uint64(bw.BitLen()); got != subframeBits(sf, bps) {
		t.Errorf("bps=%d, subblock %d: %v subframe bit length mismatch; expected %d, got %d", bps, i, sf.Pred(), subframeBits(sf, bps), got)
	}
	if got := len(bw.Finish()); got != n {
		t.Errorf("bps=%d, subblock %d: %v subframe length mismatch; expected %d, got %d", bps, i, sf.Pred(), n, got)
	}
}

func TestAnalyzeSubframe(t *testing.T) {
	golden := []struct {
		samples []int16
		want    frame.Pred
		order   int
	}{
		{samples: []int16{7, 7, 7, 7}, want: frame.PredConstant},
		{samples: []int16{5}, want: frame.PredConstant},
		// Too few samples for fixed prediction to pay off.
		{samples: []int16{1, -30000}, want: frame.PredVerbatim},
		{samples: []int16{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100}, want: frame.PredFixed, order: 2},
		{samples: []int16{0, 1, 4, 9, 16, 25, 36, 49, 64, 81, 100, 121, 144, 169}, want: frame.PredFixed, order: 3},
	}
	for i, g := range golden {
		sf, _ := analyzeSubframe(g.samples, 16)
		if sf.Pred() != g.want {
			t.Errorf("i=%d: prediction method mismatch; expected %v, got %v", i, g.want, sf.Pred())
			continue
		}
		if sf, ok := sf.(*frame.Fixed[int16]); ok && sf.Order != g.order {
			t.Errorf("i=%d: fixed order mismatch; expected %d, got %d", i, g.order, sf.Order)
		}
	}
}
