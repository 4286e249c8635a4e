package flac

import "testing"

func TestParseStereoMode(t *testing.T) {
	golden := []struct {
		s    string
		want StereoMode
	}{
		{s: "auto", want: StereoAuto},
		{s: "independent", want: StereoIndependent},
		{s: "left-side", want: StereoLeftSide},
		{s: "Side-Right", want: StereoSideRight},
		{s: "MID-SIDE", want: StereoMidSide},
	}
	for _, g := range golden {
		got, err := ParseStereoMode(g.s)
		if err != nil {
			t.Errorf("%q: unable to parse stereo mode; %v", g.s, err)
			continue
		}
		if got != g.want {
			t.Errorf("%q: stereo mode mismatch; expected %v, got %v", g.s, g.want, got)
		}
	}
	if _, err := ParseStereoMode("surround"); err == nil {
		t.Errorf("expected error for invalid stereo mode")
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	var opts *Options
	got := opts.withDefaults()
	if got.BlockSize != DefaultBlockSize || got.Concurrency != 1 || got.Stereo != StereoAuto || got.Logger == nil {
		t.Errorf("default options mismatch; got %+v", got)
	}
	in := &Options{BlockSize: 1152, Concurrency: -3, Stereo: StereoMidSide}
	got = in.withDefaults()
	if got.BlockSize != 1152 || got.Concurrency != 1 || got.Stereo != StereoMidSide {
		t.Errorf("options mismatch; got %+v", got)
	}
	if in.Logger != nil {
		t.Errorf("input options modified")
	}
}
