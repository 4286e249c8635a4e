package fixed_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/mewkiz/flacenc/internal/fixed"
)

func TestResidualsGolden(t *testing.T) {
	samples := []int16{0, 1, 4, 9, 16, 25, 36}
	golden := []struct {
		order int
		want  []int64
	}{
		{order: 0, want: []int64{0, 1, 4, 9, 16, 25, 36}},
		{order: 1, want: []int64{1, 3, 5, 7, 9, 11}},
		{order: 2, want: []int64{2, 2, 2, 2, 2}},
		{order: 3, want: []int64{0, 0, 0, 0}},
		{order: 4, want: []int64{0, 0, 0}},
	}
	for _, g := range golden {
		got := fixed.Residuals(samples, g.order)
		if diff := pretty.Compare(g.want, got); diff != "" {
			t.Errorf("order %d: residuals mismatch (-want +got):\n%s", g.order, diff)
		}
	}
}

// Residuals agree with the direct evaluation of the predictor polynomials.
func TestResidualsPolynomial(t *testing.T) {
	coeffs := [][]int64{
		{},
		{1},
		{2, -1},
		{3, -3, 1},
		{4, -6, 4, -1},
	}
	r := rand.New(rand.NewSource(1))
	samples := make([]int32, 300)
	for i := range samples {
		samples[i] = int32(r.Intn(1<<24) - 1<<23)
	}
	for order, cs := range coeffs {
		got := fixed.Residuals(samples, order)
		if len(got) != len(samples)-order {
			t.Fatalf("order %d: length mismatch; expected %d, got %d", order, len(samples)-order, len(got))
		}
		for i := order; i < len(samples); i++ {
			pred := int64(0)
			for j, c := range cs {
				pred += c * int64(samples[i-1-j])
			}
			want := int64(samples[i]) - pred
			if got[i-order] != want {
				t.Fatalf("order %d, sample %d: residual mismatch; expected %d, got %d", order, i, want, got[i-order])
			}
		}
	}
}

// Residuals of alternating full scale samples stay below 2^k times the sample
// magnitude.
func TestResidualsExtremes(t *testing.T) {
	samples := make([]int16, 64)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = math.MinInt16
		} else {
			samples[i] = math.MaxInt16
		}
	}
	for order := 0; order <= fixed.MaxOrder; order++ {
		bound := int64(1) << uint(order) * 32768
		for i, e := range fixed.Residuals(samples, order) {
			if e >= bound || e <= -bound-1 {
				t.Errorf("order %d, residual %d: %d exceeds bound %d", order, i, e, bound)
			}
		}
	}
	// The side channel of 32-bit audio is 33 bits wide.
	side := []int64{-1 << 32, 1<<32 - 1, -1 << 32, 1<<32 - 1, -1 << 32, 1<<32 - 1}
	got := fixed.Residuals(side, 4)
	want := []int64{-1<<36 + 8, 1<<36 - 8}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("33-bit residuals mismatch (-want +got):\n%s", diff)
	}
}

func TestResidualsDoesNotModifyInput(t *testing.T) {
	samples := []int32{5, -3, 7, 100, -100}
	orig := append([]int32(nil), samples...)
	fixed.Residuals(samples, 4)
	if diff := pretty.Compare(orig, samples); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestWarmup(t *testing.T) {
	samples := []int16{7, 8, 9, 10, 11}
	for order := 0; order <= fixed.MaxOrder; order++ {
		got := fixed.Warmup(samples, order)
		if diff := pretty.Compare(samples[:order], got); diff != "" {
			t.Errorf("order %d: warm-up mismatch (-want +got):\n%s", order, diff)
		}
	}
}

func TestValidate(t *testing.T) {
	for order := -1; order <= 6; order++ {
		err := fixed.Validate(order)
		valid := order >= 0 && order <= fixed.MaxOrder
		if valid && err != nil {
			t.Errorf("order %d: unexpected error; %v", order, err)
		}
		if !valid && !errors.Is(err, fixed.ErrInvalidOrder) {
			t.Errorf("order %d: error mismatch; expected %v, got %v", order, fixed.ErrInvalidOrder, err)
		}
	}
}
