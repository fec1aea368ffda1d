package golomb

import "testing"

func TestRiceEqualsGolombForPowerOfTwo(t *testing.T) {
	t.Parallel()

	for _, k := range []uint{0, 1, 2, 3, 4, 5} {
		m := uint32(1) << k
		for v := uint32(0); v < 64; v++ {
			rc := Rice{Log2M: k}.Encode(v)
			gc := Golomb{M: m}.Encode(v)

			if rc != gc {
				t.Fatalf("m=%d v=%d: Rice=%+v Golomb=%+v", m, v, rc, gc)
			}
		}
	}
}

func TestLog2M(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    uint32
		k    uint
		ok   bool
		skip bool
	}{
		{1, 0, true, false},
		{2, 1, true, false},
		{4, 2, true, false},
		{64, 6, true, false},
		{3, 0, false, false},
		{0, 0, false, false},
		{63, 0, false, false},
	}

	for _, tc := range tests {
		k, ok := Log2M(tc.m)
		if ok != tc.ok {
			t.Errorf("Log2M(%d) ok = %v, want %v", tc.m, ok, tc.ok)

			continue
		}

		if ok && k != tc.k {
			t.Errorf("Log2M(%d) = %d, want %d", tc.m, k, tc.k)
		}
	}
}

func TestCodewordLengthMonotonic(t *testing.T) {
	t.Parallel()

	// A prefix code derived from a geometric-ish source should never get
	// shorter as v grows.
	for _, m := range []uint32{1, 3, 5, 6, 7, 9, 13} {
		coder := Golomb{M: m}

		prevLen := uint(0)

		for v := uint32(0); v < 200; v++ {
			c := coder.Encode(v)
			if c.Length < prevLen {
				t.Fatalf("m=%d: length decreased at v=%d (%d -> %d)", m, v, prevLen, c.Length)
			}

			prevLen = c.Length
		}
	}
}

// TestCodewordFitsIn32Bits checks the 32-bit bound within the range the
// validator's spill formula is meant to keep callers inside of (spec.md
// section 3 invariant 2). Unbounded v can always be driven past 32 bits
// for any fixed m — that overflow is exactly what the spillover/escape
// mechanism in the escape package exists to avoid; it is not this
// package's job to reject large v.
func TestCodewordFitsIn32Bits(t *testing.T) {
	t.Parallel()

	for _, m := range []uint32{2, 3, 5, 8, 16, 31, 32, 63} {
		coder := Golomb{M: m}

		b := ceilLog2(m)
		maxV := m * uint32(30-b)

		for v := uint32(0); v < maxV; v++ {
			c := coder.Encode(v)
			if c.Length > 32 {
				t.Fatalf("m=%d v=%d: length %d exceeds 32 bits", m, v, c.Length)
			}
		}
	}
}
