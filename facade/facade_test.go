package facade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The test process has no DSA hardware and no sysfs WQ entries, so these
// exercise the CPU-only fallback path end to end; the accelerator path is
// covered by internal/split's scenario tests against fake.Engine.

func TestFillSetsEveryByte(t *testing.T) {
	dst := make([]byte, 4096)
	Fill(dst, 0x5a)
	for i, b := range dst {
		require.Equalf(t, byte(0x5a), b, "byte %d", i)
	}
}

func TestFillReturnsDst(t *testing.T) {
	dst := make([]byte, 16)
	got := Fill(dst, 1)
	assert.Same(t, &dst[0], &got[0])
}

func TestFillEmptyIsNoop(t *testing.T) {
	var dst []byte
	assert.Empty(t, Fill(dst, 1))
}

func TestCopyReproducesSource(t *testing.T) {
	src := make([]byte, 8192)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, 8192)

	Copy(dst, src)

	assert.Equal(t, src, dst)
}

func TestMoveHandlesForwardOverlap(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i)
	}
	want := make([]byte, 32)
	copy(want, buf[:32])

	Move(buf[4:36], buf[:32])

	assert.Equal(t, want, buf[4:36])
}

func TestCompareEqualBuffers(t *testing.T) {
	a := make([]byte, 1024)
	b := make([]byte, 1024)
	assert.Equal(t, 0, Compare(a, b))
}

func TestCompareFirstMismatchSign(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 4}
	assert.Negative(t, Compare(a, b))
	assert.Positive(t, Compare(b, a))
}

func TestCompareEmptyIsEqual(t *testing.T) {
	assert.Equal(t, 0, Compare(nil, nil))
}
