package sizing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errOverflow = errors.New("overflow")

func TestToInt(t *testing.T) {
	n, err := ToInt(42, errOverflow)
	assert.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = ToInt(math.MaxUint64, errOverflow)
	assert.ErrorIs(t, err, errOverflow)
}

func TestSubUint32(t *testing.T) {
	got, ok := SubUint32(7, 7)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), got)

	got, ok = SubUint32(12, 7)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), got)

	_, ok = SubUint32(6, 7)
	assert.False(t, ok)
}

func TestAddInt64(t *testing.T) {
	got, ok := AddInt64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, int64(3), got)

	_, ok = AddInt64(math.MaxInt64, 1)
	assert.False(t, ok)

	_, ok = AddInt64(-1, 1)
	assert.False(t, ok)
}

func TestCheckLimit(t *testing.T) {
	assert.NoError(t, CheckLimit(10, 10, errOverflow))
	assert.NoError(t, CheckLimit(math.MaxUint64, 0, errOverflow))
	assert.ErrorIs(t, CheckLimit(11, 10, errOverflow), errOverflow)
}
