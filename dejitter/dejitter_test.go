package dejitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSeedScenario reproduces spec §8's seed scenario: buffer size 3,
// insertions (2),(0),(3),(4 → yields 0, no gap),(5 → yields 2, gap-size
// 1 GAP), then a late (0 → yields nothing, arrived-late, gapSize 2), per
// the original implementation's gapSize = lastSent - seq.
func TestSeedScenario(t *testing.T) {
	d := New[string](3)

	_, info, ok := d.InsertItem(2, "two")
	assert.False(t, ok)
	assert.Equal(t, FillingBuffer, info.Type)

	_, info, ok = d.InsertItem(0, "zero")
	assert.False(t, ok)
	assert.Equal(t, FillingBuffer, info.Type)

	_, info, ok = d.InsertItem(3, "three")
	assert.False(t, ok)
	assert.Equal(t, FillingBuffer, info.Type)

	released, info, ok := d.InsertItem(4, "four")
	assert.True(t, ok)
	assert.Equal(t, "zero", released)
	assert.Equal(t, NoGap, info.Type)

	released, info, ok = d.InsertItem(5, "five")
	assert.True(t, ok)
	assert.Equal(t, "two", released)
	assert.Equal(t, Gap, info.Type)
	assert.Equal(t, uint64(1), info.GapSize)

	_, info, ok = d.InsertItem(0, "late-zero")
	assert.False(t, ok)
	assert.Equal(t, ArrivedLate, info.Type)
	assert.Equal(t, uint64(2), info.GapSize)
}

func TestSizeTracksBufferedItems(t *testing.T) {
	d := New[int](2)
	d.InsertItem(0, 0)
	assert.Equal(t, 1, d.Size())
	d.InsertItem(1, 1)
	assert.Equal(t, 2, d.Size())
	d.InsertItem(2, 2)
	assert.Equal(t, 2, d.Size(), "buffer stays at capacity once it releases on every further insert")
}
