package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["scene.Draw"] = 4200 * time.Microsecond
	frameTotals["camera.Update"] = 100 * time.Microsecond
	frameTotals["swap"] = 2 * time.Millisecond
	mu.Unlock()

	assert.Equal(t, "scene.Draw:4.2ms, swap:2.0ms", TopN(2))
	assert.Equal(t, "scene.Draw:4.2ms, swap:2.0ms, camera.Update:0.1ms", TopN(10))

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(3))
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	Track("a")()
	Track("a")()
	_, ok := Snapshot()["a"]
	assert.True(t, ok)
}
