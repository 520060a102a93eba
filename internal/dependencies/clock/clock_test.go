package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemNowIsUTCMillis(t *testing.T) {
	now := New().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Millisecond))
	assert.WithinDuration(t, time.Now(), now, time.Second)
	// No monotonic reading: String() omits the "m=" suffix
	assert.NotContains(t, now.String(), "m=")
}
