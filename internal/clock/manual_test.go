package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_FiresInTimeOrder(t *testing.T) {
	src := NewManual(testStart)
	var order []string
	src.AfterFunc(3*time.Second, func() { order = append(order, "after3") })
	src.Every(2*time.Second, func() { order = append(order, "every2") })

	src.Advance(4 * time.Second)

	assert.Equal(t, []string{"every2", "after3", "every2"}, order)
	assert.Equal(t, testStart.Add(4*time.Second), src.Now())
}

func TestManual_StopPreventsFiring(t *testing.T) {
	src := NewManual(testStart)
	fired := false
	stop := src.AfterFunc(time.Second, func() { fired = true })
	stop()
	stop()

	src.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, src.Pending())
}
