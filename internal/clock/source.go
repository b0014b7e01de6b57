package clock

import (
	"sync"
	"time"
)

// Source supplies the current time and schedules callbacks. The returned stop
// functions are idempotent.
type Source interface {
	Now() time.Time
	Every(d time.Duration, fn func()) (stop func())
	AfterFunc(d time.Duration, fn func()) (stop func())
}

// System is the wall-clock Source.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (System) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
