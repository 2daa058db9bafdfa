package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler(t *testing.T) {
	s := NewManualScheduler()
	var order []string

	s.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	stopped := s.AfterFunc(10*time.Millisecond, func() { order = append(order, "never") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	assert.Equal(t, 2, s.Pending())

	assert.Equal(t, 0, s.Advance(5*time.Millisecond))
	assert.Equal(t, 2, s.Advance(15*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 0, s.Pending())
}

func TestManualScheduler_CallbackScheduling(t *testing.T) {
	s := NewManualScheduler()
	runs := 0
	var tick func()
	tick = func() {
		runs++
		if runs < 3 {
			s.AfterFunc(0, tick)
		}
	}
	s.AfterFunc(time.Millisecond, tick)

	assert.Equal(t, 3, s.Advance(time.Millisecond))
}

func TestManualScheduler_FiredTimerCannotStop(t *testing.T) {
	s := NewManualScheduler()
	timer := s.AfterFunc(0, func() {})
	s.Advance(0)
	assert.False(t, timer.Stop())
}

func TestSystemScheduler(t *testing.T) {
	done := make(chan struct{})
	SystemScheduler{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not run")
	}
}
