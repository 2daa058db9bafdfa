package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notelifecycle "github.com/aretw0/floatnote/pkg/adapters/lifecycle"
	"github.com/aretw0/floatnote/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	in := make(chan core.Event, 2)
	in <- core.NewEvent(core.EventSaved, "a")
	in <- core.NewEvent(core.EventDeleted, "b")
	close(in)

	src := notelifecycle.NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	require.Len(t, got, 2)
	assert.Contains(t, got[0], string(core.EventSaved))
	assert.Contains(t, got[1], string(core.EventDeleted))
}

func TestSource_FiltersTypes(t *testing.T) {
	in := make(chan core.Event, 3)
	in <- core.NewEvent(core.EventSaved, "a")
	in <- core.NewEvent(core.EventStoreChanged, "")
	in <- core.NewEvent(core.EventClosed, "a")
	close(in)

	src := notelifecycle.NewSource(in, core.EventStoreChanged)
	require.NoError(t, src.Start(context.Background()))

	var got []core.Event
	for e := range src.Events() {
		got = append(got, e.(core.Event))
	}
	require.Len(t, got, 1)
	assert.Equal(t, core.EventStoreChanged, got[0].Type)
}

func TestSource_StopsOnCancel(t *testing.T) {
	in := make(chan core.Event)
	ctx, cancel := context.WithCancel(context.Background())

	src := notelifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("source did not close after cancel")
	}
}
