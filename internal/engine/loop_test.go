package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/rasterx/internal/xserver"
)

func TestCloseRequestStopsLoop(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(100, 100, "t")
	require.NoError(t, err)

	w.InstallHook(CloseEvent, StopLoop, c)
	srv.Queue = append(srv.Queue, srv.CloseRequest(w.ID()))
	// would fail with errNoEvents if the loop kept reading
	require.NoError(t, c.Run())
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, srv.Queue)
}

func TestCloseRequestDefaultHook(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(100, 100, "t")
	require.NoError(t, err)

	exposed := 0
	w.InstallExposeHook(func(param any) { exposed++ }, nil)
	srv.Queue = append(srv.Queue, srv.CloseRequest(w.ID()))
	require.NoError(t, c.Run())
	assert.Equal(t, 1, exposed)
	assert.Equal(t, Idle, c.State())
}

func TestCloseHookOverride(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(10, 10, "t")
	require.NoError(t, err)

	closes := 0
	w.InstallHook(CloseEvent, func(ev xserver.Event, param any) { closes++ }, nil)
	w.InstallKeyHook(func(keysym int, param any) { c.RequestStop() }, nil)
	srv.Queue = append(srv.Queue,
		srv.CloseRequest(w.ID()),
		xserver.Event{Kind: xserver.KeyPress, Window: w.ID(), Keysym: 0xff1b})
	require.NoError(t, c.Run())
	assert.Equal(t, 1, closes)
}

func TestInstallHookReplaces(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(10, 10, "t")
	require.NoError(t, err)

	var got []string
	w.InstallHook(xserver.MotionNotify, func(ev xserver.Event, param any) {
		got = append(got, "old")
	}, nil)
	w.InstallHook(xserver.MotionNotify, func(ev xserver.Event, param any) {
		got = append(got, param.(string))
	}, "new")
	assert.Empty(t, got)

	c.dispatch(xserver.Event{Kind: xserver.MotionNotify, Window: w.ID()})
	assert.Equal(t, []string{"new"}, got)
}

func TestDispatchWithoutHook(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(10, 10, "t")
	require.NoError(t, err)

	srv.Calls = nil
	c.dispatch(xserver.Event{Kind: xserver.ConfigureNotify, Window: w.ID()})
	c.dispatch(xserver.Event{Kind: xserver.KeyPress, Window: w.ID()})
	c.dispatch(xserver.Event{Kind: xserver.ButtonPress, Window: w.ID()})
	c.dispatch(xserver.Event{Kind: xserver.EventKind(200), Window: w.ID()})
	c.dispatch(xserver.Event{Kind: xserver.KeyPress, Window: 12345})
	assert.Empty(t, srv.Calls)
	assert.Equal(t, Idle, c.State())

	w.InstallHook(xserver.EventKind(200), func(xserver.Event, any) { t.Fatal("installed") }, nil)
	c.dispatch(xserver.Event{Kind: xserver.EventKind(200), Window: w.ID()})
}

func TestDispatchSpecialSlots(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(10, 10, "t")
	require.NoError(t, err)

	var generic []xserver.EventKind
	record := func(ev xserver.Event, param any) { generic = append(generic, ev.Kind) }
	w.InstallHook(xserver.ButtonPress, record, nil)
	w.InstallHook(xserver.KeyPress, record, nil)
	w.InstallHook(xserver.Expose, record, nil)

	// generic slots serve while the specialised ones are empty
	c.dispatch(xserver.Event{Kind: xserver.ButtonPress, Window: w.ID()})
	assert.Equal(t, []xserver.EventKind{xserver.ButtonPress}, generic)

	var button, mx, my, keysym, exposes int
	w.InstallMouseHook(func(b, x, y int, param any) { button, mx, my = b, x, y }, nil)
	w.InstallKeyHook(func(k int, param any) { keysym = k }, nil)
	w.InstallExposeHook(func(param any) { exposes++ }, nil)

	c.dispatch(xserver.Event{Kind: xserver.ButtonPress, Window: w.ID(), Detail: 3, X: 7, Y: 9})
	c.dispatch(xserver.Event{Kind: xserver.KeyPress, Window: w.ID(), Detail: 38, Keysym: 'a'})
	c.dispatch(xserver.Event{Kind: xserver.Expose, Window: w.ID()})

	assert.Equal(t, 3, button)
	assert.Equal(t, 7, mx)
	assert.Equal(t, 9, my)
	assert.Equal(t, int('a'), keysym)
	assert.Equal(t, 1, exposes)
	assert.Len(t, generic, 1)
}

func TestLoopHook(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(10, 10, "t")
	require.NoError(t, err)

	var order []string
	w.InstallExposeHook(func(any) { order = append(order, "expose") }, nil)
	ticks := 0
	c.InstallLoopHook(func(param any) {
		ticks++
		order = append(order, "tick")
		if ticks == 3 {
			param.(*Connection).RequestStop()
		}
	}, c)

	require.NoError(t, c.Run())
	assert.Equal(t, []string{"expose", "tick", "tick", "tick"}, order)
	assert.Equal(t, Idle, c.State())
}

func TestLoopHookRemoved(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))

	c.InstallLoopHook(func(any) {}, nil)
	c.InstallLoopHook(nil, nil)
	// blocking read on an empty queue surfaces the error
	assert.ErrorIs(t, c.Run(), errNoEvents)
	assert.Equal(t, Idle, c.State())
}

func TestRequestStopOutsideRun(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	c.RequestStop()
	assert.Equal(t, Idle, c.State())
}

func TestStopLoopIgnoresOtherParams(t *testing.T) {
	assert.NotPanics(t, func() { StopLoop(xserver.Event{}, nil) })
	assert.NotPanics(t, func() { StopLoop(xserver.Event{}, "x") })
}

func TestCloseFromHook(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	w, err := c.NewWindow(10, 10, "t")
	require.NoError(t, err)

	w.InstallExposeHook(func(any) { c.Close() }, nil)
	require.NoError(t, c.Run())
	assert.True(t, w.Destroyed())
	assert.Equal(t, 1, srv.Closed)
}
