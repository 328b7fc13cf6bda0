package xpassport

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind_Lifecycle(t *testing.T) {
	p := New()
	owner := &struct{}{}

	assert.Equal(t, StateUnbound, p.State())
	require.NoError(t, p.Bind(owner))
	assert.Equal(t, StateAlive, p.State())
	assert.True(t, p.BoundTo(owner))
	assert.False(t, p.BoundTo(&struct{}{}))
}

func TestBind_Rebind(t *testing.T) {
	p := New()
	first := &struct{}{}
	require.NoError(t, p.Bind(first))

	err := p.Bind(&struct{}{})
	assert.ErrorIs(t, err, ErrRebind)
	// 失败的 Bind 不得破坏原有绑定
	assert.True(t, p.BoundTo(first))
	assert.Equal(t, StateAlive, p.State())
}

func TestBind_NilOwner(t *testing.T) {
	p := New()
	assert.ErrorIs(t, p.Bind(nil), ErrNilOwner)
	assert.Equal(t, StateUnbound, p.State())
}

func TestBind_Concurrent(t *testing.T) {
	p := New()
	const attempts = 16

	var wg sync.WaitGroup
	var bound sync.Map
	errs := make([]error, attempts)
	owners := make([]*struct{}, attempts)
	for i := range attempts {
		owners[i] = &struct{}{}
	}

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = p.Bind(owners[i])
			if errs[i] == nil {
				bound.Store(i, true)
			}
		}()
	}
	wg.Wait()

	// 恰好一个胜者
	var winners int
	var winner int
	bound.Range(func(k, _ any) bool {
		winners++
		winner = k.(int)
		return true
	})
	require.Equal(t, 1, winners)
	assert.True(t, p.BoundTo(owners[winner]))
	for i, err := range errs {
		if i != winner {
			assert.ErrorIs(t, err, ErrRebind)
		}
	}
}

func TestUnbind_Rollback(t *testing.T) {
	p := New()
	owner := &struct{}{}
	require.NoError(t, p.Bind(owner))
	require.NoError(t, p.Unbind())

	assert.Equal(t, StateUnbound, p.State())
	assert.False(t, p.BoundTo(owner))

	// 回滚后可重新绑定
	require.NoError(t, p.Bind(owner))
	assert.Equal(t, StateAlive, p.State())
}

func TestUnbind_WrongState(t *testing.T) {
	p := New()
	err := p.Unbind()
	require.ErrorIs(t, err, ErrUnexpectedState)

	var use *UnexpectedStateError
	require.ErrorAs(t, err, &use)
	assert.Equal(t, StateUnbound, use.Observed)
	assert.Equal(t, StateAlive, use.Want)
}

func TestAdvance_FullChain(t *testing.T) {
	p := New()
	require.NoError(t, p.Bind(&struct{}{}))

	require.NoError(t, p.Advance(StateAlive, StateShuttingDown))
	require.NoError(t, p.Advance(StateShuttingDown, StateShutdown))
	require.NoError(t, p.Advance(StateShutdown, StateDestroying))
	require.NoError(t, p.Advance(StateDestroying, StateDestroyed))
	assert.Equal(t, StateDestroyed, p.State())
}

func TestAdvance_ObservedState(t *testing.T) {
	p := New()
	require.NoError(t, p.Bind(&struct{}{}))

	err := p.Advance(StateShutdown, StateDestroying)
	var use *UnexpectedStateError
	require.ErrorAs(t, err, &use)
	assert.Equal(t, StateAlive, use.Observed)
	assert.Contains(t, err.Error(), "alive")
	assert.Contains(t, err.Error(), "shutdown")
}

func TestAPICounter(t *testing.T) {
	p := New()
	assert.Equal(t, int64(0), p.InFlight())

	p.EnterAPI()
	p.EnterAPI()
	assert.Equal(t, int64(2), p.InFlight())

	p.LeaveAPI()
	p.LeaveAPI()
	assert.Equal(t, int64(0), p.InFlight())
}

func TestClose_States(t *testing.T) {
	// 未绑定：安静
	require.NoError(t, New().Close())

	// 走完生命周期：安静
	p := New()
	require.NoError(t, p.Bind(&struct{}{}))
	require.NoError(t, p.Advance(StateAlive, StateShuttingDown))
	require.NoError(t, p.Advance(StateShuttingDown, StateShutdown))
	require.NoError(t, p.Advance(StateShutdown, StateDestroying))
	require.NoError(t, p.Advance(StateDestroying, StateDestroyed))
	require.NoError(t, p.Close())

	// 池仍存活：记录 error 日志但继续（契约违规属于调用方）
	live := New()
	require.NoError(t, live.Bind(&struct{}{}))
	require.NoError(t, live.Close())
	assert.Equal(t, StateAlive, live.State(), "Close 不改变状态")
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateUnbound, "unbound"},
		{StateAlive, "alive"},
		{StateShuttingDown, "shutting_down"},
		{StateShutdown, "shutdown"},
		{StateDestroying, "destroying"},
		{StateDestroyed, "destroyed"},
		{State(99), "invalid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}

func TestZeroValue(t *testing.T) {
	var p Passport
	assert.Equal(t, StateUnbound, p.State())
	require.NoError(t, p.Bind(&struct{}{}))

	if !errors.Is(p.Bind(&struct{}{}), ErrRebind) {
		t.Fatal("零值 Passport 绑定后应拒绝重复绑定")
	}
}
