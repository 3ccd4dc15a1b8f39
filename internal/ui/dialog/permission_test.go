package dialog

import (
	"context"
	"testing"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/domain/entity"
	"github.com/bnema/geoprompt/internal/domain/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	showCalls []fakeShowCall
	dismissed int
	callback  func(result port.PermissionDialogResult)
}

type fakeShowCall struct {
	heading string
	body    string
}

func (f *fakePrompter) Show(
	_ context.Context,
	heading string,
	body string,
	callback func(result port.PermissionDialogResult),
) {
	f.showCalls = append(f.showCalls, fakeShowCall{
		heading: heading,
		body:    body,
	})
	f.callback = callback
}

func (f *fakePrompter) Dismiss(context.Context) {
	f.dismissed++
	f.callback = nil
}

func (f *fakePrompter) Respond(allowed, persistent bool) {
	if f.callback == nil {
		return
	}
	cb := f.callback
	f.callback = nil
	cb(port.PermissionDialogResult{Allowed: allowed, Persistent: persistent})
}

type decisions struct {
	got []entity.PermissionDecision
}

func (d *decisions) record(decision entity.PermissionDecision) {
	d.got = append(d.got, decision)
}

func TestPermissionDialog_QueuesRequestsWhilePromptVisible(t *testing.T) {
	prompter := &fakePrompter{}
	d := NewPermissionDialog(prompter)
	arena := prompt.NewArena()

	first, second := &decisions{}, &decisions{}
	d.OnPermissionRequested(context.Background(), "https://example.com", arena.Acquire("https://example.com", first.record))
	d.OnPermissionRequested(context.Background(), "", arena.Acquire("", second.record))

	if assert.Len(t, prompter.showCalls, 1) {
		assert.Equal(t, "Allow Location Access?", prompter.showCalls[0].heading)
		assert.Equal(t, "https://example.com wants to use your location.", prompter.showCalls[0].body)
	}
	assert.Equal(t, 1, d.Queued())
	assert.Empty(t, first.got)
	assert.Empty(t, second.got)

	prompter.Respond(true, false)
	assert.Equal(t, []entity.PermissionDecision{{Allow: true, Retain: false}}, first.got)

	if assert.Len(t, prompter.showCalls, 2) {
		assert.Equal(t, "This page wants to use your location.", prompter.showCalls[1].body)
	}
	assert.Empty(t, second.got)

	prompter.Respond(false, true)
	assert.Equal(t, []entity.PermissionDecision{{Allow: false, Retain: true}}, second.got)
	assert.Zero(t, d.Queued())
}

func TestPermissionDialog_NoPrompter_DeniesRequest(t *testing.T) {
	d := NewPermissionDialog(nil)
	arena := prompt.NewArena()

	got := &decisions{}
	cb := arena.Acquire("https://example.com", got.record)
	d.OnPermissionRequested(context.Background(), "https://example.com", cb)

	assert.Equal(t, []entity.PermissionDecision{{}}, got.got)
	assert.Equal(t, prompt.StateResolved, cb.State())
}

func TestPermissionDialog_WithdrawDismissesVisiblePrompt(t *testing.T) {
	prompter := &fakePrompter{}
	d := NewPermissionDialog(prompter)
	arena := prompt.NewArena()

	first, second := &decisions{}, &decisions{}
	cb1 := arena.Acquire("https://a.example", first.record)
	cb2 := arena.Acquire("https://b.example", second.record)
	d.OnPermissionRequested(context.Background(), "https://a.example", cb1)
	d.OnPermissionRequested(context.Background(), "https://b.example", cb2)

	require.True(t, arena.Withdraw(cb1.Token()))
	d.OnPermissionRequestWithdrawn(context.Background())

	assert.Equal(t, 1, prompter.dismissed)
	require.Len(t, prompter.showCalls, 2)
	assert.Equal(t, "https://b.example wants to use your location.", prompter.showCalls[1].body)

	prompter.Respond(true, true)
	assert.Empty(t, first.got)
	assert.Equal(t, []entity.PermissionDecision{{Allow: true, Retain: true}}, second.got)
}

func TestPermissionDialog_WithdrawDropsQueuedRequest(t *testing.T) {
	prompter := &fakePrompter{}
	d := NewPermissionDialog(prompter)
	arena := prompt.NewArena()

	first, second := &decisions{}, &decisions{}
	cb1 := arena.Acquire("https://a.example", first.record)
	cb2 := arena.Acquire("https://b.example", second.record)
	d.OnPermissionRequested(context.Background(), "https://a.example", cb1)
	d.OnPermissionRequested(context.Background(), "https://b.example", cb2)

	require.True(t, arena.Withdraw(cb2.Token()))
	d.OnPermissionRequestWithdrawn(context.Background())

	assert.Zero(t, prompter.dismissed)
	assert.Zero(t, d.Queued())

	prompter.Respond(false, false)
	assert.Equal(t, []entity.PermissionDecision{{}}, first.got)
	assert.Len(t, prompter.showCalls, 1, "withdrawn request is never shown")
}

func TestPermissionDialog_StaleResponseIgnored(t *testing.T) {
	prompter := &fakePrompter{}
	d := NewPermissionDialog(prompter)
	arena := prompt.NewArena()

	got := &decisions{}
	cb := arena.Acquire("https://a.example", got.record)
	d.OnPermissionRequested(context.Background(), "https://a.example", cb)
	stale := prompter.callback

	require.True(t, arena.Withdraw(cb.Token()))
	d.OnPermissionRequestWithdrawn(context.Background())

	stale(port.PermissionDialogResult{Allowed: true})
	assert.Empty(t, got.got)
}
