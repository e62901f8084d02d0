// Package app is the Bubbletea root model for lantern. It owns the page
// surface, feeds mouse gestures to the trigger detector, hands scheduler
// messages back to the effect loop, and renders the page with its effect
// layers on every frame.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/lantern/pkg/collectors"
	limage "gitlab.com/tinyland/lab/lantern/pkg/image"
)

// DataUpdateEvent carries a collector result into the update loop.
// Receivers type-assert Data based on Source.
type DataUpdateEvent struct {
	Source    string
	Data      any
	Err       error
	Timestamp time.Time
}

// RefreshDoneEvent reports the end of a manual refresh.
type RefreshDoneEvent struct {
	Err error
}

// avatarEvent carries a decoded avatar. A nil Avatar with a nil Err means
// the snapshot had no avatar bytes.
type avatarEvent struct {
	Avatar *limage.Avatar
	Err    error
	size   int
}

// WaitForUpdate returns a Cmd that blocks on the collector channel and
// delivers the next update. It yields nil once the channel is closed.
func WaitForUpdate(ch <-chan collectors.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return DataUpdateEvent{Source: u.Source, Data: u.Data, Err: u.Error, Timestamp: u.Timestamp}
	}
}

// RefreshCmd runs refresh off the update loop and reports completion.
func RefreshCmd(ctx context.Context, refresh func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return RefreshDoneEvent{Err: refresh(ctx)}
	}
}

func decodeAvatarCmd(data []byte) tea.Cmd {
	return func() tea.Msg {
		if len(data) == 0 {
			return avatarEvent{}
		}
		a, err := limage.NewAvatar(data)
		return avatarEvent{Avatar: a, Err: err, size: len(data)}
	}
}
