package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/spectra/internal/player"
)

type frameMsg time.Time

// playbackEndedMsg carries the audio it was waiting on so a stale wait from a
// replaced source is ignored.
type playbackEndedMsg struct{ audio Audio }

type audioLoadedMsg struct {
	audio Audio
	meta  player.Metadata
	err   error
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func checkDone(a Audio) tea.Cmd {
	return func() tea.Msg {
		<-a.Done()
		return playbackEndedMsg{audio: a}
	}
}
