package tui

import (
	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/settings"
)

type docLoadedMsg struct {
	doc settings.Document
}

type docSavedMsg struct{}

type profilesLoadedMsg struct {
	names  []string
	active string
}

type profileAppliedMsg struct {
	name string
	doc  settings.Document
}

type profileDeletedMsg struct {
	name string
}

// streamMsg is one text message from a running operation's side channel.
type streamMsg struct {
	text string
}

// opDoneMsg carries the terminal result of a running operation.
type opDoneMsg struct {
	result ops.Result
}

// opClosedMsg signals that the operation's channel drained completely.
type opClosedMsg struct{}

type errMsg struct {
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

type notifyMsg struct {
	text string
}

type clearNotificationMsg struct{}
