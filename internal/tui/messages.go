package tui

import (
	"github.com/matheuskafuri/newstalk/internal/session"
)

type queryDoneMsg struct {
	msg session.Message
	ok  bool
}

type marqueeTickMsg struct{}
