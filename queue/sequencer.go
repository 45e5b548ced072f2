// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package queue

import "sync"

// Announcer receives every number that is called, recalled or stepped back to.
// Announce is invoked with the sequencer lock held and must not block.
type Announcer interface {
	Announce(number int)
}

// AnnouncerFunc adapts a plain function to the Announcer interface
type AnnouncerFunc func(number int)

func (f AnnouncerFunc) Announce(number int) { f(number) }

// State is a snapshot of the two counters
type State struct {
	Issued int `json:"emessi"`
	Called int `json:"chiamato"`
}

// Sequencer hands out ticket numbers and tracks which one is being served.
// Called never exceeds Issued. The zero value is not usable; use New.
type Sequencer struct {
	mu        sync.Mutex
	issued    int
	called    int
	announcer Announcer
}

// New returns a sequencer starting from (0, 0). A nil announcer discards
// announcements.
func New(announcer Announcer) *Sequencer {
	if announcer == nil {
		announcer = AnnouncerFunc(func(int) {})
	}
	return &Sequencer{announcer: announcer}
}

// IssueNext hands out the next ticket number
func (s *Sequencer) IssueNext() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// CallNext advances to the next waiting ticket and announces it.
// With nobody waiting it changes nothing.
func (s *Sequencer) CallNext() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.called < s.issued {
		s.called++
		s.announcer.Announce(s.called)
	}
	return s.called
}

// RecallCurrent announces the current number again.
// Nothing is announced before the first call.
func (s *Sequencer) RecallCurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.called > 0 {
		s.announcer.Announce(s.called)
	}
	return s.called
}

// CallPrevious steps back one number and announces it. It never goes below 1.
func (s *Sequencer) CallPrevious() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.called > 1 {
		s.called--
		s.announcer.Announce(s.called)
	}
	return s.called
}

// CurrentState returns both counters read together
func (s *Sequencer) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{Issued: s.issued, Called: s.called}
}

// Reset sets both counters back to zero
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued = 0
	s.called = 0
}
