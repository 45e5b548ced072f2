// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package announce

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSpeaker struct {
	mu      sync.Mutex
	numbers []int
	err     error
}

func (r *recordingSpeaker) Speak(_ context.Context, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numbers = append(r.numbers, number)
	return r.err
}

func (r *recordingSpeaker) spoken() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.numbers...)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Numero 12 allo sportello", Text(12))
}

func TestDispatcherSpeaksEverything(t *testing.T) {
	rec := &recordingSpeaker{}
	d := NewDispatcher(rec, 3, 100)
	d.Start()

	for i := 1; i <= 20; i++ {
		d.Announce(i)
	}
	d.Close()

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, rec.spoken())
	assert.Zero(t, d.Dropped())
}

func TestDispatcherDropsOldest(t *testing.T) {
	rec := &recordingSpeaker{}
	d := NewDispatcher(rec, 1, 2)

	// Workers are not running yet so the queue fills up
	d.Announce(1)
	d.Announce(2)
	d.Announce(3)
	d.Announce(4)
	assert.EqualValues(t, 2, d.Dropped())

	d.Start()
	d.Close()

	assert.Equal(t, []int{3, 4}, rec.spoken())
}

func TestDispatcherIgnoresAfterClose(t *testing.T) {
	rec := &recordingSpeaker{}
	d := NewDispatcher(rec, 1, 4)
	d.Start()
	d.Close()

	d.Announce(7)
	d.Close()
	assert.Empty(t, rec.spoken())
}

func TestDispatcherSurvivesSpeakerErrors(t *testing.T) {
	rec := &recordingSpeaker{err: errors.New("speaker unplugged")}
	d := NewDispatcher(rec, 2, 0)
	d.Start()

	d.Announce(1)
	d.Announce(2)
	d.Close()
	assert.Contains(t, rec.spoken(), 2)
}

func TestMultiSpeaker(t *testing.T) {
	ok := &recordingSpeaker{}
	broken := &recordingSpeaker{err: errors.New("boom")}
	also := &recordingSpeaker{}

	err := MultiSpeaker{ok, broken, also}.Speak(context.Background(), 5)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []int{5}, ok.spoken())
	assert.Equal(t, []int{5}, also.spoken())

	assert.NoError(t, MultiSpeaker{ok, LogSpeaker{}}.Speak(context.Background(), 6))
}

func TestRedisSpeakerPublishes(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	speaker := NewRedisSpeaker(rdb, "eliminacode:chiamate")

	mock.ExpectPublish("eliminacode:chiamate", `{"numero":42,"testo":"Numero 42 allo sportello"}`).SetVal(1)
	require.NoError(t, speaker.Speak(context.Background(), 42))

	mock.ExpectPublish("eliminacode:chiamate", `{"numero":43,"testo":"Numero 43 allo sportello"}`).
		SetErr(errors.New("connection refused"))
	assert.ErrorContains(t, speaker.Speak(context.Background(), 43), "eliminacode:chiamate")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommandSpeaker(t *testing.T) {
	_, err := NewCommandSpeaker("   ")
	assert.Error(t, err)

	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	ok, err := NewCommandSpeaker("true -v it")
	require.NoError(t, err)
	assert.NoError(t, ok.Speak(context.Background(), 1))

	failing, err := NewCommandSpeaker("false")
	require.NoError(t, err)
	assert.ErrorContains(t, failing.Speak(context.Background(), 1), "tts command false failed")
}
