package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/go-todo/events"
)

func TestFormatSSEMessage(t *testing.T) {
	ev := events.Event{
		Type:   events.TodoDeleted,
		UserID: 1,
		TodoID: 3,
		At:     time.Date(2024, 7, 3, 22, 40, 41, 0, time.UTC),
	}

	msg, err := formatSSEMessage(ev.Type, ev)
	require.NoError(t, err)
	assert.Equal(t,
		"event: todo.deleted\n"+
			"retry: 15000\n"+
			`data: {"type":"todo.deleted","user_id":1,"todo_id":3,"at":"2024-07-03T22:40:41Z"}`+"\n\n",
		msg)
}

func TestFormatSSEMessageRejectsUnencodable(t *testing.T) {
	_, err := formatSSEMessage("bad", make(chan int))
	assert.Error(t, err)
}
