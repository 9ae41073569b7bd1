package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/elicit/internal/testutil"
)

func TestExchangeSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty", text: "", wantErr: ErrEmptyMessage},
		{name: "spaces", text: "   ", wantErr: ErrEmptyMessage},
		{name: "tabs and newlines", text: "\t\n ", wantErr: ErrEmptyMessage},
		{name: "text", text: "We need a login page"},
		{name: "padded text", text: "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeAssistant()
			ex := NewExchange(fake)

			_, err := ex.Submit(context.Background(), tt.text, "p1", "user_1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, fake.ChatCalls(), "validation failure must not reach the assistant")
				return
			}
			require.NoError(t, err)
			calls := fake.ChatCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.text, calls[0].Message, "text is sent untrimmed")
		})
	}
}

func TestExchangeStates(t *testing.T) {
	fake := testutil.NewFakeAssistant("first")
	ex := NewExchange(fake)
	assert.Equal(t, Idle, ex.State())

	reply, err := ex.Submit(context.Background(), "hello", "p1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)
	assert.Equal(t, Idle, ex.State())
	assert.NoError(t, ex.LastError())

	fake.FailChat(testutil.ErrFake)
	_, err = ex.Submit(context.Background(), "again", "p1", "user_1")
	require.Error(t, err)
	assert.Equal(t, Errored, ex.State())
	assert.True(t, errors.Is(ex.LastError(), testutil.ErrFake))

	fake.FailChat(nil)
	_, err = ex.Submit(context.Background(), "recovered", "p1", "user_1")
	require.NoError(t, err)
	assert.Equal(t, Idle, ex.State())
}

func TestExchangeRejectsConcurrentSubmit(t *testing.T) {
	fake := testutil.NewFakeAssistant()
	release := fake.HoldChat()
	defer release()
	ex := NewExchange(fake)

	done := make(chan error, 1)
	go func() {
		_, err := ex.Submit(context.Background(), "slow", "p1", "user_1")
		done <- err
	}()

	require.Eventually(t, ex.IsPending, waitFor, tick)

	_, err := ex.Submit(context.Background(), "second", "p1", "user_1")
	require.ErrorIs(t, err, ErrExchangePending)

	release()
	require.NoError(t, <-done)
	assert.Len(t, fake.ChatCalls(), 1)
	assert.False(t, ex.IsPending())
}

func TestExchangeStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "errored", Errored.String())
	assert.Equal(t, "unknown", ExchangeState(42).String())
}
