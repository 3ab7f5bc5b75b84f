package common

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "user error shows its message",
			err:     NewUserError("Pick a panel.", "unknown sub-command"),
			message: "❌ Pick a panel.",
		},
		{
			name:    "system error hides the cause",
			err:     NewSystemError(errors.New("connection refused"), "save failed"),
			message: "❌ Something went wrong. Please try again later.",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			message: "❌ Something went wrong. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session := new(MockSession)
			i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{GuildID: "g1"}}
			session.On("InteractionRespond", i.Interaction, mock.MatchedBy(func(resp *discordgo.InteractionResponse) bool {
				return resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0 &&
					resp.Data.Content == tt.message
			})).Return(nil)

			HandleError(session, i, tt.err)

			session.AssertExpectations(t)
		})
	}
}

func TestBotError(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout")
	err := NewSystemError(cause, "load config")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load config: timeout", err.Error())

	assert.Equal(t, "bad input", NewUserError("Nope", "bad input").Error())
}
