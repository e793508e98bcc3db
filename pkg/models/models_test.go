package models_test

import (
	"testing"

	"github.com/VladPetriv/flastel/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage_Minimal(t *testing.T) {
	t.Parallel()

	msg, err := models.ParseMessage([]byte(`{"chat":{"id":1},"from":{"id":2},"text":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, int64(1), msg.ChatID())
	assert.Equal(t, int64(2), msg.From.ID)
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, models.KindText, msg.Kind())
	assert.Empty(t, msg.Photo)
	assert.Nil(t, msg.Video)
	assert.Nil(t, msg.Document)
	assert.Nil(t, msg.Audio)
	assert.Nil(t, msg.Voice)
	assert.Nil(t, msg.Contact)
	assert.Nil(t, msg.Sticker)
	assert.Nil(t, msg.Location)
	assert.Nil(t, msg.Venue)
	assert.Nil(t, msg.Poll)
	assert.Nil(t, msg.Dice)
	assert.Nil(t, msg.WebAppData)
	assert.Nil(t, msg.Game)
	assert.Nil(t, msg.SuccessfulPayment)
}

func TestParseMessage_RequiredFields(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc     string
		data     string
		expected error
	}{
		{
			desc:     "chat is missing",
			data:     `{"from":{"id":2},"text":"hi"}`,
			expected: models.ErrMissingChat,
		},
		{
			desc:     "sender is missing",
			data:     `{"chat":{"id":1},"text":"hi"}`,
			expected: models.ErrMissingSender,
		},
		{
			desc: "only required fields",
			data: `{"chat":{"id":1},"from":{"id":2}}`,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			msg, err := models.ParseMessage([]byte(tc.data))
			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				assert.Nil(t, msg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.KindUnknown, msg.Kind())
		})
	}
}

func TestMessage_KindPriority(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc     string
		data     string
		expected models.MessageKind
	}{
		{
			desc:     "photo wins over text",
			data:     `{"chat":{"id":1},"from":{"id":2},"text":"hi","photo":[{"file_id":"a","width":1,"height":1}]}`,
			expected: models.KindPhoto,
		},
		{
			desc:     "video wins over sticker",
			data:     `{"chat":{"id":1},"from":{"id":2},"sticker":{"file_id":"s"},"video":{"file_id":"v"}}`,
			expected: models.KindVideo,
		},
		{
			desc:     "dice",
			data:     `{"chat":{"id":1},"from":{"id":2},"dice":{"emoji":"🎲","value":3}}`,
			expected: models.KindDice,
		},
		{
			desc:     "web app data",
			data:     `{"chat":{"id":1},"from":{"id":2},"web_app_data":{"data":"x","button_text":"Open"}}`,
			expected: models.KindWebAppData,
		},
		{
			desc:     "location wins over venue",
			data:     `{"chat":{"id":1},"from":{"id":2},"location":{"latitude":1},"venue":{"title":"t"}}`,
			expected: models.KindLocation,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			msg, err := models.ParseMessage([]byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, msg.Kind())
		})
	}
}

func TestParseUpdate(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc         string
		data         string
		expectedKind models.UpdateKind
		expectErr    bool
	}{
		{
			desc:         "regular message",
			data:         `{"update_id":10,"message":{"chat":{"id":1},"from":{"id":2},"text":"/start"}}`,
			expectedKind: models.UpdateKindMessage,
		},
		{
			desc:         "successful payment",
			data:         `{"update_id":11,"message":{"chat":{"id":1},"from":{"id":2},"successful_payment":{"currency":"XTR","total_amount":100,"invoice_payload":"p"}}}`,
			expectedKind: models.UpdateKindSuccessfulPayment,
		},
		{
			desc:         "pre-checkout query",
			data:         `{"update_id":12,"pre_checkout_query":{"id":"q","from":{"id":2},"currency":"XTR","total_amount":100,"invoice_payload":"p"}}`,
			expectedKind: models.UpdateKindPreCheckoutQuery,
		},
		{
			desc:         "callback query",
			data:         `{"update_id":13,"callback_query":{"id":"c","from":{"id":2},"data":"yes"}}`,
			expectedKind: models.UpdateKindCallbackQuery,
		},
		{
			desc:         "unsupported update",
			data:         `{"update_id":14,"edited_message":{"chat":{"id":1},"from":{"id":2}}}`,
			expectedKind: models.UpdateKindUnknown,
		},
		{
			desc:         "message without sender",
			data:         `{"update_id":15,"message":{"chat":{"id":1}}}`,
			expectedKind: models.UpdateKindMessage,
			expectErr:    true,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			update, err := models.ParseUpdate([]byte(tc.data))
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			require.NotNil(t, update)
			assert.Equal(t, tc.expectedKind, update.Kind())
		})
	}
}

func TestParseUpdate_InvalidJSON(t *testing.T) {
	t.Parallel()

	update, err := models.ParseUpdate([]byte(`{"update_id":`))
	assert.Error(t, err)
	assert.Nil(t, update)
}

func TestUser_AllName(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		desc     string
		user     models.User
		expected string
	}{
		{
			desc:     "first and last name",
			user:     models.User{FirstName: "John", LastName: "Doe"},
			expected: "John Doe",
		},
		{
			desc:     "only first name",
			user:     models.User{FirstName: "John"},
			expected: "John",
		},
		{
			desc:     "only last name",
			user:     models.User{LastName: "Doe"},
			expected: "Doe",
		},
		{
			desc:     "no names",
			user:     models.User{},
			expected: "",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, tc.user.AllName())
		})
	}
}

func TestMessage_LargestPhoto(t *testing.T) {
	t.Parallel()

	msg := models.Message{
		Photo: []models.PhotoSize{
			{FileID: "small", Width: 90, Height: 90},
			{FileID: "big", Width: 1280, Height: 720},
			{FileID: "medium", Width: 320, Height: 180},
		},
	}
	assert.Equal(t, "big", msg.LargestPhoto().FileID)

	assert.Nil(t, (&models.Message{}).LargestPhoto())
}
