package notify

import (
	"context"
	stderrors "errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

type fakeUsers struct {
	domain.UserRepository
	users map[string]*domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, errors.ErrUserNotFound.WithContext("user_id", userID)
	}
	return u, nil
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) Notify(context.Context, string, string, string) error {
	r.calls++
	return r.err
}

func TestTelegramNotifier_SendsToPrivateChat(t *testing.T) {
	sender := &fakeSender{}
	users := &fakeUsers{users: map[string]*domain.User{"u1": {ID: "u1", TelegramID: 4242}}}
	n := NewTelegramNotifier(sender, users)

	require.NoError(t, n.Notify(context.Background(), "u1", "DiabetesCare Alert", "Time for your: Post-Lunch Bolus"))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(4242), msg.ChatID)
	assert.Contains(t, msg.Text, "DiabetesCare Alert")
	assert.Contains(t, msg.Text, "Time for your: Post-Lunch Bolus")
}

func TestTelegramNotifier_Errors(t *testing.T) {
	users := &fakeUsers{users: map[string]*domain.User{"u1": {ID: "u1", TelegramID: 1}}}

	err := NewTelegramNotifier(&fakeSender{}, users).Notify(context.Background(), "ghost", "t", "b")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)

	err = NewTelegramNotifier(&fakeSender{err: stderrors.New("blocked by user")}, users).Notify(context.Background(), "u1", "t", "b")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotification))
}

func TestDesktopNotifier(t *testing.T) {
	var gotTitle, gotBody string
	n := &DesktopNotifier{send: func(title, message, _ string) error {
		gotTitle, gotBody = title, message
		return nil
	}}

	require.NoError(t, n.Notify(context.Background(), "u1", "DiabetesCare Alert", "Time for your: Evening Medication"))
	assert.Equal(t, "DiabetesCare Alert", gotTitle)
	assert.Equal(t, "Time for your: Evening Medication", gotBody)

	n.send = func(string, string, string) error { return stderrors.New("no dbus session") }
	err := n.Notify(context.Background(), "u1", "t", "b")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotification))
}

func TestMulti(t *testing.T) {
	ok := &recordingNotifier{}
	broken := &recordingNotifier{err: stderrors.New("down")}

	require.NoError(t, Multi{broken, ok}.Notify(context.Background(), "u1", "t", "b"))
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, broken.calls)

	err := Multi{broken, broken}.Notify(context.Background(), "u1", "t", "b")
	assert.Error(t, err)

	assert.NoError(t, Multi{}.Notify(context.Background(), "u1", "t", "b"))
}
