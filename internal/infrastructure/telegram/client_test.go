package telegram

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	boterrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/bot/errors"
	readererrors "github.com/Conte777/NewsFlow/services/relay-service/internal/domain/reader/errors"
	"github.com/Conte777/NewsFlow/services/relay-service/internal/domain/relay/entities"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{name: "missing api id", cfg: ClientConfig{APIHash: "h", Phone: "+1"}},
		{name: "missing api hash", cfg: ClientConfig{APIID: 1, Phone: "+1"}},
		{name: "missing phone", cfg: ClientConfig{APIID: 1, APIHash: "h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg, nil, nil, nil, zerolog.Nop())
			require.Error(t, err)
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c, err := NewClient(ClientConfig{APIID: 1, APIHash: "h", Phone: "+10000000000"}, nil, nil, nil, zerolog.Nop())
	require.NoError(t, err)

	require.False(t, c.IsConnected())
	require.NotNil(t, c.Dispatcher())

	_, err = c.ResolveChannel(context.Background(), "news")
	require.ErrorIs(t, err, readererrors.ErrNotConnected)

	_, err = c.ResolveChannel(context.Background(), " @ ")
	require.ErrorIs(t, err, readererrors.ErrInvalidChannelName)

	_, err = c.ChannelHistory(context.Background(), 1, 10)
	require.ErrorIs(t, err, readererrors.ErrNotConnected)

	_, err = c.Channels(context.Background())
	require.ErrorIs(t, err, readererrors.ErrNotConnected)

	require.ErrorIs(t, c.Run(context.Background()), readererrors.ErrNotConnected)
	require.NoError(t, c.Disconnect(context.Background()))
}

func TestChannelFromResolved(t *testing.T) {
	broadcast := &tg.Channel{ID: 10, AccessHash: 99, Title: "News", Username: "news", Broadcast: true}
	megagroup := &tg.Channel{ID: 11, AccessHash: 98, Title: "Chat", Username: "chat", Megagroup: true}

	identity, ok := channelFromResolved(&tg.ContactsResolvedPeer{
		Peer:  &tg.PeerChannel{ChannelID: 10},
		Chats: []tg.ChatClass{megagroup, broadcast},
	})
	require.True(t, ok)
	require.Equal(t, entities.ChannelIdentity{ID: 10, AccessHash: 99, Title: "News", Username: "news"}, identity)

	_, ok = channelFromResolved(&tg.ContactsResolvedPeer{
		Peer:  &tg.PeerChannel{ChannelID: 11},
		Chats: []tg.ChatClass{megagroup},
	})
	require.False(t, ok)

	_, ok = channelFromResolved(&tg.ContactsResolvedPeer{
		Peer:  &tg.PeerUser{UserID: 5},
		Users: []tg.UserClass{&tg.User{ID: 5}},
	})
	require.False(t, ok)
}

func TestBroadcastChannels(t *testing.T) {
	chats := []tg.ChatClass{
		&tg.Chat{ID: 1, Title: "basic group"},
		&tg.Channel{ID: 2, Title: "Alpha", Username: "alpha", Broadcast: true, AccessHash: 7},
		&tg.Channel{ID: 3, Title: "Group", Megagroup: true},
		&tg.ChannelForbidden{ID: 4, Title: "gone"},
	}

	require.Equal(t, []entities.ChannelIdentity{{ID: 2, AccessHash: 7, Title: "Alpha", Username: "alpha"}}, broadcastChannels(chats))
}

func TestMessagesFrom(t *testing.T) {
	msgs := []tg.MessageClass{
		&tg.Message{ID: 1, Message: "one"},
		&tg.MessageService{ID: 2},
		&tg.MessageEmpty{ID: 3},
		&tg.Message{ID: 4, Message: "four"},
	}

	got := messagesFrom(&tg.MessagesChannelMessages{Messages: msgs})
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].ID)
	require.Equal(t, 4, got[1].ID)

	require.Len(t, messagesFrom(&tg.MessagesMessagesSlice{Messages: msgs}), 2)
	require.Len(t, messagesFrom(&tg.MessagesMessages{Messages: msgs}), 2)
	require.Empty(t, messagesFrom(&tg.MessagesMessagesNotModified{}))
}

func TestMaskPhone(t *testing.T) {
	require.Equal(t, "+1*******89", maskPhone("+1234567889"))
	require.Equal(t, "***", maskPhone("12"))
}

func TestHashPhone(t *testing.T) {
	require.Len(t, hashPhone("+10000000000"), 64)
	require.Equal(t, hashPhone("+1"), hashPhone("+1"))
	require.NotEqual(t, hashPhone("+1"), hashPhone("+2"))
}

func TestConsolePrompt(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompt(strings.NewReader("12345\n secret \n"), &out)

	code, err := p.Code(context.Background())
	require.NoError(t, err)
	require.Equal(t, "12345", code)

	password, err := p.Password(context.Background())
	require.NoError(t, err)
	require.Equal(t, "secret", password)

	require.Contains(t, out.String(), "Enter authentication code")
	require.Contains(t, out.String(), "Enter 2FA password")

	_, err = p.Code(context.Background())
	require.Error(t, err)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	time.Sleep(time.Hour)
	return 0, nil
}

func TestConsolePrompt_Cancelled(t *testing.T) {
	p := NewConsolePrompt(blockingReader{}, &bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Code(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromptAuthenticator(t *testing.T) {
	var notified bool
	a := promptAuthenticator{
		phone:  "+10000000000",
		prompt: NewConsolePrompt(strings.NewReader("777\n"), &bytes.Buffer{}),
		onCode: func(*tg.AuthSentCode) { notified = true },
	}

	phone, err := a.Phone(context.Background())
	require.NoError(t, err)
	require.Equal(t, "+10000000000", phone)

	code, err := a.Code(context.Background(), &tg.AuthSentCode{})
	require.NoError(t, err)
	require.Equal(t, "777", code)
	require.True(t, notified)

	_, err = a.SignUp(context.Background())
	require.Error(t, err)
	require.Error(t, a.AcceptTermsOfService(context.Background(), tg.HelpTermsOfService{}))
}

func TestIsNonRetryableError(t *testing.T) {
	require.True(t, isNonRetryableError(tgerr.New(400, "PHONE_NUMBER_INVALID")))
	require.False(t, isNonRetryableError(tgerr.New(400, "PHONE_CODE_INVALID")))
}

func TestBot_NotConnected(t *testing.T) {
	_, err := NewBot("", zerolog.Nop())
	require.Error(t, err)

	b, err := NewBot("token", zerolog.Nop())
	require.NoError(t, err)
	require.False(t, b.IsConnected())

	require.ErrorIs(t, b.SendMessage(context.Background(), 1, ""), boterrors.ErrEmptyMessage)
	require.ErrorIs(t, b.SendMessage(context.Background(), 1, "hi"), boterrors.ErrNotConnected)
	require.ErrorIs(t, b.SetCommands(context.Background(), nil), boterrors.ErrNotConnected)
	_, err = b.SelfID(context.Background())
	require.ErrorIs(t, err, boterrors.ErrNotConnected)
	require.ErrorIs(t, b.Run(context.Background()), boterrors.ErrNotConnected)
	require.NoError(t, b.Disconnect(context.Background()))
}
