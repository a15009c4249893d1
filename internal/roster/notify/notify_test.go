package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	msg := LoginCode("a@example.com", "004211")
	require.Equal(t, KindLoginCode, msg.Kind)
	require.Equal(t, "004211", msg.Code)
	require.Contains(t, msg.Body, "004211")

	require.Equal(t, KindApproved, Approved("a@example.com").Kind)
	require.Equal(t, "a@example.com", Declined("a@example.com").To)
	require.Empty(t, Declined("a@example.com").Code)
}

func TestOutbox(t *testing.T) {
	t.Parallel()

	o := NewOutbox()
	ctx := context.Background()
	require.NoError(t, o.Send(ctx, LoginCode("A@example.com", "111111")))
	require.NoError(t, o.Send(ctx, LoginCode("a@example.com", "222222")))
	require.NoError(t, o.Send(ctx, Approved("a@example.com")))

	last, ok := o.Last("a@EXAMPLE.com")
	require.True(t, ok)
	require.Equal(t, KindApproved, last.Kind)
	require.Equal(t, 2, o.Count("a@example.com", KindLoginCode))
	require.Equal(t, 1, o.Count("a@example.com", KindApproved))

	_, ok = o.Last("nobody@example.com")
	require.False(t, ok)
}

func TestSMTPSenderComposes(t *testing.T) {
	t.Parallel()

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	s := NewSMTPSender(SMTPConfig{Host: "mail.example.com", Port: 587, Username: "bot@example.com", Password: "pw"})
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		require.Equal(t, "bot@example.com", from)
		require.NotNil(t, a)
		return nil
	}

	require.NoError(t, s.Send(context.Background(), LoginCode("a@example.com", "123456")))
	require.Equal(t, "mail.example.com:587", gotAddr)
	require.Equal(t, []string{"a@example.com"}, gotTo)
	require.Contains(t, gotMsg, "Subject: =?utf-8?q?")
	require.Contains(t, gotMsg, "\r\n\r\n")
	require.True(t, strings.HasSuffix(gotMsg, LoginCode("a@example.com", "123456").Body))
}

func TestSMTPSenderWrapsErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("relay down")
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25})
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return boom }
	require.ErrorIs(t, s.Send(context.Background(), Approved("a@example.com")), boom)
}

type failingSender struct{}

func (failingSender) Send(context.Context, Message) error { return errors.New("nope") }

func TestDispatcherDeliversAndDrainsOnStop(t *testing.T) {
	t.Parallel()

	o := NewOutbox()
	d := NewDispatcher(MultiSender{failingSender{}, o}, discardLogger(), 8)
	d.Start()

	for range 5 {
		d.Notify(context.Background(), Approved("a@example.com"))
	}
	d.Stop()

	require.Equal(t, 5, o.Count("a@example.com", KindApproved))
}

type blockingSender struct{ release chan struct{} }

func (b blockingSender) Send(ctx context.Context, _ Message) error {
	<-b.release
	return nil
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	d := NewDispatcher(blockingSender{release: release}, discardLogger(), 1)

	// Without a worker the queue holds exactly one message.
	done := make(chan struct{})
	go func() {
		d.Notify(context.Background(), Approved("a@example.com"))
		d.Notify(context.Background(), Approved("b@example.com"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	require.Len(t, d.queue, 1)

	close(release)
	d.Start()
	d.Stop()
	require.Empty(t, d.queue)
}
