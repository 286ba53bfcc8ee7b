package services

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urc/logging"
	"urc/models"
)

type fakeSender struct {
	messages []string
	err      error
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, channelID+":"+content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logging.NewWithWriter(&buf, "debug", "text"))

	n.Notify("Pengajuan tersimpan", models.NotifySuccess)
	n.Notify("Gagal menyimpan", models.NotifyError)
	n.Notify("Hati-hati", models.NotificationType("unknown"))
	n.Loading(true, "")
	n.Loading(false, "")

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=\"Pengajuan tersimpan\"")
	assert.Contains(t, out, "class=alert-success")
	assert.Contains(t, out, "level=ERROR msg=\"Gagal menyimpan\"")
	assert.Contains(t, out, "class=alert-danger")
	assert.Contains(t, out, "class=alert-info")
	assert.Contains(t, out, "msg=Memuat...")
	assert.Contains(t, out, "loading finished")
}

func TestDiscordNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := newDiscordNotifier(sender, "chan", logging.Discard())

	n.Notify("Status diperbarui", models.NotifyWarning)
	n.Loading(true, "Menyimpan...")
	n.Loading(false, "")

	assert.Equal(t, []string{
		"chan:[alert-warning] Status diperbarui",
		"chan:⏳ Menyimpan...",
	}, sender.messages)
}

func TestDiscordNotifierSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	n := newDiscordNotifier(sender, "chan", logging.Discard())

	n.Notify("x", models.NotifyInfo)
	assert.Empty(t, sender.messages)
}

func TestNewDiscordNotifierRequiresConfig(t *testing.T) {
	_, err := NewDiscordNotifier("", "chan", logging.Discard())
	assert.Error(t, err)

	_, err = NewDiscordNotifier("token", "", logging.Discard())
	assert.Error(t, err)
}

func TestMultiNotifier(t *testing.T) {
	a, b := &fakeSender{}, &fakeSender{}
	m := MultiNotifier{
		newDiscordNotifier(a, "a", logging.Discard()),
		newDiscordNotifier(b, "b", logging.Discard()),
	}

	m.Notify("halo", models.NotifyInfo)
	assert.Equal(t, []string{"a:[alert-info] halo"}, a.messages)
	assert.Equal(t, []string{"b:[alert-info] halo"}, b.messages)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	long := strings.Repeat("kata ", 10)
	chunks := splitMessage(long, 12)
	require.True(t, len(chunks) > 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 12)
	}
	assert.Equal(t, strings.TrimSpace(long), strings.TrimSpace(strings.Join(chunks, " ")))
}

func TestSplitMessageKeepsRunesWhole(t *testing.T) {
	message := "⏳" + strings.Repeat("é⏳", 8)

	chunks := splitMessage(message, 10)
	require.True(t, len(chunks) > 1)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "%q", chunk)
		assert.LessOrEqual(t, len(chunk), 10)
	}
	assert.Equal(t, message, strings.Join(chunks, ""))
}
