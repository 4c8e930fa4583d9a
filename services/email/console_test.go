package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-bulletin/core"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := &core.Config{AppName: "Masomo", DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@test.cd"}}
	svc := NewConsoleServiceMock(conf)
	ClearSentMessages()
	defer ClearSentMessages()

	to := []mail.Address{{Name: "Bob", Address: "bob@test.cd"}}
	svc.SendMessages(
		&core.EmailMessage{To: to, Subject: "Hello", BodyStr: "Hi Bob"},
		&core.EmailMessage{Subject: "no recipient", BodyStr: "Hi"},
		&core.EmailMessage{To: to, Subject: "no content"},
	)

	sent := SentMessages()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "Hello", sent[0].Subject)
		assert.Equal(t, "Hi Bob", sent[0].TextContent)
	}
}

func TestConsoleService_format(t *testing.T) {
	svc := consoleService{
		defaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@test.cd"},
		subjPrefix:       "[Masomo] ",
	}
	body, err := svc.format(core.EmailMessage{
		To:          []mail.Address{{Address: "bob@test.cd"}, {Address: "alice@test.cd"}},
		Subject:     "Nouveau bulletin disponible",
		TextContent: "text body",
		HTMLContent: "<p>html body</p>",
	})
	if assert.NoError(t, err) {
		assert.Contains(t, body, "Subject: [Masomo] Nouveau bulletin disponible")
		assert.Contains(t, body, "To: <bob@test.cd>, <alice@test.cd>")
		assert.Contains(t, body, "text body")
		assert.Contains(t, body, "<p>html body</p>")
		assert.NotContains(t, body, "CC:")
	}
}
