package emailsvc

import (
	"encoding/json"
	"net/mail"
	"testing"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-bulletin/core"
)

type sgPayload struct {
	From             map[string]string `json:"from"`
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		CC      []map[string]string `json:"cc"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	Content      []map[string]string `json:"content"`
	Categories   []string            `json:"categories"`
	MailSettings *struct {
		SandboxMode struct {
			Enable bool `json:"enable"`
		} `json:"sandbox_mode"`
	} `json:"mail_settings"`
}

func TestSendgridService_newMail(t *testing.T) {
	conf := &core.Config{
		AppName:          "Masomo",
		DefaultFromEmail: mail.Address{Name: "Masomo", Address: "noreply@test.cd"},
	}
	msg := core.EmailMessage{
		To:          []mail.Address{{Name: "Amani", Address: "amani@test.cd"}},
		Subject:     "Nouveau bulletin disponible",
		Category:    "bulletin",
		TextContent: "Votre bulletin du 1er Trimestre est disponible.",
	}

	decode := func(t *testing.T, m *sgmail.SGMailV3) sgPayload {
		var p sgPayload
		require.NoError(t, json.Unmarshal(sgmail.GetRequestBody(m), &p))
		return p
	}

	t.Run("text only", func(t *testing.T) {
		p := decode(t, NewSendgridService(conf, nil).newMail(msg))

		assert.Equal(t, "noreply@test.cd", p.From["email"])
		require.Len(t, p.Personalizations, 1)
		assert.Equal(t, "[Masomo] Nouveau bulletin disponible", p.Personalizations[0].Subject)
		assert.Equal(t, []map[string]string{{"name": "Amani", "email": "amani@test.cd"}}, p.Personalizations[0].To)
		assert.Empty(t, p.Personalizations[0].CC)
		assert.Equal(t, []map[string]string{{"type": "text/plain", "value": msg.TextContent}}, p.Content)
		assert.Equal(t, []string{"masomo", "bulletin"}, p.Categories)
		assert.Nil(t, p.MailSettings)
	})

	t.Run("html and cc in sandbox", func(t *testing.T) {
		debugConf := *conf
		debugConf.Debug = true
		m := msg
		m.HTMLContent = "<p>Votre bulletin</p>"
		m.Cc = []mail.Address{{Address: "parent@test.cd"}}

		p := decode(t, NewSendgridService(&debugConf, nil).newMail(m))

		require.Len(t, p.Content, 2)
		assert.Equal(t, "text/html", p.Content[1]["type"])
		assert.Equal(t, []map[string]string{{"email": "parent@test.cd"}}, p.Personalizations[0].CC)
		require.NotNil(t, p.MailSettings)
		assert.True(t, p.MailSettings.SandboxMode.Enable)
	})
}
