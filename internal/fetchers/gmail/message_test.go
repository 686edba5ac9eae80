package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func TestNormalizeSender(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{
			name: "display name with angle brackets",
			from: "Dan From TLDR <dan@tldrnewsletter.com>",
			want: "dan@tldrnewsletter.com",
		},
		{
			name: "bare address",
			from: "crew@morningbrew.com",
			want: "crew@morningbrew.com",
		},
		{
			name: "uppercase is lowered",
			from: "Crew <CREW@MorningBrew.com>",
			want: "crew@morningbrew.com",
		},
		{
			name: "surrounding whitespace",
			from: "  contact@startupportugal.com  ",
			want: "contact@startupportugal.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSender(tt.from))
		})
	}
}

func TestDecodeBody(t *testing.T) {
	encode := func(s string) string {
		return base64.URLEncoding.EncodeToString([]byte(s))
	}

	t.Run("prefers html over plain text", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{Data: encode("plain version")},
				},
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: encode("<p>html version</p>")},
				},
			},
		}

		assert.Equal(t, "<p>html version</p>", decodeBody(payload))
	})

	t.Run("descends into nested multiparts", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/html",
							Body:     &gmail.MessagePartBody{Data: encode("<p>deep</p>")},
						},
					},
				},
			},
		}

		assert.Equal(t, "<p>deep</p>", decodeBody(payload))
	})

	t.Run("falls back to plain text", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: encode("only plain")},
		}

		assert.Equal(t, "only plain", decodeBody(payload))
	})

	t.Run("accepts unpadded base64url", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "text/html",
			Body: &gmail.MessagePartBody{
				Data: base64.RawURLEncoding.EncodeToString([]byte("<p>raw</p>")),
			},
		}

		assert.Equal(t, "<p>raw</p>", decodeBody(payload))
	})

	t.Run("empty payload", func(t *testing.T) {
		assert.Empty(t, decodeBody(nil))
		assert.Empty(t, decodeBody(&gmail.MessagePart{MimeType: "multipart/mixed"}))
	})
}

func TestParseDate(t *testing.T) {
	got, ok := parseDate("Mon, 10 Mar 2025 08:30:00 +0100")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC), got)

	_, ok = parseDate("not a date")
	assert.False(t, ok)
}

func TestHeaderValue(t *testing.T) {
	payload := &gmail.MessagePart{
		Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: "a@example.com"},
			{Name: "date", Value: "Mon, 10 Mar 2025 08:30:00 +0100"},
		},
	}

	assert.Equal(t, "a@example.com", headerValue(payload, "from"))
	assert.Equal(t, "Mon, 10 Mar 2025 08:30:00 +0100", headerValue(payload, "Date"))
	assert.Empty(t, headerValue(payload, "Subject"))
	assert.Empty(t, headerValue(nil, "From"))
}
