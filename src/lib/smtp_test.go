package lib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailMessage(t *testing.T) {
	msg, err := NewMailMessage(&SendMailInput{
		From:     "no-reply@voyagemate.app",
		FromName: "Voyage Mate",
		To:       []string{"owner@example.com"},
		Subject:  "New comment on Lisbon",
		Body:     "Ana left a comment.",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: New comment on Lisbon")
	assert.Contains(t, buf.String(), "owner@example.com")
}

func TestNewMailMessageRejectsBadRecipient(t *testing.T) {
	_, err := NewMailMessage(&SendMailInput{
		From: "no-reply@voyagemate.app",
		To:   []string{"not an address"},
	})
	assert.Error(t, err)
}
