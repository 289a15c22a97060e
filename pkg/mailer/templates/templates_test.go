package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Activation(t *testing.T) {
	data := ActivationData{
		AppName:       "MeeMee",
		Username:      "CyberGamer92",
		Email:         "user1@example.com",
		ActivationURL: "http://localhost:8080/user/activate/tok<en>",
		ExpiresAt:     time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
	}.ToMap()

	subject, text, html, err := Render(Activation, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to MeeMee! Activate your account", subject)
	assert.Contains(t, text, "Hi CyberGamer92,")
	assert.Contains(t, text, "http://localhost:8080/user/activate/tok<en>")
	assert.Contains(t, text, "02 January 2026, 15:04 UTC")
	assert.Contains(t, html, "tok%3cen%3e")
	assert.NotContains(t, html, "tok<en>")
}

func TestRender_Defaults(t *testing.T) {
	subject, text, _, err := Render(Activation, map[string]any{"ActivationURL": "http://x/y"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to MeeMee! Activate your account", subject)
	assert.Contains(t, text, "Hi there,")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", nil)
	assert.Error(t, err)
}
