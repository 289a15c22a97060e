package container

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/infrastructure/imagestore"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-account-service/internal/infrastructure/notify"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:             "account-service",
		DBDriver:            "memory",
		JWTSessionSecret:    "s",
		JWTActivationSecret: "a",
		ImageStorage:        "local",
		UploadsDir:          t.TempDir(),
		UploadsURLPrefix:    "/uploads",
		MailDelivery:        "log",
		ActivationURL:       "http://localhost:8080/user/activate",
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBuild_Memory(t *testing.T) {
	c := New(testConfig(t), quietLogger())
	require.NoError(t, c.Build())

	assert.IsType(t, &memory.UserRepository{}, c.Repo)
	require.NotNil(t, c.Service)
	assert.IsType(t, &imagestore.LocalStore{}, c.Service.Images)
	require.IsType(t, &notify.LogNotifier{}, c.Service.Notifier)
	assert.False(t, c.Service.Notifier.(*notify.LogNotifier).IncludeLink)
	assert.Nil(t, c.Service.Indexer)
	assert.Equal(t, "http://localhost:8080/user/activate/tok", c.Service.ActivationURL("tok"))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"postgres without pool", func(c *config.Config) { c.DBDriver = "postgres" }, "no pool"},
		{"unknown driver", func(c *config.Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"gcs without client", func(c *config.Config) { c.ImageStorage = "gcs" }, "GCS_BUCKET"},
		{"unknown storage", func(c *config.Config) { c.ImageStorage = "s3" }, "IMAGE_STORAGE"},
		{"queue without publisher", func(c *config.Config) { c.MailDelivery = "queue" }, "rabbitmq"},
		{"direct without mailgun", func(c *config.Config) { c.MailDelivery = "direct" }, "mailgun"},
		{"unknown delivery", func(c *config.Config) { c.MailDelivery = "smtp" }, "MAIL_DELIVERY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			err := New(cfg, quietLogger()).Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_LogDeliveryShowsLinkInDevelopment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "development"
	c := New(cfg, quietLogger())
	require.NoError(t, c.Build())
	assert.True(t, c.Service.Notifier.(*notify.LogNotifier).IncludeLink)
}

func TestBuild_NoImageStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.ImageStorage = "none"
	c := New(cfg, quietLogger())
	require.NoError(t, c.Build())
	assert.Nil(t, c.Service.Images)
}
