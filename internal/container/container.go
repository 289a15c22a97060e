package container

import (
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/imagestore"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-account-service/internal/infrastructure/notify"
	"github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/internal/infrastructure/search"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/mailer"
)

// Container holds the components constructed at process start. Clients are
// set by main after they connect; nil clients disable the feature that
// needs them. Build derives the repository and service from them.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool      *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	Publisher *helpers.RabbitPublisher
	Mailgun   *mailer.Mailgun

	JWT     *helpers.JWTManager
	Cookies *helpers.Manager

	Repo    repository.UserRepository
	Service *application.Service
}

func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		JWT:     helpers.NewJWTManager(cfg.JWTSessionSecret, cfg.JWTActivationSecret, cfg.SessionTTL, cfg.ActivationTTL),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

// Build selects the repository and the capability implementations from
// the config and constructs the account service.
func (c *Container) Build() error {
	repo, err := c.repository()
	if err != nil {
		return err
	}
	images, err := c.imageStore()
	if err != nil {
		return err
	}
	notifier, err := c.notifier()
	if err != nil {
		return err
	}

	var indexer application.UserIndexer
	if c.ES != nil {
		indexer = search.NewUserIndexer(c.ES, c.Config.ESUsersIndex)
	}

	c.Repo = repo
	c.Service = application.NewService(repo, c.JWT, images, notifier, indexer, c.Logger, c.Config.ActivationLink)
	return nil
}

func (c *Container) repository() (repository.UserRepository, error) {
	switch c.Config.DBDriver {
	case "postgres":
		if c.Pool == nil {
			return nil, errors.New("postgres driver selected but no pool configured")
		}
		return postgres.NewUserRepository(c.Pool, c.Logger), nil
	case "memory":
		return memory.NewUserRepository(), nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", c.Config.DBDriver)
}

func (c *Container) imageStore() (application.ImageStore, error) {
	p := imagestore.Processor{
		MaxWidth:  c.Config.ImageMaxWidth,
		MaxBytes:  c.Config.ImageMaxBytes,
		MaxPixels: c.Config.ImageMaxPixels,
	}
	switch c.Config.ImageStorage {
	case "local":
		return imagestore.NewLocalStore(c.Config.UploadsDir, c.Config.UploadsURLPrefix, p), nil
	case "gcs":
		if c.GCS == nil || c.Config.GCSBucket == "" {
			return nil, errors.New("gcs image storage needs a client and GCS_BUCKET")
		}
		return imagestore.NewGCSStore(c.GCS, c.Config.GCSBucket, p), nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown IMAGE_STORAGE %q", c.Config.ImageStorage)
}

func (c *Container) notifier() (application.ActivationNotifier, error) {
	switch c.Config.MailDelivery {
	case "queue":
		if c.Publisher == nil {
			return nil, errors.New("queue mail delivery needs a rabbitmq publisher")
		}
		return notify.NewQueueNotifier(c.Publisher, c.Config.AppName), nil
	case "direct":
		if c.Mailgun == nil || !c.Mailgun.Configured() {
			return nil, errors.New("direct mail delivery needs mailgun credentials")
		}
		return notify.NewDirectNotifier(c.Mailgun, c.Config.AppName), nil
	case "log":
		return &notify.LogNotifier{Logger: c.Logger, IncludeLink: c.Config.Env == "development"}, nil
	}
	return nil, fmt.Errorf("unknown MAIL_DELIVERY %q", c.Config.MailDelivery)
}
