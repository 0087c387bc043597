package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(databaseStructLevel, DatabaseConfig{})
	v.RegisterStructValidation(mqStructLevel, MQConfig{})
	v.RegisterStructValidation(pagesStructLevel, PagesConfig{})
	return v
}

// Validate checks field ranges and the settings each selected backend needs.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Session.Backend == "redis" && strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("invalid config: REDIS_ADDR is required for the redis session backend")
	}
	return nil
}

func databaseStructLevel(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	switch db.Driver {
	case "sqlite":
		if strings.TrimSpace(db.Path) == "" {
			sl.ReportError(db.Path, "Path", "Path", "required_for_sqlite", "")
		}
	case "postgres":
		if strings.TrimSpace(db.Host) == "" {
			sl.ReportError(db.Host, "Host", "Host", "required_for_postgres", "")
		}
		if strings.TrimSpace(db.DBName) == "" {
			sl.ReportError(db.DBName, "DBName", "DBName", "required_for_postgres", "")
		}
	}
}

func mqStructLevel(sl validator.StructLevel) {
	mq := sl.Current().Interface().(MQConfig)
	switch mq.Backend {
	case "rabbitmq":
		if strings.TrimSpace(mq.RabbitMQ.URL) == "" {
			sl.ReportError(mq.RabbitMQ.URL, "RabbitMQ.URL", "URL", "required_for_rabbitmq", "")
		}
	case "pubsub":
		if strings.TrimSpace(mq.PubSub.ProjectID) == "" {
			sl.ReportError(mq.PubSub.ProjectID, "PubSub.ProjectID", "ProjectID", "required_for_pubsub", "")
		}
	}
}

func pagesStructLevel(sl validator.StructLevel) {
	pages := sl.Current().Interface().(PagesConfig)
	switch pages.Backend {
	case "minio":
		m := pages.Minio
		if strings.TrimSpace(m.Endpoint) == "" {
			sl.ReportError(m.Endpoint, "Minio.Endpoint", "Endpoint", "required_for_minio", "")
		}
		if strings.TrimSpace(m.AccessKey) == "" || strings.TrimSpace(m.SecretKey) == "" {
			sl.ReportError(m.AccessKey, "Minio.AccessKey", "AccessKey", "required_for_minio", "")
		}
		if strings.TrimSpace(m.Bucket) == "" {
			sl.ReportError(m.Bucket, "Minio.Bucket", "Bucket", "required_for_minio", "")
		}
	case "gcs":
		if strings.TrimSpace(pages.GCS.Bucket) == "" {
			sl.ReportError(pages.GCS.Bucket, "GCS.Bucket", "Bucket", "required_for_gcs", "")
		}
	}
}
