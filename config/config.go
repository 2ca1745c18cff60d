package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		Name        string `default:"noblelift-backend" env:"APP_NAME"`
		Version     string `default:"0.1.0" env:"APP_VERSION"`
		Commit      string `default:"dev" env:"APP_COMMIT"`
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb int    `default:"100" env:"APP_BODY_LIMIT_MB"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"noblelift" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret          string `default:"change-me" env:"JWT_SECRET"`
		AccessExpireInSec  int64  `default:"1800" env:"JWT_ACCESS_EXPIRE_SEC"`
		RefreshExpireInSec int64  `default:"604800" env:"JWT_REFRESH_EXPIRE_SEC"`
	}
	Admin struct {
		Email    string `default:"admin@example.com" env:"ADMIN_EMAIL"`
		Password string `default:"" env:"ADMIN_PASSWORD"`
		FullName string `default:"Admin" env:"ADMIN_FULL_NAME"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"noblelift" env:"S3_BUCKET_NAME"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"Noblelift" env:"SMTP_FROM"`
	}
	Redis struct {
		Host     string `default:"" env:"REDIS_HOST"`
		Port     string `default:"6379" env:"REDIS_PORT"`
		Password string `default:"" env:"REDIS_PASSWORD"`
		DB       int    `default:"0" env:"REDIS_DB"`
	}
	Workers struct {
		MailDispatchIntervalSec int `default:"30" env:"WORKER_MAIL_DISPATCH_INTERVAL_SEC"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
