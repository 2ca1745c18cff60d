package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// TxFunc запуск функции в транзакции
type TxFunc func(fc func(tx *gorm.DB) error) error

func Transaction(fc func(tx *gorm.DB) error) error {
	return DB.Transaction(fc)
}

func Open(dsn string, debugMode bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gorm_logrus.New(),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Ошибка подключения к БД")
	}
	if debugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		return db.Debug(), nil
	}
	return db, nil
}

func DSN(host string, port string, database string, user string, pass string) string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", host, port, user, database, pass)
}

func Connect(host string, port string, database string, user string, pass string, debugMode bool, migrate bool) (err error) {
	if DB == nil {
		DB, err = Open(DSN(host, port, database, user, pass), debugMode)
		if err != nil {
			return err
		}
		if migrate {
			err = AutoMigrateDB(DB)
		}
		log.Info("Сервис успешно подключен к БД")
	}
	return err
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}
