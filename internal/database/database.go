package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lending/internal/entities"
)

// Models lists every table managed by AutoMigrate, in dependency order.
var Models = []any{
	&entities.Author{},
	&entities.Category{},
	&entities.Book{},
	&entities.Copy{},
	&entities.User{},
	&entities.Loan{},
	&entities.Rating{},
}

// FavoritesTable joins users to the books they favourited.
const FavoritesTable = "user_favorite_books"

type Database struct {
	DB *gorm.DB
}

type options struct {
	logLevel logger.LogLevel
}

// Option customises NewDatabase.
type Option func(*options)

// WithLogLevel sets the gorm SQL logger level.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// ParseLogLevel maps a config value to a gorm log level. Unknown values fall
// back to warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(o.logLevel),
		TranslateError: true,

		// references are kept by the repositories, the schema declares no foreign keys
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

// Ping checks that the connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// MissingTables lists the tables of Models, plus the favourites join table,
// that are absent from the connected database.
func (d *Database) MissingTables() []string {
	var missing []string
	migrator := d.DB.Migrator()
	for _, model := range Models {
		table := model.(interface{ TableName() string }).TableName()
		if !migrator.HasTable(table) {
			missing = append(missing, table)
		}
	}
	if !migrator.HasTable(FavoritesTable) {
		missing = append(missing, FavoritesTable)
	}
	return missing
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenSession starts a unit of work. Entities read through the session keep
// their lazy references resolvable until the session is closed.
func (d *Database) OpenSession() *Session {
	return &Session{db: d.DB}
}
