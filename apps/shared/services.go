// Package shared wires the storage and services used by both the API and the admin CLI.
package shared

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/notification"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
	emailsvc "github.com/trezcool/masomo-bulletin/services/email"
	"github.com/trezcool/masomo-bulletin/storage/database"
	"github.com/trezcool/masomo-bulletin/storage/database/sqlxrepos"
)

type Services struct {
	User         *user.Service
	School       *school.Service
	Grade        *grade.Service
	Bulletin     *bulletin.Service
	Notification *notification.Service
	Validate     *validator.Validate
}

// NewValidator returns a validator with every custom validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	school.InitValidators(validate, translator)
	return validate, translator
}

// NewMailService prints emails in debug mode and sends them through SendGrid otherwise.
func NewMailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// NewServices builds the services over the SQL repositories.
func NewServices(
	db *sqlx.DB,
	conf *core.Config,
	logger core.Logger,
	mailSvc core.EmailService,
	validate *validator.Validate,
) *Services {
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db), validate)
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db), usrSvc, mailSvc, validate)
	gradeSvc := grade.NewService(sqlxrepos.NewGradeRepository(db), schoolSvc, notifSvc, validate)
	bulletinSvc := bulletin.NewService(bulletin.Deps{
		Repo:     sqlxrepos.NewReportCardRepository(db),
		Grades:   gradeSvc,
		Roster:   schoolSvc,
		Notifier: notifSvc,
		Logger:   logger,
		Validate: validate,
		Config:   conf.Bulletin,
	})

	// report cards, then grades, then the student
	schoolSvc.RegisterRemovers(bulletinSvc, gradeSvc)

	return &Services{
		User:         usrSvc,
		School:       schoolSvc,
		Grade:        gradeSvc,
		Bulletin:     bulletinSvc,
		Notification: notifSvc,
		Validate:     validate,
	}
}

// SetUpDB creates (postgres only), opens and migrates the application database.
func SetUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
