package main

import (
	"context"
	"fmt"
	"os"

	echoapi "github.com/trezcool/masomo-bulletin/apps/api/echo"
	"github.com/trezcool/masomo-bulletin/apps/shared"
	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/fs"
	logsvc "github.com/trezcool/masomo-bulletin/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.New(os.Stdout, "API : ", conf)
	dbLogger := logsvc.New(os.Stdout, "DB : ", conf)

	db, err := shared.SetUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	validate, translator := shared.NewValidator()
	mailSvc := shared.NewMailService(conf, logger)
	svcs := shared.NewServices(db, conf, logger, mailSvc, validate)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         svcs.User,
			SchoolSvc:       svcs.School,
			GradeSvc:        svcs.Grade,
			BulletinSvc:     svcs.Bulletin,
			NotificationSvc: svcs.Notification,
			Validate:        validate,
			Translator:      translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
