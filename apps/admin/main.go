package main

import (
	"fmt"
	"os"

	"github.com/trezcool/masomo-bulletin/apps/shared"
	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/fs"
	logsvc "github.com/trezcool/masomo-bulletin/services/logger"
	"github.com/trezcool/masomo-bulletin/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.New(os.Stdout, "ADMIN : ", conf)

	// set up DB; migrations are left to the migrate command
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	validate, _ := shared.NewValidator()
	mailSvc := shared.NewMailService(conf, logger)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf, logger)

	// start CLI
	cli := commandLine{
		db:   db,
		svcs: shared.NewServices(db, conf, logger, mailSvc, validate),
		out:  os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
