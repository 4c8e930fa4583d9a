package main

import (
	"github.com/trezcool/goose"

	"github.com/trezcool/masomo-bulletin/fs"
	"github.com/trezcool/masomo-bulletin/storage/database"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	if err := database.SetDialect(cli.db); err != nil {
		return err
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB, appfs.FS, appfs.MigrationsDir, arguments...)
}
