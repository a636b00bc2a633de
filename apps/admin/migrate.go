package main

import (
	"github.com/darasahq/darasa/storage/postgres"
)

var migrationRunFunc = postgres.MigrationCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrationRunFunc(cli.db.DB, args[0], arguments...)
}
