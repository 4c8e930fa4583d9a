package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

// cliActor performs the actions run from the command line. It has no account: notifications it triggers have no actor.
var cliActor = user.User{Name: "admin CLI", Roles: user.AdminRoles}

func (cli *commandLine) generate(classID, period, year string) error {
	result, err := cli.svcs.Bulletin.GenerateForClass(context.Background(), cliActor, bulletin.ClassBatch{
		ClassID:      classID,
		Period:       school.Period(period),
		AcademicYear: year,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%d report card(s) created\n", result.CreatedCount)
	for _, rc := range result.ReportCards {
		fmt.Fprintf(cli.out, "  %s  %-30s %s  %s  %s\n", rc.ID, rc.StudentName, rc.AverageLabel(), rc.Mention, rc.RankLabel())
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(cli.out, "%d error(s)\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(cli.out, "  %s\n", msg)
		}
	}
	return nil
}

func (cli *commandLine) publish(id string) error {
	rc, err := cli.svcs.Bulletin.Publish(context.Background(), cliActor, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "report card %s of %s published\n", rc.ID, rc.StudentName)
	return nil
}
