package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/masomo-bulletin/apps/shared"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db   *sqlx.DB
	svcs *shared.Services
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  adduser -name NAME -username USERNAME -email EMAIL [-admin|-teacher|-student] - create a user")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME|EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  generate -class CLASS_ID -period PERIOD -year YYYY-YYYY - generate the report cards of a class")
	fmt.Fprintln(cli.out, "  publish -id REPORT_CARD_ID - publish a report card and notify its student")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// promptPassword reads a password without echoing it. An empty password is refused.
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		addUserCmd := cli.newFlagSet("adduser")
		name := addUserCmd.String("name", "", "The user's full name.")
		uname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
		email := addUserCmd.String("email", "", "The user's email.")
		isAdmin := addUserCmd.Bool("admin", false, "Grant every role.")
		isTeacher := addUserCmd.Bool("teacher", false, "Grant the teacher role.")
		isStudent := addUserCmd.Bool("student", false, "Grant the student role.")
		if err := parseFlags(addUserCmd, args[2:]); err != nil {
			return err
		}
		if *name == "" || (*uname == "" && *email == "") {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		return cli.addUser(*name, *uname, *email, pwd, newUserRoles(*isAdmin, *isTeacher, *isStudent))

	case "resetpassword":
		resetPasswordCmd := cli.newFlagSet("resetpassword")
		uname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")
		if err := parseFlags(resetPasswordCmd, args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*uname, pwd)

	case "generate":
		generateCmd := cli.newFlagSet("generate")
		classID := generateCmd.String("class", "", "The class ID.")
		period := generateCmd.String("period", "", "The period: trimestre_1, trimestre_2 or trimestre_3.")
		year := generateCmd.String("year", "", "The academic year, e.g. 2023-2024.")
		if err := parseFlags(generateCmd, args[2:]); err != nil {
			return err
		}
		if *classID == "" || *period == "" || *year == "" {
			generateCmd.Usage()
			return errHelp
		}
		return cli.generate(*classID, *period, *year)

	case "publish":
		publishCmd := cli.newFlagSet("publish")
		id := publishCmd.String("id", "", "The report card ID.")
		if err := parseFlags(publishCmd, args[2:]); err != nil {
			return err
		}
		if *id == "" {
			publishCmd.Usage()
			return errHelp
		}
		return cli.publish(*id)

	default:
		cli.printUsage()
		return errHelp
	}
}
