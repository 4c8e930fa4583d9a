package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-bulletin/core/user"
)

func newUserRoles(isAdmin, isTeacher, isStudent bool) []string {
	if isAdmin {
		return user.AllRoles
	}
	roles := make([]string, 0, 2)
	if isTeacher {
		roles = append(roles, user.RoleTeacher)
	}
	if isStudent {
		roles = append(roles, user.RoleStudent)
	}
	return roles
}

// addUser creates an active user.User
func (cli *commandLine) addUser(name, uname, email, pwd string, roles []string) error {
	ctx := context.Background()
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	}
	if err := nu.Validate(ctx, cli.svcs.Validate, cli.svcs.User); err != nil {
		return err
	}
	usr, err := cli.svcs.User.Create(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %s created: %s\n", usr.Username, usr.ID)
	return nil
}
