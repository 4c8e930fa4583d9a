package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

type gradeApi struct {
	svc   *grade.Service
	users *user.Service
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := gradeApi{svc: deps.GradeSvc, users: deps.UserSvc}

	gg := g.Group("/grades", jwt)
	gg.POST("", api.create, teacherMiddleware())
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	actor, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	g, err := api.svc.Record(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "recording grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

type studentApi struct {
	svc *school.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{svc: deps.SchoolSvc}

	sg := g.Group("/students", jwt)
	sg.DELETE("/:id", api.destroy, adminMiddleware())
}

// destroy deletes a student along with their report cards and grades.
func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.RemoveStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing student")
	}
	return ctx.NoContent(http.StatusNoContent)
}
