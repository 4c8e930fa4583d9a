package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core/bulletin"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

type bulletinApi struct {
	svc      *bulletin.Service
	users    *user.Service
	validate *validator.Validate
}

func registerBulletinAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := bulletinApi{
		svc:      deps.BulletinSvc,
		users:    deps.UserSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/report-cards", jwt)
	rg.GET("", api.query, staffMiddleware())
	rg.POST("", api.create, adminMiddleware())
	rg.POST("/batch", api.createBatch, adminMiddleware())

	// detail endpoints
	dg := rg.Group("/:id")
	dg.GET("", api.retrieve, staffMiddleware())
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.POST("/publish", api.publish, staffMiddleware())
	dg.GET("/pdf", api.pdf, staffMiddleware())

	// student portal
	mg := g.Group("/me/report-cards", jwt, studentMiddleware())
	mg.GET("", api.queryMine)
	mg.GET("/:id", api.retrieveMine)
}

// Handlers

func (api *bulletinApi) query(ctx echo.Context) error {
	published, err := boolQueryParam(ctx, "published")
	if err != nil {
		return err
	}
	filter := bulletin.QueryFilter{
		StudentID:    ctx.QueryParam("student_id"),
		ClassID:      ctx.QueryParam("class_id"),
		Period:       school.Period(ctx.QueryParam("period")),
		AcademicYear: ctx.QueryParam("academic_year"),
		Published:    published,
		Search:       ctx.QueryParam("search"),
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	rcs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying report cards")
	}
	return ctx.JSON(http.StatusOK, rcs)
}

func (api *bulletinApi) create(ctx echo.Context) error {
	var data bulletin.NewReportCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReportCard")
	}
	actor, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rc, err := api.svc.Generate(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "generating report card")
	}
	return ctx.JSON(http.StatusCreated, rc)
}

func (api *bulletinApi) createBatch(ctx echo.Context) error {
	var data bulletin.ClassBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassBatch")
	}
	actor, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	result, err := api.svc.GenerateForClass(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "generating class report cards")
	}
	return ctx.JSON(http.StatusOK, result)
}

func (api *bulletinApi) retrieve(ctx echo.Context) error {
	d, err := api.svc.Detail(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding report card")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *bulletinApi) update(ctx echo.Context) error {
	var data bulletin.UpdateReportCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReportCard")
	}
	rc, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating report card")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *bulletinApi) destroy(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	if _, err := api.svc.Get(reqCtx, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "finding report card")
	}
	if err := api.svc.Delete(reqCtx, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting report card")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *bulletinApi) publish(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	rc, err := api.svc.Publish(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "publishing report card")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *bulletinApi) pdf(ctx echo.Context) error {
	doc, err := api.svc.PDF(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "describing report card document")
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *bulletinApi) queryMine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	rcs, err := api.svc.StudentReportCards(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying student report cards")
	}
	return ctx.JSON(http.StatusOK, rcs)
}

func (api *bulletinApi) retrieveMine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	d, err := api.svc.StudentDetail(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student report card")
	}
	return ctx.JSON(http.StatusOK, d)
}
