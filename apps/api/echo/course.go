package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
)

type courseAPI struct {
	service *course.Service
}

func registerCourseAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *course.Service) {
	api := courseAPI{service: svc}

	cg := g.Group("/courses", auth)
	cg.POST("", api.courseCreate)
	cg.GET("", api.courseList)

	dg := cg.Group("/:courseId")
	dg.GET("", api.courseRetrieve)
	dg.PUT("", api.courseUpdate)
	dg.DELETE("", api.courseDestroy)

	tg := dg.Group("/teachers")
	tg.POST("", api.teacherAdd)
	tg.GET("", api.teacherList)
	tg.GET("/:userId", api.teacherRetrieve)
	tg.DELETE("/:userId", api.teacherRemove)

	sg := dg.Group("/students")
	sg.POST("", api.studentAdd)
	sg.GET("", api.studentList)
	sg.GET("/:userId", api.studentRetrieve)
	sg.DELETE("/:userId", api.studentRemove)
}

func toCourseState(s string) (course.State, error) {
	st := course.State(s)
	if !st.IsValid() {
		return "", core.NewValidationError(errors.Errorf("invalid courseState: %q", s))
	}
	return st, nil
}

// Handlers

func (api *courseAPI) courseCreate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(course.NewCourse)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	crs, err := api.service.Create(ident.UserID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseAPI) courseList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}
	states, err := bindStates(ctx, "courseStates", toCourseState)
	if err != nil {
		return err
	}

	page, err := api.service.List(ident.UserID, course.ListOptions{
		States:    states,
		StudentID: resolveUserID(ident, ctx.QueryParam("studentId")),
		TeacherID: resolveUserID(ident, ctx.QueryParam("teacherId")),
		Page:      pr.Page,
		PageSize:  pr.PageSize,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"courses": page.Items, "nextPage": page.NextPage})
}

func (api *courseAPI) courseRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	crs, err := api.service.Get(ident.UserID, ctx.Param("courseId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseAPI) courseUpdate(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(course.UpdateCourse)
	if err = ctx.Bind(data); err != nil {
		return err
	}

	crs, err := api.service.Update(ident.UserID, ctx.Param("courseId"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseAPI) courseDestroy(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	if err = api.service.Delete(ident.UserID, ctx.Param("courseId")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}

// Roster handlers

type addMemberRequest struct {
	UserID         string `json:"userId" validate:"required"`
	EnrollmentCode string `json:"enrollmentCode"`
}

func (r *addMemberRequest) Validate() error {
	r.UserID = core.CleanString(r.UserID)
	return core.Validate.Struct(r)
}

func (api *courseAPI) teacherAdd(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(addMemberRequest)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	t, err := api.service.AddTeacher(ident.UserID, ctx.Param("courseId"), resolveUserID(ident, data.UserID))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *courseAPI) teacherList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}

	page, err := api.service.ListTeachers(ident.UserID, ctx.Param("courseId"), pr.Page, pr.PageSize)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teachers": page.Items, "nextPage": page.NextPage})
}

func (api *courseAPI) teacherRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	t, err := api.service.GetTeacher(ident.UserID, ctx.Param("courseId"), resolveUserID(ident, ctx.Param("userId")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *courseAPI) teacherRemove(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	err = api.service.RemoveTeacher(ident.UserID, ctx.Param("courseId"), resolveUserID(ident, ctx.Param("userId")))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}

func (api *courseAPI) studentAdd(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}

	data := new(addMemberRequest)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return err
	}

	s, err := api.service.AddStudent(
		ident.UserID, ctx.Param("courseId"), resolveUserID(ident, data.UserID), data.EnrollmentCode)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *courseAPI) studentList(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	pr, err := bindPageRequest(ctx)
	if err != nil {
		return err
	}

	page, err := api.service.ListStudents(ident.UserID, ctx.Param("courseId"), pr.Page, pr.PageSize)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": page.Items, "nextPage": page.NextPage})
}

func (api *courseAPI) studentRetrieve(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	s, err := api.service.GetStudent(ident.UserID, ctx.Param("courseId"), resolveUserID(ident, ctx.Param("userId")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *courseAPI) studentRemove(ctx echo.Context) error {
	ident, err := contextIdentity(ctx)
	if err != nil {
		return err
	}
	err = api.service.RemoveStudent(ident.UserID, ctx.Param("courseId"), resolveUserID(ident, ctx.Param("userId")))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}
