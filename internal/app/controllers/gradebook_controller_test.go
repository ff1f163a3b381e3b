package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/app/models/dto"
	"github.com/yigit/uniportal/internal/middleware"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
	"github.com/yigit/uniportal/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

// stubGradebook records the arguments it was called with and answers err when set
type stubGradebook struct {
	err error

	courseID     int64
	termID       int64
	enrollmentID int64
	section      string
	marks        *dto.MarksRequest
	actor        *models.User
}

func (s *stubGradebook) StudentMarks(_ context.Context, student *models.User, courseID, termID int64) (*dto.StudentMarksResponse, error) {
	s.actor, s.courseID, s.termID = student, courseID, termID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StudentMarksResponse{CourseID: courseID, TermID: termID, Status: models.EnrollmentEnrolled}, nil
}

func (s *stubGradebook) Gradebook(_ context.Context, actor *models.User, courseID int64, query *dto.GradebookQuery) (*dto.GradebookResponse, error) {
	s.actor, s.courseID, s.termID, s.section = actor, courseID, query.TermID, query.Section
	if s.err != nil {
		return nil, s.err
	}
	return &dto.GradebookResponse{CourseID: courseID, TermID: query.TermID, Section: query.Section}, nil
}

func (s *stubGradebook) UpdateMarks(_ context.Context, actor *models.User, enrollmentID int64, req *dto.MarksRequest) (*dto.MarkResponse, error) {
	s.actor, s.enrollmentID, s.marks = actor, enrollmentID, req
	if s.err != nil {
		return nil, s.err
	}
	mark := req.ToModel(enrollmentID)
	mark.RecomputeTotal()
	resp := dto.NewMarkResponse(enrollmentID, mark)
	return &resp, nil
}

func (s *stubGradebook) Finalize(_ context.Context, actor *models.User, courseID int64, req *dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	s.actor, s.courseID, s.termID, s.section = actor, courseID, req.TermID, req.Section
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FinalizeResponse{Processed: 2, Skipped: 1, Total: 3}, nil
}

func newGradebookRouter(svc *stubGradebook, user *models.User) *gin.Engine {
	c := NewGradebookController(svc, zerolog.Nop())
	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		if user != nil {
			ctx.Set(middleware.ContextUserKey, user)
		}
	})
	router.GET("/student/courses/:courseId/marks", c.GetMyMarks)
	router.GET("/faculty/courses/:courseId/gradebook", c.GetGradebook)
	router.PUT("/faculty/enrollments/:enrollmentId/marks", c.UpdateMarks)
	router.POST("/faculty/courses/:courseId/finalize", c.FinalizeGrades)
	return router
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     string
	svcErr   error
	wantCode int
	wantErr  dto.ErrorCode
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGradebookController_StatusMapping(t *testing.T) {
	teacher := &models.User{ID: 7, Role: models.RoleFaculty, IsActive: true}

	tests := []httpTest{
		{name: "gradebook ok", method: http.MethodGet, path: "/faculty/courses/3/gradebook?termId=2", wantCode: http.StatusOK},
		{name: "gradebook bad course id", method: http.MethodGet, path: "/faculty/courses/x/gradebook?termId=2",
			wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeValidationFailed},
		{name: "gradebook zero course id", method: http.MethodGet, path: "/faculty/courses/0/gradebook?termId=2",
			wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeValidationFailed},
		{name: "gradebook missing term", method: http.MethodGet, path: "/faculty/courses/3/gradebook",
			wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeValidationFailed},
		{name: "gradebook not instructor", method: http.MethodGet, path: "/faculty/courses/3/gradebook?termId=2",
			svcErr: apperrors.ErrNotCourseInstructor, wantCode: http.StatusForbidden, wantErr: dto.ErrorCodeForbidden},
		{name: "gradebook unknown section", method: http.MethodGet, path: "/faculty/courses/3/gradebook?termId=2&section=Z",
			svcErr: apperrors.ErrSectionNotFound, wantCode: http.StatusNotFound, wantErr: dto.ErrorCodeResourceNotFound},
		{name: "marks ok", method: http.MethodPut, path: "/faculty/enrollments/11/marks", body: `{"finalExam": 61.5}`,
			wantCode: http.StatusOK},
		{name: "marks negative component", method: http.MethodPut, path: "/faculty/enrollments/11/marks", body: `{"quiz1": -1}`,
			wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeValidationFailed},
		{name: "marks malformed body", method: http.MethodPut, path: "/faculty/enrollments/11/marks", body: `{"quiz1":`,
			wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeValidationFailed},
		{name: "marks on dropped enrollment", method: http.MethodPut, path: "/faculty/enrollments/11/marks", body: `{}`,
			svcErr: apperrors.ErrEnrollmentNotActive, wantCode: http.StatusConflict, wantErr: dto.ErrorCodeConflict},
		{name: "finalize ok", method: http.MethodPost, path: "/faculty/courses/3/finalize", body: `{"termId": 2, "section": "A"}`,
			wantCode: http.StatusOK},
		{name: "finalize missing term", method: http.MethodPost, path: "/faculty/courses/3/finalize", body: `{}`,
			wantCode: http.StatusBadRequest, wantErr: dto.ErrorCodeValidationFailed},
		{name: "finalize storage failure", method: http.MethodPost, path: "/faculty/courses/3/finalize", body: `{"termId": 2}`,
			svcErr:   fmt.Errorf("error upserting transcript: %w", context.DeadlineExceeded),
			wantCode: http.StatusInternalServerError, wantErr: dto.ErrorCodeInternalServer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubGradebook{err: tc.svcErr}
			w := serve(newGradebookRouter(svc, teacher), tc.method, tc.path, tc.body)

			require.Equal(t, tc.wantCode, w.Code, w.Body.String())
			if tc.wantErr != "" {
				var body dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				require.NotNil(t, body.Error)
				assert.Equal(t, tc.wantErr, body.Error.Code)
			}
		})
	}
}

func TestGradebookController_PassesRequestThrough(t *testing.T) {
	teacher := &models.User{ID: 7, Role: models.RoleFaculty, IsActive: true}
	svc := &stubGradebook{}
	router := newGradebookRouter(svc, teacher)

	w := serve(router, http.MethodGet, "/faculty/courses/3/gradebook?termId=2&section=unassigned", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.courseID)
	assert.Equal(t, int64(2), svc.termID)
	assert.Equal(t, "unassigned", svc.section)
	assert.Same(t, teacher, svc.actor)

	w = serve(router, http.MethodPut, "/faculty/enrollments/11/marks", `{"mid1": 20, "quiz2": null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(11), svc.enrollmentID)
	require.NotNil(t, svc.marks.Mid1)
	assert.Equal(t, 20.0, *svc.marks.Mid1)
	assert.Nil(t, svc.marks.Quiz2)

	var envelope struct {
		Success bool             `json:"success"`
		Data    dto.MarkResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data.Total)
	assert.Equal(t, 20.0, *envelope.Data.Total)

	w = serve(router, http.MethodPost, "/faculty/courses/5/finalize", `{"termId": 9}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.courseID)
	assert.Equal(t, int64(9), svc.termID)
	assert.Empty(t, svc.section)
}

func TestGradebookController_StudentMarks(t *testing.T) {
	student := &models.User{ID: 21, Role: models.RoleStudent, IsActive: true}
	svc := &stubGradebook{}

	w := serve(newGradebookRouter(svc, student), http.MethodGet, "/student/courses/4/marks?termId=6", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Same(t, student, svc.actor)
	assert.Equal(t, int64(4), svc.courseID)
	assert.Equal(t, int64(6), svc.termID)

	svc.err = apperrors.ErrEnrollmentNotFound
	w = serve(newGradebookRouter(svc, student), http.MethodGet, "/student/courses/4/marks?termId=6", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGradebookController_RequiresUser(t *testing.T) {
	svc := &stubGradebook{}
	w := serve(newGradebookRouter(svc, nil), http.MethodGet, "/faculty/courses/3/gradebook?termId=2", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, svc.actor, "service must not be reached without a user")
}
