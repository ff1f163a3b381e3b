package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/controllers"
	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Term         *controllers.TermController
	Course       *controllers.CourseController
	Enrollment   *controllers.EnrollmentController
	Gradebook    *controllers.GradebookController
	Transcript   *controllers.TranscriptController
	Attendance   *controllers.AttendanceController
	Fee          *controllers.FeeController
	User         *controllers.UserController
	Settings     *controllers.SettingsController
	Notification *controllers.NotificationController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c *Controllers,
	authMiddleware *middleware.AuthMiddleware,
	settings middleware.SettingsSource,
) {
	router.GET("/ping", c.Health.Ping)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", c.Health.Health)
	v1.GET("/settings/public", c.Settings.GetPublicSettings)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	// Maintenance runs after JWTAuth so that admins keep access
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), middleware.Maintenance(settings))
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/auth/me", c.Auth.Me)

		authenticated.GET("/terms", c.Term.ListTerms)
		authenticated.GET("/terms/active", c.Term.GetActiveTerm)

		authenticated.GET("/courses", c.Course.ListCourses)
		authenticated.GET("/courses/:id", c.Course.GetCourse)

		authenticated.GET("/notifications", c.Notification.ListNotifications)
		authenticated.POST("/notifications/:id/read", c.Notification.MarkRead)
	}

	student := authenticated.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/enrollments", c.Enrollment.ListMyEnrollments)
		student.POST("/enrollments", c.Enrollment.Enroll)
		student.DELETE("/enrollments/:id", c.Enrollment.Drop)
		student.GET("/courses/:courseId/marks", c.Gradebook.GetMyMarks)
		student.GET("/transcript", c.Transcript.GetMyTranscript)
		student.GET("/attendance", c.Attendance.GetMyAttendance)
		student.GET("/fees", c.Fee.GetMyLedger)
	}

	// Admins pass every faculty check
	faculty := authenticated.Group("/faculty")
	faculty.Use(authMiddleware.RoleRequired(models.RoleFaculty, models.RoleAdmin))
	{
		faculty.GET("/courses", c.Course.ListTaughtCourses)
		faculty.GET("/courses/:courseId/gradebook", c.Gradebook.GetGradebook)
		faculty.POST("/courses/:courseId/finalize", c.Gradebook.FinalizeGrades)
		faculty.PUT("/enrollments/:enrollmentId/marks", c.Gradebook.UpdateMarks)
		faculty.GET("/courses/:courseId/attendance", c.Attendance.GetCourseAttendance)
		faculty.PUT("/courses/:courseId/attendance", c.Attendance.RecordAttendance)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", c.User.ListUsers)
		admin.POST("/users", c.User.CreateUser)
		admin.PUT("/users/:id", c.User.UpdateUser)
		admin.GET("/users/:id/fees", c.Fee.GetUserLedger)
		admin.POST("/users/:id/fees", c.Fee.RecordFee)

		admin.POST("/terms", c.Term.CreateTerm)
		admin.PUT("/terms/:id", c.Term.UpdateTerm)
		admin.POST("/terms/:id/activate", c.Term.ActivateTerm)

		admin.POST("/courses", c.Course.CreateCourse)
		admin.PUT("/courses/:id", c.Course.UpdateCourse)
		admin.POST("/courses/:id/sections", c.Course.CreateSection)
		admin.PUT("/sections/:id/instructor", c.Course.AssignInstructor)

		admin.GET("/settings", c.Settings.GetSettings)
		admin.PUT("/settings", c.Settings.UpdateSettings)

		admin.POST("/notifications", c.Notification.Broadcast)
	}
}
