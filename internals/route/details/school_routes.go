package details

import (
	ClassRoutes "schooladmin_backend/internals/features/school/academics/classes/route"
	SubjectRoutes "schooladmin_backend/internals/features/school/academics/subjects/route"
	TimetableRoutes "schooladmin_backend/internals/features/school/academics/timetables/route"
	AttendanceRoutes "schooladmin_backend/internals/features/school/attendance/route"
	DashboardRoutes "schooladmin_backend/internals/features/school/dashboard/route"
	ExamRoutes "schooladmin_backend/internals/features/school/exams/route"
	PromotionRoutes "schooladmin_backend/internals/features/school/promotions/route"
	StudentRoutes "schooladmin_backend/internals/features/school/students/route"
	TeacherRoutes "schooladmin_backend/internals/features/school/teachers/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SchoolRoutes mounts every token-protected school module.
// ExamRoutes goes before StudentRoutes so /students/me/results is matched first.
func SchoolRoutes(r fiber.Router, db *gorm.DB) {
	ExamRoutes.ExamRoutes(r, db)
	StudentRoutes.StudentRoutes(r, db)
	TeacherRoutes.TeacherRoutes(r, db)
	TimetableRoutes.TimetableRoutes(r, db)
	ClassRoutes.ClassRoutes(r, db)
	SubjectRoutes.SubjectRoutes(r, db)
	AttendanceRoutes.AttendanceRoutes(r, db)
	PromotionRoutes.PromotionRoutes(r, db)
	DashboardRoutes.DashboardRoutes(r, db)
}
