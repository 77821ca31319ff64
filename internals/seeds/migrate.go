package seeds

import (
	"log"

	feeModel "schooladmin_backend/internals/features/finance/fees/model"
	paymentModel "schooladmin_backend/internals/features/finance/payments/model"
	classModel "schooladmin_backend/internals/features/school/academics/classes/model"
	subjectModel "schooladmin_backend/internals/features/school/academics/subjects/model"
	timetableModel "schooladmin_backend/internals/features/school/academics/timetables/model"
	attendanceModel "schooladmin_backend/internals/features/school/attendance/model"
	examModel "schooladmin_backend/internals/features/school/exams/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	teacherModel "schooladmin_backend/internals/features/school/teachers/model"
	authModel "schooladmin_backend/internals/features/users/auth/model"
	userModel "schooladmin_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

// Partial indexes AutoMigrate cannot express.
var extraIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_tx_gateway_id
		ON payment_transactions (payment_transaction_gateway_transaction_id)
		WHERE payment_transaction_gateway_transaction_id IS NOT NULL`,
}

func Migrate(db *gorm.DB) error {
	log.Println("[MIGRATE] running AutoMigrate...")
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&studentModel.StudentModel{},
		&teacherModel.TeacherModel{},
		&classModel.ClassModel{},
		&subjectModel.SubjectModel{},
		&examModel.ExamModel{},
		&examModel.ExamResultModel{},
		&timetableModel.TimetableModel{},
		&attendanceModel.AttendanceModel{},
		&feeModel.FeeStructureModel{},
		&feeModel.FeeCollectionModel{},
		&paymentModel.PaymentTransactionModel{},
		&paymentModel.PaymentGatewayEventModel{},
	); err != nil {
		return err
	}
	for _, q := range extraIndexes {
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}
	log.Println("[MIGRATE] schema up to date")
	return nil
}
