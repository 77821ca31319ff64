package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "schooladmin_backend/internals/features/users/auth/model"
	userModel "schooladmin_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByIdentifier(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("lower(email) = lower(?) OR user_name = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, hashed string) error {
	return db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"password": hashed, "is_first_login": false}).Error
}

func TouchLastLogin(db *gorm.DB, userID uuid.UUID, at time.Time) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

// ProfileIDs returns the student/teacher row linked to a user, if any.
func ProfileIDs(db *gorm.DB, userID uuid.UUID) (studentID, teacherID *uuid.UUID) {
	var sid, tid uuid.UUID
	if err := db.Raw(`SELECT student_id FROM students WHERE student_user_id = ? AND student_deleted_at IS NULL LIMIT 1`, userID).
		Scan(&sid).Error; err == nil && sid != uuid.Nil {
		studentID = &sid
	}
	if err := db.Raw(`SELECT teacher_id FROM teachers WHERE teacher_user_id = ? AND teacher_deleted_at IS NULL LIMIT 1`, userID).
		Scan(&tid).Error; err == nil && tid != uuid.Nil {
		teacherID = &tid
	}
	return
}

/* ====================== BLACKLIST ====================== */

func BlacklistToken(db *gorm.DB, token string, ttl time.Duration) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: time.Now().UTC().Add(ttl),
	}).Error
}

func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var n int64
	err := db.Model(&authModel.TokenBlacklist{}).Where("token = ?", token).Count(&n).Error
	return n > 0, err
}

func CleanupExpiredBlacklist(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Unscoped().Where("expired_at <= ?", before).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
