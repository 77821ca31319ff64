package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPGError maps postgres constraint violations to an HTTP status.
func MapPGError(err error) (int, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return 0, "", false
	}
	switch pgErr.Code {
	case "23505":
		return fiber.StatusConflict, "duplicate record (" + pgErr.ConstraintName + ")", true
	case "23503":
		return fiber.StatusBadRequest, "referenced record not found (" + pgErr.ConstraintName + ")", true
	case "23P01":
		return fiber.StatusConflict, "record overlaps an existing one", true
	case "23514":
		return fiber.StatusBadRequest, "check constraint failed (" + pgErr.ConstraintName + ")", true
	}
	return 0, "", false
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
