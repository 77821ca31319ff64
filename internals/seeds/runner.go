package seeds

import (
	"log"
	"os"

	users "schooladmin_backend/internals/seeds/users/auth"

	"gorm.io/gorm"
)

func RunAllSeeds(db *gorm.DB) {
	//* User
	users.SeedAdminFromEnv(db)
	if path := os.Getenv("SEED_USERS_FILE"); path != "" {
		users.SeedUsersFromJSON(db, path)
	}
	log.Println("[SEED] done")
}
