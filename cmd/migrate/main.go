package main

import (
	"flag"
	"log"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/seeds"
)

func main() {
	seed := flag.Bool("seed", true, "run seeders after migrating")
	flag.Parse()

	configs.LoadEnv()
	db := configs.InitSeederDB()

	if err := seeds.Migrate(db); err != nil {
		log.Fatalf("[MIGRATE] failed: %v", err)
	}
	if *seed {
		seeds.RunAllSeeds(db)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
