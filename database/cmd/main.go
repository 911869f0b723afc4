package main

import (
	"flag"

	"bandmate.link/configs"
	"bandmate.link/configs/configsdatabase"
	"bandmate.link/configs/configslog"
	"bandmate.link/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "run database migrations")
	seedFlag := flag.Bool("seed", false, "run database seeders")
	flag.Parse()

	configs.LoadEnv()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("running database initialization...")
	database.Initialize(db, *migrateFlag, *seedFlag)
	configslog.SLog.Info("database initialization finished")
}
