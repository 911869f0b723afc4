package main

import (
	"os"
	"os/signal"
	"syscall"

	"bandmate.link/configs"
	"bandmate.link/configs/configsdatabase"
	"bandmate.link/configs/configslog"
	"bandmate.link/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configs.LoadEnv()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		AppName:     "bandmate.link",
	})

	routes.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	addr := configs.ListenAddr()
	configslog.SLog.Infof("listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		configslog.Log.Fatal("server stopped", zap.Error(err))
	}
}
