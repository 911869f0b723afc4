package routes

import (
	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// SetupRoutes wires the global middleware and every route group.
func SetupRoutes(app *fiber.App) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())

	registerPanelRoutes(app)
	registerDashboardRoutes(app)
	registerLinkRoutes(app)

	app.Get("/", rootRedirector)
	app.Use(notFoundHandler)
}

// initializeSessionAndLocals copies the pre-authenticated identity from the
// session into request locals. Authentication itself happens upstream; the
// app only trusts {userID, isAdmin}.
func initializeSessionAndLocals() fiber.Handler {
	sessionStore := configs.SetupSession()
	return func(c *fiber.Ctx) error {
		c.Locals("session_store", sessionStore)
		sess, err := utils.SessionStart(c)
		if err != nil {
			return c.Next()
		}
		if userID, err := utils.GetUserIDFromSession(sess); err == nil {
			c.Locals("userID", userID)
		}
		if isAdmin, err := utils.GetIsAdminFromSession(sess); err == nil {
			c.Locals("isAdmin", isAdmin)
		}
		return c.Next()
	}
}

// requireMember gates member routes on a present identity.
func requireMember(c *fiber.Ctx) error {
	if _, ok := c.Locals("userID").(uint); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in required"})
	}
	return c.Next()
}

// requireAdmin gates dashboard routes. The services re-check the admin flag
// against the member record; this is only the outer door.
func requireAdmin(c *fiber.Ctx) error {
	if _, ok := c.Locals("userID").(uint); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in required"})
	}
	if isAdmin, ok := c.Locals("isAdmin").(bool); !ok || !isAdmin {
		configslog.Log.Warn("non-admin hit dashboard route", zap.String("path", c.Path()))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
	}
	return c.Next()
}

func rootRedirector(c *fiber.Ctx) error {
	if _, ok := c.Locals("userID").(uint); !ok {
		return c.Redirect("/auth/login", fiber.StatusTemporaryRedirect)
	}
	if isAdmin, ok := c.Locals("isAdmin").(bool); ok && isAdmin {
		return c.Redirect("/dashboard/sessions", fiber.StatusFound)
	}
	return c.Redirect("/panel/sessions", fiber.StatusFound)
}

func notFoundHandler(c *fiber.Ctx) error {
	if c.Accepts("application/json", "text/html") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page not found"})
}
