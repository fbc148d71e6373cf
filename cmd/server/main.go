package main

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"

	"github.com/dasali-jenario/sketchroom/internal/config"
	"github.com/dasali-jenario/sketchroom/internal/game"
	"github.com/dasali-jenario/sketchroom/internal/ws"
	"github.com/dasali-jenario/sketchroom/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)

	words := game.DefaultWords()
	if cfg.WordBankPath != "" {
		fw, err := game.FileWords(cfg.WordBankPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.WordBankPath).Msg("word bank unavailable, using built-in words")
		} else {
			words = fw
		}
	}

	hub := ws.NewHub()
	reg := game.NewRegistry(hub, words)
	reg.SetDelays(cfg.TurnAdvance, cfg.EmptyRoomGrace)

	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.FrontendOrigin}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		ws.Serve(reg, hub, c)
	}))

	app.Get("/api/rooms", func(c *fiber.Ctx) error {
		return c.JSON(reg.Rooms())
	})

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
