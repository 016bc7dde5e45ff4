package mocks

import "github.com/tobenna/vendora/internal/config"

func NewMockConfig() *config.Config {
	var cfg config.Config

	cfg.BaseURL = "http://localhost"
	cfg.HttpPort = 8080
	cfg.Db.Dsn = "mock_dsn"
	cfg.Db.Automigrate = false
	cfg.Jwt.SecretKey = "test_secret"
	cfg.Flutterwave.SecretHash = "test-flw-secret-hash"
	cfg.Notifications.Email = ""
	cfg.Smtp.Host = "smtp.example.com"
	cfg.Smtp.Port = 587
	cfg.Smtp.Username = "user@example.com"
	cfg.Smtp.Password = "password"
	cfg.Smtp.From = "no-reply@example.com"
	cfg.RedisServer = "localhost:6379"
	cfg.KafkaServers = "localhost:9092"

	return &cfg
}
