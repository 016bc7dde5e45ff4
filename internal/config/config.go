package config

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	Jwt struct {
		SecretKey string
	}
	// Flutterwave signs transfer webhooks with a pre-shared secret hash,
	// sent verbatim in the "verif-hash" header. The value is injected here
	// once at startup, never read from the environment per request.
	Flutterwave struct {
		SecretHash string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	RedisServer  string
	KafkaServers string
}
