package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type (
	Container struct {
		App         *App
		Token       *Token
		DB          *DB
		HTTP        *HTTP
		Redis       *Redis
		Storage     *Storage
		AuthService *AuthService
		BikeService *BikeService
	}

	App struct {
		Name string
		Env  string
	}

	Token struct {
		Secret   string
		Duration time.Duration
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
	}

	Storage struct {
		Endpoint     string
		AccessKey    string
		SecretKey    string
		Bucket       string
		Region       string
		AccessDomain string
		UseSSL       bool
	}

	AuthService struct {
		Address string
		Timeout time.Duration
	}

	BikeService struct {
		Address string
		Timeout time.Duration
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		// Missing .env is fine when everything comes from the environment.
		_ = godotenv.Load()
	}

	app := &App{
		Name: os.Getenv("APP_NAME"),
		Env:  os.Getenv("APP_ENV"),
	}

	token := &Token{
		Secret:   os.Getenv("TOKEN_SECRET"),
		Duration: durationEnv("TOKEN_DURATION", 30*time.Minute),
	}

	db := &DB{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
	}

	http := &HTTP{
		Port:           os.Getenv("HTTP_PORT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            os.Getenv("APP_ENV"),
	}

	redis := &Redis{
		Address:  os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	storage := &Storage{
		Endpoint:     os.Getenv("S3_ENDPOINT"),
		AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		SecretKey:    os.Getenv("S3_SECRET_KEY"),
		Bucket:       os.Getenv("S3_BUCKET_NAME"),
		Region:       os.Getenv("S3_REGION"),
		AccessDomain: os.Getenv("S3_ACCESS_DOMAIN"),
		UseSSL:       os.Getenv("S3_USE_SSL") != "false",
	}

	authService := &AuthService{
		Address: os.Getenv("AUTH_SERVICE_ADDRESS"),
		Timeout: durationEnv("AUTH_SERVICE_TIMEOUT", 10*time.Second),
	}

	bikeService := &BikeService{
		Address: os.Getenv("BIKE_SERVICE_ADDRESS"),
		Timeout: durationEnv("BIKE_SERVICE_TIMEOUT", 5*time.Second),
	}

	return &Container{
		App:         app,
		Token:       token,
		DB:          db,
		HTTP:        http,
		Redis:       redis,
		Storage:     storage,
		AuthService: authService,
		BikeService: bikeService,
	}, nil
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
