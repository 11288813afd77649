package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	StorageModeMemory   = "memory"
	StorageModeSQLite   = "sqlite"
	StorageModePostgres = "postgres"
	StorageModeS3       = "s3"
	StorageModeAuto     = "auto"
)

const (
	AIModeMock   = "mock"
	AIModeGemini = "gemini"
	AIModeOpenAI = "openai"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// Diagnostics returns level, code and message describing the S3 setup.
func (c S3Config) Diagnostics() (level string, code string, message string) {
	missing := c.MissingRequired()
	if len(missing) == 0 {
		return "INFO", "s3_ready", "S3 storage configured"
	}
	if len(missing) == 5 {
		return "INFO", "s3_not_configured", "S3 storage not configured"
	}
	return "WARN", "s3_partial_config", fmt.Sprintf("S3 storage partially configured, missing: %s", strings.Join(missing, ", "))
}

// DiagnosticsSummary returns a summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s prefix=%s access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.Prefix),
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

// GoalsConfig holds the static daily targets.
type GoalsConfig struct {
	Calories     float64
	ProteinG     float64
	CarbsG       float64
	FatsG        float64
	Steps        int
	WaterGlasses int
}

// StatsSeed is the session's starting activity snapshot.
type StatsSeed struct {
	Steps          int
	CaloriesBurned float64
	ActiveMinutes  int
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Storage
	StorageMode       string // memory | sqlite | postgres | s3 | auto
	SQLitePath        string
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string
	DatabaseURLPooled string
	DatabaseURLDirect string
	S3                S3Config

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Goals & session seed
	Goals     GoalsConfig
	StatsSeed StatsSeed

	// ChartSeed fixes the generator behind mock chart history; 0 means random.
	ChartSeed uint64

	// AI
	AIMode            string // mock | gemini | openai
	AIMaxOutputTokens int
	AITemperature     float64
	AITimeoutSeconds  int
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- Storage ----------
	storageMode := parseEnum("STORAGE_MODE", StorageModeAuto,
		StorageModeMemory, StorageModeSQLite, StorageModePostgres, StorageModeS3, StorageModeAuto)

	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if sqlitePath == "" {
		sqlitePath = "data/nutrilog.db"
	}

	s3Cfg := S3Config{
		Endpoint:        strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		Prefix:          strings.TrimSpace(os.Getenv("S3_PREFIX")),
		AccessKeyID:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
	}
	if s3Cfg.Prefix == "" {
		s3Cfg.Prefix = "nutrilog/"
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Goals ----------
	goals := GoalsConfig{
		Calories:     positiveFloat("GOAL_CALORIES", 2500),
		ProteinG:     positiveFloat("GOAL_PROTEIN_G", 150),
		CarbsG:       positiveFloat("GOAL_CARBS_G", 300),
		FatsG:        positiveFloat("GOAL_FATS_G", 70),
		Steps:        positiveInt("GOAL_STEPS", 8000),
		WaterGlasses: positiveInt("GOAL_WATER_GLASSES", 8),
	}

	// Initial session activity (step provider not wired yet)
	seed := StatsSeed{
		Steps:          envInt("STATS_SEED_STEPS", 6540),
		CaloriesBurned: envFloat("STATS_SEED_CALORIES_BURNED", 450),
		ActiveMinutes:  envInt("STATS_SEED_ACTIVE_MINUTES", 35),
	}
	if seed.Steps < 0 {
		seed.Steps = 0
	}
	if seed.CaloriesBurned < 0 {
		seed.CaloriesBurned = 0
	}
	if seed.ActiveMinutes < 0 {
		seed.ActiveMinutes = 0
	}

	var chartSeed uint64
	if raw := strings.TrimSpace(os.Getenv("CHART_SEED")); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			log.Printf("WARNING: invalid CHART_SEED=%q, using random history", raw)
		} else {
			chartSeed = v
		}
	}

	// ---------- AI ----------
	aiMode := parseEnum("AI_MODE", AIModeMock, AIModeMock, AIModeGemini, AIModeOpenAI)

	aiMaxOutputTokens := envInt("AI_MAX_OUTPUT_TOKENS", 600)
	if aiMaxOutputTokens <= 0 {
		aiMaxOutputTokens = 600
	}

	aiTemperature := envFloat("AI_TEMPERATURE", 0.3)
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}

	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 20)
	if aiTimeoutSeconds <= 0 {
		aiTimeoutSeconds = 20
	}

	geminiAPIKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if geminiAPIKey == "" {
		geminiAPIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	}
	geminiModel := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}

	openAIAPIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	openAIModel := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if openAIModel == "" {
		openAIModel = "gpt-4.1-mini"
	}

	if aiMode == AIModeGemini && geminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required when AI_MODE=gemini")
	}
	if aiMode == AIModeOpenAI && openAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required when AI_MODE=openai")
	}

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		StorageMode:       storageMode,
		SQLitePath:        sqlitePath,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,
		S3:                s3Cfg,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		Goals:     goals,
		StatsSeed: seed,
		ChartSeed: chartSeed,

		AIMode:            aiMode,
		AIMaxOutputTokens: aiMaxOutputTokens,
		AITemperature:     aiTemperature,
		AITimeoutSeconds:  aiTimeoutSeconds,
		GeminiAPIKey:      geminiAPIKey,
		GeminiModel:       geminiModel,
		OpenAIAPIKey:      openAIAPIKey,
		OpenAIModel:       openAIModel,

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

// EffectiveStorageMode resolves "auto": postgres when a database URL is
// configured, sqlite otherwise.
func (c *Config) EffectiveStorageMode() string {
	if c.StorageMode != StorageModeAuto {
		return c.StorageMode
	}
	if c.DatabaseURL != "" {
		return StorageModePostgres
	}
	return StorageModeSQLite
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseEnum(key string, defaultVal string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	log.Printf("WARNING: unknown %s=%q, fallback to %s", key, v, defaultVal)
	return defaultVal
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func positiveInt(key string, defaultVal int) int {
	v := envInt(key, defaultVal)
	if v <= 0 {
		return defaultVal
	}
	return v
}

func positiveFloat(key string, defaultVal float64) float64 {
	v := envFloat(key, defaultVal)
	if v <= 0 {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
