package config

import (
	"time"

	"github.com/stake-plus/truthlens/src/faults"
	"github.com/stake-plus/truthlens/src/modality"
)

// DefaultMaxUploadBytes matches the 25 MiB multipart limit.
const DefaultMaxUploadBytes = 25 << 20

// Server holds HTTP surface settings.
type Server struct {
	Port               string
	AppAPIKey          string
	JWTSecret          string
	RateLimitPerMinute int
	CORSOrigins        []string
	MaxUploadBytes     int64
	RequestTimeout     time.Duration
}

// Media holds acquisition settings.
type Media struct {
	FrameCount    int
	VideoStrategy modality.VideoStrategy
	TempDir       string
	FFmpegPath    string
	FFprobePath   string
	FetchTimeout  time.Duration
	// AllowPrivate lets URL acquisition reach loopback and private networks.
	AllowPrivate bool
}

// Storage holds optional persistence settings. Empty values disable the store.
type Storage struct {
	MySQLDSN string
	RedisURL string
	CacheTTL time.Duration
}

// MCP holds Model Context Protocol server settings.
type MCP struct {
	Listen string
	Token  string
}

// Config is the full runtime configuration.
type Config struct {
	AI      AI
	Server  Server
	Media   Media
	Storage Storage
	MCP     MCP
}

// MySQLDSN resolves only the DSN, so the settings table can be loaded before Load.
func MySQLDSN() string { return Setting("MYSQL_DSN", "") }

// Load resolves every section.
func Load() (Config, error) {
	ai, err := LoadAI()
	if err != nil {
		return Config{}, err
	}
	server, err := loadServer()
	if err != nil {
		return Config{}, err
	}
	media, err := loadMedia()
	if err != nil {
		return Config{}, err
	}
	ttl, err := secondsSetting("CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return Config{}, err
	}
	return Config{
		AI:     ai,
		Server: server,
		Media:  media,
		Storage: Storage{
			MySQLDSN: MySQLDSN(),
			RedisURL: Setting("REDIS_URL", ""),
			CacheTTL: ttl,
		},
		MCP: MCP{
			Listen: Setting("MCP_LISTEN", ""),
			Token:  Setting("MCP_TOKEN", ""),
		},
	}, nil
}

func loadServer() (Server, error) {
	rate, err := intSetting("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return Server{}, err
	}
	maxUpload, err := intSetting("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return Server{}, err
	}
	timeout, err := secondsSetting("REQUEST_TIMEOUT_SECONDS", 120)
	if err != nil {
		return Server{}, err
	}
	if maxUpload <= 0 {
		return Server{}, faults.Config("MAX_UPLOAD_BYTES must be positive")
	}
	return Server{
		Port:               Setting("PORT", "8080"),
		AppAPIKey:          Setting("APP_API_KEY", ""),
		JWTSecret:          Setting("APP_JWT_SECRET", ""),
		RateLimitPerMinute: rate,
		CORSOrigins:        listSetting("CORS_ORIGINS", "*"),
		MaxUploadBytes:     int64(maxUpload),
		RequestTimeout:     timeout,
	}, nil
}

func loadMedia() (Media, error) {
	frames, err := intSetting("VIDEO_FRAME_COUNT", 20)
	if err != nil {
		return Media{}, err
	}
	if frames < 1 || frames > 120 {
		return Media{}, faults.Config("VIDEO_FRAME_COUNT must be between 1 and 120")
	}
	strategy, err := modality.ParseStrategy(Setting("VIDEO_STRATEGY", string(modality.StrategyFrames)))
	if err != nil {
		return Media{}, faults.Config(err.Error())
	}
	fetch, err := secondsSetting("FETCH_TIMEOUT_SECONDS", 20)
	if err != nil {
		return Media{}, err
	}
	allowPrivate, err := boolSetting("FETCH_ALLOW_PRIVATE", false)
	if err != nil {
		return Media{}, err
	}
	return Media{
		FrameCount:    frames,
		VideoStrategy: strategy,
		TempDir:       Setting("TEMP_DIR", ""),
		FFmpegPath:    Setting("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:   Setting("FFPROBE_PATH", "ffprobe"),
		FetchTimeout:  fetch,
		AllowPrivate:  allowPrivate,
	}, nil
}
