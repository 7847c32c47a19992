package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Media struct {
		Dir string
	}
	Auth struct {
		JWTSecret        string
		AccessTTLMinutes int
		RefreshTTLHours  int
	}
	Storage struct {
		Backend   string // "local" or "s3"
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	TMDB struct {
		APIKey          string
		BaseAPIURL      string
		BaseImageURL    string
		StartSearchPage int
		MaxSearchPage   int
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("MOVIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("database.path", "data/movie.db")
	v.SetDefault("media.dir", "media")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.accessttlminutes", 30)
	v.SetDefault("auth.refreshttlhours", 24*7)
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "movie-media")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("tmdb.apikey", "")
	v.SetDefault("tmdb.baseapiurl", "https://api.themoviedb.org")
	v.SetDefault("tmdb.baseimageurl", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("tmdb.startsearchpage", 58)
	v.SetDefault("tmdb.maxsearchpage", 60)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
