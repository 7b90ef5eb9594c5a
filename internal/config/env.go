package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvConfig is the full environment-driven configuration of the service.
// Everything has a workable default; only the LLM API key is genuinely
// deployment-specific.
type EnvConfig struct {
	ListenAddr  string
	SourcesPath string

	LLM   LLMEnvConfig
	Fetch FetchEnvConfig
	News  NewsEnvConfig
	OTel  OTelEnvConfig
}

// LLMEnvConfig configures the OpenAI-compatible chat endpoint used for
// AI search and rewrite. SearchModel is the lightweight model; DeepModel is
// used for rewrite requests that ask for it.
type LLMEnvConfig struct {
	APIKey      string
	BaseURL     string
	SearchModel string
	DeepModel   string
	Timeout     time.Duration
}

// FetchEnvConfig bounds the live fetch paths (feeds and listing pages).
type FetchEnvConfig struct {
	HTTPTimeout time.Duration
	UserAgent   string
}

// NewsEnvConfig carries the aggregation caps and defaults.
type NewsEnvConfig struct {
	PerSourceCap   int
	TotalCap       int
	AISearchCap    int
	DefaultHours   int
	RequestTimeout time.Duration
}

type OTelEnvConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	Protocol    string // "grpc" or "http/protobuf"
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func LoadEnv() EnvConfig {
	otlpEndpoint := strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""))

	return EnvConfig{
		ListenAddr:  envString("LISTEN_ADDR", ":"+envString("PORT", "5000")),
		SourcesPath: envString("NEWS_SOURCES_CONFIG", ""),
		LLM: LLMEnvConfig{
			APIKey:      strings.TrimSpace(envString("ARK_API_KEY", "")),
			BaseURL:     strings.TrimSpace(envString("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")),
			SearchModel: envString("ARK_MODEL_SEARCH", "doubao-lite-4k"),
			DeepModel:   envString("ARK_MODEL_DEEP", "doubao-4-8k"),
			Timeout:     envDuration("ARK_HTTP_TIMEOUT", 30*time.Second),
		},
		Fetch: FetchEnvConfig{
			HTTPTimeout: envDuration("FETCH_HTTP_TIMEOUT", 15*time.Second),
			UserAgent:   envString("FETCH_USER_AGENT", defaultUserAgent),
		},
		News: NewsEnvConfig{
			PerSourceCap:   envInt("NEWS_PER_SOURCE_CAP", 10),
			TotalCap:       envInt("NEWS_TOTAL_CAP", 10),
			AISearchCap:    envInt("NEWS_AI_SEARCH_CAP", 5),
			DefaultHours:   envInt("NEWS_DEFAULT_HOURS", 24),
			RequestTimeout: envDuration("NEWS_REQUEST_TIMEOUT", 60*time.Second),
		},
		OTel: OTelEnvConfig{
			Enabled:     envBool("OTEL_ENABLED", false),
			ServiceName: strings.TrimSpace(envString("OTEL_SERVICE_NAME", "auto-news-writer")),
			Endpoint:    otlpEndpoint,
			Protocol:    strings.ToLower(strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			Headers:     parseHeaders(envString("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", defaultInsecure(otlpEndpoint)),
			SampleRatio: clamp01(envFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0)),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := parseDurationExtended(v)
	if err != nil {
		return fallback
	}
	return d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func defaultInsecure(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return true
	}
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return false
		}
		return u.Scheme == "http"
	}
	return strings.HasPrefix(endpoint, "localhost:") ||
		strings.HasPrefix(endpoint, "127.0.0.1:") ||
		strings.HasPrefix(endpoint, "0.0.0.0:")
}
