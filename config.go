package vocta

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// apiKeyEnvVars are the accepted credential variable names; first present wins.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_GENAI_API_KEY", "GOOGLE_API_KEY"}

// Config holds all server configuration, resolved once at startup.
type Config struct {
	APIKey       string
	ModelID      string
	ModelBackend string // "rest" (default) or "genai"
	Port         string

	TraceStore string // "sqlite", "postgres" or "off"
	TraceDSN   string

	TTSVoice       string
	TTSLanguage    string
	SpeechLanguage string
}

// LoadConfig reads configuration from the environment, loading a .env file
// first if one exists (not present in production).
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		APIKey:         ResolveAPIKey(),
		ModelID:        getenvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		ModelBackend:   getenvDefault("MODEL_BACKEND", "rest"),
		Port:           getenvDefault("PORT", "3001"),
		TraceStore:     getenvDefault("TRACE_STORE", "sqlite"),
		TraceDSN:       getenvDefault("TRACE_DSN", "turn_traces.sqlite"),
		TTSVoice:       getenvDefault("TTS_VOICE", "en-US-Studio-M"),
		TTSLanguage:    getenvDefault("TTS_LANGUAGE", "en-US"),
		SpeechLanguage: getenvDefault("SPEECH_LANGUAGE", "en-US"),
	}
}

// ResolveAPIKey returns the model credential from the first populated
// environment variable. The value itself is never logged.
func ResolveAPIKey() string {
	for _, name := range apiKeyEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func getenvDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
