package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// GLMCredentials holds the Anthropic-compatible endpoint settings for the
// GLM monitor's API action.
type GLMCredentials struct {
	AuthToken string
	BaseURL   string
}

// GLMEnvPath is the dotenv file the GLM tooling writes its credentials to.
func GLMEnvPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".glmenv", "env")
}

// LoadGLMCredentials reads the GLM env file. Both values must be present;
// an incomplete file is reported so the operator can fix it before the
// monitor starts.
func LoadGLMCredentials(path string) (GLMCredentials, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return GLMCredentials{}, fmt.Errorf("read GLM env %s: %w", path, err)
	}

	creds := GLMCredentials{
		AuthToken: env["ANTHROPIC_AUTH_TOKEN"],
		BaseURL:   env["ANTHROPIC_BASE_URL"],
	}
	if creds.AuthToken == "" || creds.BaseURL == "" {
		return GLMCredentials{}, fmt.Errorf("GLM config incomplete in %s", path)
	}
	return creds, nil
}
