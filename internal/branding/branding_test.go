package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedValues(t *testing.T) {
	assert.Equal(t, "flykit", CLIName())
	assert.Equal(t, ".expb", HomeDir())
	assert.Equal(t, "FLYKIT", EnvPrefix())
	assert.Equal(t, "https://www.fly.itrypro.ru/alp/index.html", Homepage())
	assert.Equal(t, "https://fly.itrypro.ru/flykit.exe", DownloadURL())
	assert.NotEmpty(t, DisplayName())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "FLYKIT_HOME", EnvVar("HOME"))
	assert.Equal(t, "FLYKIT_EXTENSIONS", EnvVar("EXTENSIONS"))
}
