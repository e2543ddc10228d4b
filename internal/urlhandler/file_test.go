package urlhandler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadTargetsFromFile(t *testing.T) {
	path := writeTargets(t, `
# watched pages
https://a.test/

  https://b.test/pricing
ftp://c.test/file
not a url
https://a.test/
`)

	targets, err := ReadTargetsFromFile(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.test/", "https://b.test/pricing"}, targets)
}

func TestReadTargetsFromFile_Missing(t *testing.T) {
	_, err := ReadTargetsFromFile(filepath.Join(t.TempDir(), "nope.txt"), zerolog.Nop())
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestReadTargetsFromFile_NoValidTargets(t *testing.T) {
	path := writeTargets(t, "# only comments\n\n")

	_, err := ReadTargetsFromFile(path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrFileEmpty)
}

func TestReadTargetsFromFile_Directory(t *testing.T) {
	_, err := ReadTargetsFromFile(t.TempDir(), zerolog.Nop())
	assert.Error(t, err)
}

func TestValidateTargetURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/page", false},
		{"http with port", "http://localhost:8080/", false},
		{"blank", "   ", true},
		{"no scheme", "example.com", true},
		{"other scheme", "ftp://example.com", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
