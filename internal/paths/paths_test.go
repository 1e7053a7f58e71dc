package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppDataDir_ContainsAppName(t *testing.T) {
	dir := AppDataDir()
	require.NotEmpty(t, dir)
	require.True(t, strings.HasSuffix(dir, "switchboard"), "AppDataDir should end with 'switchboard': %s", dir)
	require.True(t, filepath.IsAbs(dir), "AppDataDir should return an absolute path: %s", dir)
}

func TestAppLocalDataDir_WithXDGDataHome(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Test only runs on Linux")
	}

	customPath := "/tmp/custom/data"
	t.Setenv("XDG_DATA_HOME", customPath)

	require.Equal(t, filepath.Join(customPath, "switchboard"), AppLocalDataDir())
	require.Equal(t, filepath.Join(customPath, "switchboard", "switchboard.db"), DBPath())
}

func TestConfigFilePath_UnderHomeDir(t *testing.T) {
	path, err := ConfigFilePath()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".sbrc"), path)
}

func TestLogFilePath_IsUnderAppDataDir(t *testing.T) {
	logPath := LogFilePath()

	require.True(t, strings.HasSuffix(logPath, "sb.log"))
	require.True(t, strings.HasPrefix(logPath, AppDataDir()))
}

func TestPaths_NoDotDotComponents(t *testing.T) {
	cfgPath, err := ConfigFilePath()
	require.NoError(t, err)

	for _, p := range []string{AppDataDir(), AppLocalDataDir(), DBPath(), LogFilePath(), cfgPath} {
		require.False(t, strings.Contains(p, ".."), "Path should not contain '..': %s", p)
	}
}
