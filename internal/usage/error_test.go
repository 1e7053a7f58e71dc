package usage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", PermissionDenied("kit", []string{"kit.give"}))

	require.True(t, IsKind(err, ErrPermissionDenied))
	require.False(t, IsKind(err, ErrCooldownActive))
	require.False(t, IsKind(errors.New("plain"), ErrPermissionDenied))
	require.Equal(t, ErrPermissionDenied, KindOf(err))
	require.Equal(t, ErrUnknown, KindOf(errors.New("plain")))
}

func TestMessages(t *testing.T) {
	require.Equal(t, "You do not have permission to use 'kit' (kit.give).", PermissionDenied("kit", []string{"kit.give"}).Error())
	require.Equal(t, "'roll' is on cooldown for 3s.", CooldownActive("roll", 2600*time.Millisecond).Error())
	require.Equal(t, "'kti' is not a command. See '/help'. Did you mean: kit?", UnknownCommand("kti", []string{"kit"}).Error())

	e := UnknownCommand("kti", nil)
	require.Equal(t, "'%s' is not a command. See '/help'.", e.Format)
	require.Equal(t, []any{"kti"}, e.Args)
}

func TestConfigurationUnwraps(t *testing.T) {
	cause := errors.New("cycle")
	err := Configuration(cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, 78, err.GetExitCode())
	require.Equal(t, "configuration", err.Kind.String())
}
