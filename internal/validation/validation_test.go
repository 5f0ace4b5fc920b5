package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsername(t *testing.T) {
	require.Error(t, Username("ab"))
	require.NoError(t, Username("abc"))
	require.NoError(t, Username(strings.Repeat("a", 50)))
	require.Error(t, Username(strings.Repeat("a", 51)))
}

func TestPassword(t *testing.T) {
	require.Error(t, Password("12345"))
	require.NoError(t, Password("123456"))
	require.NoError(t, Password(strings.Repeat("p", 200)))
	require.Error(t, Password(strings.Repeat("p", 201)))
}

func TestTripText(t *testing.T) {
	require.Error(t, TripText("origin", "М"))
	require.NoError(t, TripText("origin", "Уфа"))
	require.NoError(t, TripText("origin", strings.Repeat("г", 100)))
	require.Error(t, TripText("origin", strings.Repeat("г", 101)))
}

// Limits count runes, not bytes: a 100-character cyrillic city name is
// 200 bytes but still valid.
func TestTripTextCyrillicLength(t *testing.T) {
	name := strings.Repeat("а", 100)
	require.Equal(t, 200, len(name))
	require.NoError(t, TripText("origin", name))
}

func TestFullName(t *testing.T) {
	require.Error(t, FullName("И"))
	require.NoError(t, FullName("Иван Иванов"))
	require.Error(t, FullName(strings.Repeat("и", 201)))
}

func TestEmail(t *testing.T) {
	require.NoError(t, Email("ivan@example.com"))
	require.Error(t, Email("ivan"))
	require.Error(t, Email("ivan@"))
	require.Error(t, Email(""))
}
