package dictionary

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t *testing.T, pairs [][2]string) *Converter {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "custom_words.csv"))
	for _, p := range pairs {
		_, err := s.Add(p[0], p[1])
		require.NoError(t, err)
	}
	return NewConverter(s)
}

func TestConvertSubstitutesRegisteredWords(t *testing.T) {
	c := newTestConverter(t, [][2]string{
		{"api", "エーピーアイ"},
	})

	out, _, err := c.Convert("Use the API now")
	require.NoError(t, err)
	assert.Equal(t, "Use the エーピーアイ now", out)
}

func TestConvertIsIdempotentWithoutKeys(t *testing.T) {
	c := newTestConverter(t, nil)

	in := "こんにちは、世界。Numbers 123 stay put."
	out, _, err := c.Convert(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConvertPrefersLongestKey(t *testing.T) {
	c := newTestConverter(t, [][2]string{
		{"api", "エーピーアイ"},
		{"apis", "エーピーアイズ"},
	})

	out, _, err := c.Convert("We ship APIs daily")
	require.NoError(t, err)
	assert.Equal(t, "We ship エーピーアイズ daily", out)
}

func TestConvertDoesNotFireInsideLongerWord(t *testing.T) {
	// Only the short key exists; "APIs" must stay untouched rather
	// than becoming a partial substitution.
	c := newTestConverter(t, [][2]string{
		{"api", "エーピーアイ"},
	})

	out, misses, err := c.Convert("APIs everywhere")
	require.NoError(t, err)
	assert.Equal(t, "APIs everywhere", out)
	assert.Contains(t, misses, "apis")
}

func TestConvertIsCaseInsensitive(t *testing.T) {
	c := newTestConverter(t, [][2]string{
		{"hdmi", "エイチディーエムアイ"},
	})

	out, _, err := c.Convert("hdmi HDMI Hdmi")
	require.NoError(t, err)
	assert.Equal(t, "エイチディーエムアイ エイチディーエムアイ エイチディーエムアイ", out)
}

func TestConvertHandlesExtensionKeys(t *testing.T) {
	c := newTestConverter(t, [][2]string{
		{".py", "ドットパイ"},
		{"main", "メイン"},
	})

	out, _, err := c.Convert("run main.py")
	require.NoError(t, err)
	assert.Equal(t, "run メインドットパイ", out)
}

func TestConvertReportsUnconvertedWordsOnce(t *testing.T) {
	c := newTestConverter(t, [][2]string{
		{"api", "エーピーアイ"},
	})

	out, misses, err := c.Convert("deploy the API, then deploy again")
	require.NoError(t, err)
	assert.Equal(t, "deploy the エーピーアイ, then deploy again", out)
	assert.Equal(t, []string{"deploy", "the", "then", "again"}, misses)
}

func TestConvertMixedJapaneseAndEnglish(t *testing.T) {
	c := newTestConverter(t, [][2]string{
		{"usb", "ユーエスビー"},
	})

	out, _, err := c.Convert("USBケーブルを挿してください")
	require.NoError(t, err)
	assert.Equal(t, "ユーエスビーケーブルを挿してください", out)
}

func TestConvertSeesStoreChanges(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "custom_words.csv"))
	c := NewConverter(s)

	out, _, err := c.Convert("ssd")
	require.NoError(t, err)
	assert.Equal(t, "ssd", out)

	_, err = s.Add("ssd", "エスエスディー")
	require.NoError(t, err)

	out, _, err = c.Convert("ssd")
	require.NoError(t, err)
	assert.Equal(t, "エスエスディー", out)
}
