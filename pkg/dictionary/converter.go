package dictionary

import (
	"sort"
	"strings"
)

// Converter rewrites outgoing text by substituting registered english
// keys with their katakana readings before synthesis. The store is
// re-read on every call so edits from other instances take effect
// immediately.
type Converter struct {
	store *Store
}

func NewConverter(store *Store) *Converter {
	return &Converter{store: store}
}

// Convert applies the dictionary to text. Keys are matched
// case-insensitively and longest-first, so a registered "apis" wins
// over a registered "api" prefix. The second return value lists ASCII
// words that had no mapping, lowercased and deduplicated.
func (c *Converter) Convert(text string) (string, []string, error) {
	entries, err := c.store.Entries()
	if err != nil {
		return "", nil, err
	}

	keys := make([]string, 0, len(entries))
	readings := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, dup := readings[e.English]; !dup {
			keys = append(keys, e.English)
		}
		readings[e.English] = e.Katakana
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	lower := lowerASCII(text)
	var out strings.Builder
	out.Grow(len(text))

	var misses []string
	seen := map[string]bool{}

	i := 0
	for i < len(text) {
		if key, ok := matchAt(lower, i, keys); ok {
			out.WriteString(readings[key])
			i += len(key)
			continue
		}

		if isASCIILetter(text[i]) {
			// No key matched here; consume the whole ASCII word so a
			// shorter key never fires inside it, and report the miss.
			j := i
			for j < len(text) && isASCIILetter(text[j]) {
				j++
			}
			word := text[i:j]
			out.WriteString(word)
			if lw := strings.ToLower(word); !seen[lw] {
				seen[lw] = true
				misses = append(misses, lw)
			}
			i = j
			continue
		}

		out.WriteByte(text[i])
		i++
	}

	return out.String(), misses, nil
}

// matchAt reports the longest key matching at position i, honoring
// ASCII word boundaries on both sides of the key.
func matchAt(lower string, i int, keys []string) (string, bool) {
	for _, key := range keys {
		if key == "" || i+len(key) > len(lower) {
			continue
		}
		if lower[i:i+len(key)] != key {
			continue
		}
		if isASCIIAlnum(key[0]) && i > 0 && isASCIIAlnum(lower[i-1]) {
			continue
		}
		if end := i + len(key); isASCIIAlnum(key[len(key)-1]) &&
			end < len(lower) && isASCIIAlnum(lower[end]) {
			continue
		}
		return key, true
	}
	return "", false
}

// lowerASCII lowercases A-Z only, so byte offsets into the result line
// up with the original text.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIAlnum(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9')
}
