package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim", "  rare drop  ", "rare drop"},
		{"collapse spaces", "rare    drop", "rare drop"},
		{"lower case", "RaRe DrOp", "rare drop"},
		{"tabs and newlines", "rare\t\ndrop", "rare drop"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTagName(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "rare drop", "rare-drop"},
		{"accents folded", "café com leite", "cafe-com-leite"},
		{"punctuation stripped", "sniper (tier 3)!", "sniper-tier-3"},
		{"only symbols", "!!!", ""},
		{"non latin", "雪山", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

// TestNormalizeTags проверяет дедупликацию с сохранением порядка и отсев
// тегов, не дающих непустой slug.
func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Rare", "rare", " RARE ", "Café", "", "!!!", "Drop"}, 20)
	assert.Equal(t, []string{"rare", "café", "drop"}, got)
}

func TestNormalizeTags_Limit(t *testing.T) {
	raw := []string{"a1", "a2", "a3", "a4", "a5"}
	got := NormalizeTags(raw, 3)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"a1", "a2", "a3"}, got)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("png")
	if !strings.HasPrefix(key, "listings/") {
		t.Errorf("expected key with listings/ prefix, got %s", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("expected key with .png suffix, got %s", key)
	}

	// Два ключа подряд не должны совпадать.
	if key == ObjectKey("png") {
		t.Error("expected unique object keys")
	}
}
