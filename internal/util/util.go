package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spacesRe      = regexp.MustCompile(`\s+`)
	nonSlugRuneRe = regexp.MustCompile(`[^a-z0-9 ]+`)
)

// NormalizeTagName приводит пользовательский ввод тега к каноническому имени:
// обрезка, схлопывание внутренних пробелов, нижний регистр.
// "  Rare   Drop " -> "rare drop".
func NormalizeTagName(raw string) string {
	name := strings.TrimSpace(raw)
	name = spacesRe.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}

// Slugify строит slug из уже нормализованного имени тега:
// разложение Unicode (NFD), удаление диакритики, затем только [a-z0-9],
// пробелы превращаются в дефисы. "café com leite" -> "cafe-com-leite".
// Для ввода без ASCII-символов результат может быть пустым — такой тег
// отбрасывается на уровне сервиса.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	folded = nonSlugRuneRe.ReplaceAllString(folded, "")
	folded = strings.TrimSpace(folded)
	folded = spacesRe.ReplaceAllString(folded, "-")
	return folded
}

// NormalizeTags нормализует список тегов: пустые выбрасываются, дубликаты
// схлопываются с сохранением порядка, длина списка ограничивается limit.
func NormalizeTags(raw []string, limit int) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := NormalizeTagName(r)
		if name == "" || Slugify(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ObjectKey генерирует ключ объекта в хранилище изображений:
// listings/<unix-ms>-<случайный hex>.<ext>.
func ObjectKey(ext string) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("listings/%d-%s.%s", time.Now().UnixMilli(), hex.EncodeToString(buf), ext)
}
