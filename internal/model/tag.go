package model

// Tag — нормализованное ключевое слово объявления.
// Name и Slug оба глобально уникальны: разные написания ("café" / "cafe")
// должны сходиться в одну запись через slug.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagCount — элемент фасета «популярные теги».
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
