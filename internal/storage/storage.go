package storage

import "context"

// ObjectStorage определяет интерфейс хранилища изображений. Ядро сервиса
// никогда не интерпретирует содержимое файла: его интересует только
// публичный URL, который будет показан в объявлении.
type ObjectStorage interface {
	// Upload сохраняет файл под указанным ключом и возвращает публичный URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
