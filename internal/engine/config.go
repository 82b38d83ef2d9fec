package engine

import "time"

// Config хранит параметры цикла диспетчеризации
type Config struct {
	// PublishInterval - минимальный интервал между публикациями снимка.
	// Конец энкаунтера и смерть босса публикуются вне очереди.
	PublishInterval time.Duration

	// Clock - источник времени для троттлинга, агрегатора и истечения эффектов
	Clock func() time.Time
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		PublishInterval: 100 * time.Millisecond,
		Clock:           time.Now,
	}
}
