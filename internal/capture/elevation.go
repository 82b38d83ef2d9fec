package capture

import (
	"combat-meter/pkg/logger"
	"context"
	"errors"
	"os"
	"time"
)

var ErrNotElevated = errors.New("capture: raw socket requires elevated privileges")

// IsElevated - проверка прав для сырого захвата
func IsElevated() bool {
	return os.Geteuid() == 0
}

// WaitForElevation блокируется, пока check не вернет true. Пока прав нет,
// notify вызывается сразу и затем каждые interval. Возвращает ctx.Err() при отмене.
func WaitForElevation(ctx context.Context, check func() bool, notify func(), interval time.Duration) error {
	if check() {
		return nil
	}

	logger.Log.WithError(ErrNotElevated).Warn("Not running elevated, cannot use raw socket")
	notify()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if check() {
				logger.Log.Info("Elevated privileges acquired")
				return nil
			}
			notify()
		}
	}
}
