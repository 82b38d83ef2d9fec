package capture

import (
	"combat-meter/pkg/logger"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrFirewall = errors.New("capture: firewall setup failed")

// ApplyFirewall выполняет команду настройки фаервола перед сырым захватом.
// Пустая команда - ничего не делать. Ошибка фатальна для режима raw.
func ApplyFirewall(ctx context.Context, cmdline string) error {
	args := strings.Fields(cmdline)
	if len(args) == 0 {
		return nil
	}

	out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrFirewall, args[0], err, strings.TrimSpace(string(out)))
	}

	logger.Log.WithField("cmd", args[0]).Info("Firewall rule applied")
	return nil
}
