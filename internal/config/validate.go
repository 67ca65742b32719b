package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem in the loaded settings at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}

	dsn := strings.TrimSpace(v.GetString("storage.dsn"))
	switch {
	case dsn == "":
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file://"):
		if strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "file://") == "" {
			errs = append(errs, fmt.Errorf("storage.dsn %q has no path", dsn))
		}
	case dsn == "mem://":
	default:
		errs = append(errs, fmt.Errorf("storage.dsn %q must start with sqlite://, file:// or be mem://", dsn))
	}

	if s := v.GetInt("export.png_scale"); s < 1 || s > 4 {
		errs = append(errs, fmt.Errorf("export.png_scale must be between 1 and 4, got %d", s))
	}
	if c := strings.TrimPrefix(v.GetString("export.slide_theme_color"), "#"); !isHexColor(c) {
		errs = append(errs, fmt.Errorf("export.slide_theme_color %q must be RRGGBB hex", c))
	}
	if style := v.GetString("render.style"); style != "" && style != "auto" {
		if _, ok := styles.DefaultStyles[style]; !ok {
			errs = append(errs, fmt.Errorf("render.style %q is not a glamour style", style))
		}
	}
	if w := v.GetInt("render.width"); w < 20 {
		errs = append(errs, fmt.Errorf("render.width must be at least 20, got %d", w))
	}
	if d, err := time.ParseDuration(v.GetString("watch.debounce")); err != nil {
		errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
	} else if d < 0 {
		errs = append(errs, errors.New("watch.debounce must not be negative"))
	}

	return errors.Join(errs...)
}

func isHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
