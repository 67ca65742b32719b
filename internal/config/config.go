package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. LEANCANVAS_AUTOSAVE.
const EnvPrefix = "leancanvas"

// Config is the resolved configuration used by the app.
type Config struct {
	DataDir         string
	StorageDSN      string
	AutoSave        bool
	ExportDir       string
	PNGScale        int
	FontPath        string
	SlideThemeColor string
	PrintCommand    string
	RenderStyle     string
	RenderWidth     int
	WatchDebounce   time.Duration
	Verbose         bool
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
// This centralizes default values and descriptions in one place.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < .env < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these paths
	// are fallbacks.
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return err
		}
	}

	// .env files never override variables already set in the environment.
	if err := loadDotEnv(); err != nil {
		return err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("storage.dsn")) == "" {
		v.Set("storage.dsn", DefaultDSN(v.GetString("data_dir")))
	}
	return nil
}

// loadDotEnv reads .env from the working directory and the config directory.
func loadDotEnv() error {
	paths := []string{".env", filepath.Join(filepath.Dir(DefaultConfigPath()), ".env")}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

func configDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "leancanvas"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "leancanvas"))
	}
	return append(dirs, ".")
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/leancanvas or ~/.local/share/leancanvas
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "leancanvas")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "leancanvas")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "leancanvas", "config.toml")
}

// DefaultDSN is the sqlite store inside dataDir.
func DefaultDSN(dataDir string) string {
	return "sqlite://" + filepath.Join(expandHome(dataDir), "leancanvas.db")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}

// FromViper snapshots the loaded settings.
func FromViper(v *viper.Viper) Config {
	c := Config{
		DataDir:         expandHome(v.GetString("data_dir")),
		StorageDSN:      v.GetString("storage.dsn"),
		AutoSave:        v.GetBool("autosave"),
		ExportDir:       expandHome(v.GetString("export.dir")),
		PNGScale:        v.GetInt("export.png_scale"),
		FontPath:        expandHome(v.GetString("export.font_path")),
		SlideThemeColor: v.GetString("export.slide_theme_color"),
		PrintCommand:    v.GetString("print.command"),
		RenderStyle:     v.GetString("render.style"),
		RenderWidth:     v.GetInt("render.width"),
		WatchDebounce:   v.GetDuration("watch.debounce"),
		Verbose:         v.GetBool("log.verbose"),
	}
	if c.StorageDSN == "" {
		c.StorageDSN = DefaultDSN(c.DataDir)
	}
	return c
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the default store is data_dir/leancanvas.db"},
		{Key: "autosave", Default: true, Comment: "Persist every edit immediately"},

		{Key: "storage.dsn", Default: "", Comment: "Store location: sqlite://PATH, file://PATH or mem:// (empty = sqlite in data_dir)"},

		{Key: "export.dir", Default: ".", Comment: "Directory exports are written to when no path is given"},
		{Key: "export.png_scale", Default: 2, Comment: "Pixel scale of PNG exports (1-4)"},
		{Key: "export.font_path", Default: "", Comment: "TrueType/OpenType font for PNG exports; empty tries a system CJK font, then a built-in ASCII font"},
		{Key: "export.slide_theme_color", Default: "3B82F6", Comment: "RRGGBB accent color of slide section headers"},

		{Key: "print.command", Default: "", Comment: "Command that opens the printable page; empty uses xdg-open/open"},

		{Key: "render.style", Default: "dracula", Comment: "Glamour style for pretty output and preview"},
		{Key: "render.width", Default: 100, Comment: "Wrap width for pretty and grid output"},

		{Key: "watch.debounce", Default: "200ms", Comment: "Quiet period before a watched file is re-imported"},

		{Key: "log.verbose", Default: false, Comment: "Write diagnostic logs to stderr"},
	}
}
