package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/untibullet/issue-activity-report/internal/models"
)

// Источники данных отчета
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Report   ReportConfig   `mapstructure:"report"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportConfig параметры отчета
type ReportConfig struct {
	Title          string   `mapstructure:"title"`
	Source         string   `mapstructure:"source"`
	Repository     string   `mapstructure:"repository"`
	DataPath       string   `mapstructure:"data_path"`
	AsOf           string   `mapstructure:"as_of"`
	OutputDir      string   `mapstructure:"output_dir"`
	WasmPath       string   `mapstructure:"wasm_path"`
	TopUsers       int      `mapstructure:"top_users"`
	SubgroupLabel  string   `mapstructure:"subgroup_label"`
	SubgroupRoster []string `mapstructure:"subgroup_roster"`
}

// Load загружает конфигурацию из config.yaml (или из path, если он задан)
// и переопределяет значения из переменных окружения. Отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Report.SubgroupRoster = cleanList(cfg.Report.SubgroupRoster)
	if err := cfg.Report.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("report.title", "GitHub Issues Report")
	v.SetDefault("report.source", SourceFile)
	v.SetDefault("report.data_path", "github_issues_data.json")
	v.SetDefault("report.output_dir", "site")
	v.SetDefault("report.top_users", 20)
	v.SetDefault("report.subgroup_label", "Subgroup Only")
}

// bindEnvVariables явно связывает переменные окружения с ключами конфига
func bindEnvVariables(v *viper.Viper) {
	// Database
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")

	// Server
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.port", "SERVER_PORT")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")

	// Report
	v.BindEnv("report.title", "REPORT_TITLE")
	v.BindEnv("report.source", "REPORT_SOURCE")
	v.BindEnv("report.repository", "REPORT_REPOSITORY")
	v.BindEnv("report.data_path", "REPORT_DATA_PATH")
	v.BindEnv("report.as_of", "REPORT_AS_OF")
	v.BindEnv("report.output_dir", "REPORT_OUTPUT_DIR")
	v.BindEnv("report.wasm_path", "REPORT_WASM_PATH")
	v.BindEnv("report.top_users", "REPORT_TOP_USERS")
	v.BindEnv("report.subgroup_label", "REPORT_SUBGROUP_LABEL")
	v.BindEnv("report.subgroup_roster", "REPORT_SUBGROUP_ROSTER")
}

// Validate проверяет параметры отчета
func (c *ReportConfig) Validate() error {
	switch c.Source {
	case SourceFile, SourcePostgres:
	default:
		return fmt.Errorf("unknown report source %q: expected %q or %q", c.Source, SourceFile, SourcePostgres)
	}
	if c.TopUsers <= 0 {
		return fmt.Errorf("report.top_users must be positive, got %d", c.TopUsers)
	}
	if _, err := c.AsOfDate(); err != nil {
		return err
	}
	return nil
}

// AsOfDate дата отчета для распределения комментариев открытых задач.
// Пустое значение дает нулевую дату.
func (c *ReportConfig) AsOfDate() (models.Date, error) {
	d, err := models.ParseDate(c.AsOf)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid report.as_of: %w", err)
	}
	return d, nil
}

// cleanList обрезает пробелы и выбрасывает пустые элементы
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// GetDSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetAddress возвращает адрес сервера в формате host:port
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
