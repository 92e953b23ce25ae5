package buildCFG

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"reunion/internal/fee"
	"reunion/internal/mailer"
	"reunion/internal/upload"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type AdminConfig struct {
	Token string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	master := cfg.GetString("db.master_dsn")
	if master == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is not set")
	}

	var slaves []string
	if raw := cfg.GetString("db.slave_dsns"); raw != "" {
		for _, dsn := range strings.Split(raw, ",") {
			if dsn = strings.TrimSpace(dsn); dsn != "" {
				slaves = append(slaves, dsn)
			}
		}
	}

	opts := &dbpg.Options{
		MaxOpenConns: cfg.GetInt("db.max_open_conns"),
		MaxIdleConns: cfg.GetInt("db.max_idle_conns"),
	}

	log.Info().Int("slaves", len(slaves)).Msg("DB config built")
	return master, slaves, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		return RabbitConfig{}, fmt.Errorf("rabbit.url is not set")
	}
	if rc.Exchange == "" {
		rc.Exchange = "reunion.notifications"
	}
	if rc.Queue == "" {
		rc.Queue = "reunion.notifications.queue"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("RabbitMQ config built")
	return rc, nil
}

func BuildSMTPConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
	if mc.Port == 0 {
		mc.Port = 587
	}
	if mc.Host == "" || mc.From == "" {
		log.Warn().Msg("smtp.host or smtp.from not set, outgoing mail will fail")
	}
	return mc
}

func BuildFeeConfig(cfg *config.Config, log *zerolog.Logger) fee.Config {
	fc := fee.Config{
		AdultFee:   cfg.GetInt("fees.adult"),
		ChildFee:   cfg.GetInt("fees.child"),
		Surcharge:  cfg.GetInt("fees.surcharge"),
		StudentFee: cfg.GetInt("fees.student"),
	}
	if fc.AdultFee == 0 {
		fc.AdultFee = 500
	}
	if fc.ChildFee == 0 {
		fc.ChildFee = 300
	}
	if fc.Surcharge == 0 {
		fc.Surcharge = 1000
	}
	if fc.StudentFee == 0 {
		fc.StudentFee = 500
	}
	log.Info().
		Int("adult", fc.AdultFee).
		Int("child", fc.ChildFee).
		Int("surcharge", fc.Surcharge).
		Int("student", fc.StudentFee).
		Msg("fee schedule built")
	return fc
}

func BuildUploadConfig(cfg *config.Config, log *zerolog.Logger) upload.Config {
	uc := upload.Config{
		Dir:      cfg.GetString("upload.dir"),
		MaxBytes: int64(cfg.GetInt("upload.max_bytes")),
	}
	if uc.Dir == "" {
		uc.Dir = "./uploads"
	}
	if uc.MaxBytes == 0 {
		uc.MaxBytes = 2 << 20
	}
	log.Info().Str("dir", uc.Dir).Int64("max_bytes", uc.MaxBytes).Msg("upload config built")
	return uc
}

func BuildAdminConfig(cfg *config.Config, log *zerolog.Logger) AdminConfig {
	token := cfg.GetString("admin.token")
	if token == "" {
		log.Warn().Msg("admin.token not set, admin endpoints are disabled")
	}
	return AdminConfig{Token: token}
}
