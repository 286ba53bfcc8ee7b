package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"urc/config"
	"urc/logging"
	"urc/services"
	"urc/utils"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	webAppURL  string
	logLevel   string
	logFormat  string
}

// app is the wiring shared by every command once flags are parsed
type app struct {
	opts     rootOptions
	cfg      *config.Config
	logger   *slog.Logger
	gateway  *services.Gateway
	notifier services.Notifier
}

func (a *app) init(cmd *cobra.Command) error {
	utils.LoadEnvWithFallback(logging.Discard())

	path := a.opts.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.WebAppURL = a.opts.webAppURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	gateway, err := services.NewGateway(cfg.WebAppURL,
		services.WithTimeout(cfg.Timeout),
		services.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	notifier := services.MultiNotifier{services.NewLogNotifier(logger)}
	if cfg.Discord.Enabled() {
		discord, err := services.NewDiscordNotifier(cfg.Discord.Token, cfg.Discord.ChannelID, logger)
		if err != nil {
			logger.Warn("discord notifications disabled", "error", err)
		} else {
			notifier = append(notifier, discord)
		}
	}

	a.cfg = cfg
	a.logger = logger
	a.gateway = gateway
	a.notifier = notifier
	return nil
}
