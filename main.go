package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"botkit/internal/adapters/discord"
	"botkit/internal/core/commands"
	"botkit/internal/core/domain"
	"botkit/internal/core/service"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting botkit...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	session, err := discordgo.New("Bot " + viper.GetString("discord.bot_token"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	sender := discord.NewSender(session)
	waiter := service.NewReactionWaiter()
	cooldowns := service.NewCooldownTracker()
	tasks := service.NewTaskRegistry()
	registry := domain.NewCommandRegistry()

	dispatcher := service.NewDispatcher(service.DispatcherOptions{
		Registry:   registry,
		Sender:     sender,
		Deleter:    sender,
		Links:      service.NewLinkCache(viper.GetInt("bot.linked_cache_size")),
		Prefix:     viper.GetString("bot.prefix"),
		HelpWord:   viper.GetString("bot.help_word"),
		OwnerID:    viper.GetString("bot.owner_id"),
		CoOwnerIDs: viper.GetStringSlice("bot.co_owner_ids"),
		Success:    viper.GetString("bot.success_sign"),
		Warning:    viper.GetString("bot.warning_sign"),
		Failure:    viper.GetString("bot.error_sign"),
	})

	menuTimeout, err := time.ParseDuration(viper.GetString("bot.menu_timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for menus in config")
	}

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	cmds := []*domain.Command{
		commands.NewPing(dispatcher, cooldowns, sender),
		commands.NewAbout(dispatcher, sender),
		commands.NewRemind(tasks, sender),
		commands.NewSlides(commands.SlidesDeps{
			Waiter:    waiter,
			Pages:     sender,
			Reactions: sender,
			Deleter:   sender,
			Roles:     sender,
		}, viper.GetStringSlice("slides.urls"), menuTimeout),
	}
	for _, cmd := range cmds {
		if err := registry.Add(cmd); err != nil {
			log.Fatal().Err(err).Str("command", cmd.Name).Msg("failed registering command")
		}
	}

	discord.NewHandler(dispatcher, waiter, sender, nil, handlerTimeout).Register(session)

	maintenance := cron.New()
	_, err = maintenance.AddFunc("@every 5m", func() {
		cooldowns.Sweep()
		tasks.Sweep()
	})
	if err != nil {
		log.Panic().Err(err).Msg("failed scheduling maintenance sweep")
	}
	maintenance.Start()
	defer maintenance.Stop()

	if err := session.Open(); err != nil {
		log.Panic().Err(err).Msg("failed connecting to discord gateway")
	}
	defer session.Close()

	log.Info().Msg("bot listening")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}
