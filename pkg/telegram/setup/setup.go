package setup

import (
	"net/http"
	"os"
	"strings"

	"github.com/Clean1ines/vidgen/pkg/cover"
	"github.com/Clean1ines/vidgen/pkg/health"
	"github.com/Clean1ines/vidgen/pkg/logging"
	"github.com/Clean1ines/vidgen/pkg/media"
	"github.com/Clean1ines/vidgen/pkg/provider/archive"
	"github.com/Clean1ines/vidgen/pkg/provider/deemix"
	"github.com/Clean1ines/vidgen/pkg/provider/ytdlp"
	"github.com/Clean1ines/vidgen/pkg/pubsub"
	"github.com/Clean1ines/vidgen/pkg/resolver"
	"github.com/Clean1ines/vidgen/pkg/storage"
	"github.com/Clean1ines/vidgen/pkg/telegram"
	"github.com/Clean1ines/vidgen/pkg/telegram/handler"
	"github.com/Clean1ines/vidgen/pkg/telegram/service"
)

// App – собранные зависимости сервиса.
type App struct {
	Bot    *telegram.Bot
	Redis  *storage.RedisClient
	PubSub *pubsub.PubSubClient
	Search *service.SearchService
	Logger *logging.Logger
}

// Build собирает все зависимости из переменных окружения.
func Build(logger *logging.Logger) (*App, error) {
	redisClient, err := storage.NewRedisClient(os.Getenv("REDIS_ADDRESS"))
	if err != nil {
		return nil, err
	}

	bot, err := telegram.NewBot(os.Getenv("BOT_TOKEN"), logger)
	if err != nil {
		return nil, err
	}

	psClient, err := pubsub.InitPubSubClient(os.Getenv("GOOGLE_CLOUD_PROJECT"), logger)
	if err != nil {
		return nil, err
	}

	// Цепочка источников аудио в порядке доверия: лицензионный
	// микросервис, затем бесплатные источники.
	var proxies []string
	if proxyURL := os.Getenv("PROXY_URL"); proxyURL != "" {
		proxies = strings.Split(proxyURL, ",")
	}
	runner := ytdlp.NewRunner(os.Getenv("YTDLP_PATH"), proxies, logger)
	trackResolver := &resolver.Resolver{
		Normalizer: resolver.NewNormalizer(),
		Providers: []resolver.Provider{
			deemix.New(os.Getenv("DEEMIX_SERVICE_URL_PRIMARY"), os.Getenv("DEEMIX_SERVICE_URL_SECONDARY"), logger),
			&ytdlp.SoundCloud{Runner: runner},
			&ytdlp.YouTube{Runner: runner},
			archive.New(logger),
		},
		Meta:   runner,
		Logger: logger,
	}

	spotify := cover.NewSpotifyClient(os.Getenv("SPOTIFY_CLIENT_ID"), os.Getenv("SPOTIFY_CLIENT_SECRET"), logger)
	covers := cover.NewResolver(spotify, logger)
	muxer := media.NewMuxer(os.Getenv("FFMPEG_PATH"), logger)
	locks := resolver.NewChatLocks()

	searchSvc := service.NewSearchService(bot, trackResolver, covers, runner, muxer, locks, logger)
	audioSvc := service.NewAudioService(bot, covers, muxer, locks, logger)
	manualSvc := service.NewManualService(bot, redisClient, muxer, locks, logger)

	deps := handler.Deps{
		Bot:       bot,
		Redis:     redisClient,
		Publisher: psClient,
		Audio:     audioSvc,
		Manual:    manualSvc,
		Locks:     locks,
		Logger:    logger,
	}
	http.HandleFunc("/webhook", handler.WebhookHandler(deps))
	http.HandleFunc("/health", health.Handler)

	return &App{
		Bot:    bot,
		Redis:  redisClient,
		PubSub: psClient,
		Search: searchSvc,
		Logger: logger,
	}, nil
}
