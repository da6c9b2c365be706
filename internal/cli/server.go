package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"lingua-study-service/internal/app"
	"lingua-study-service/internal/config"
	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/infra/memory"
	aiclient "lingua-study-service/internal/infra/openai"
	pg "lingua-study-service/internal/infra/postgres"
	rediscache "lingua-study-service/internal/infra/redis"
	transport "lingua-study-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the study server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizLoader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	var quizTypes app.QuizTypeRepository = memory.NewQuizTypeRepository(sampleQuizTypes())
	if pool != nil {
		quizLoader = pg.NewQuizLoader(pool)
		quizTypes = pg.NewQuizTypeRepository(pool)
	}

	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = rediscache.NewQuizRepository(redisClient, quizLoader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(quizLoader, quizTTL)
	}

	var (
		answers       app.UserAnswerRepository     = memory.NewUserAnswerRepository()
		schedules     app.ReviewScheduleRepository = memory.NewReviewScheduleRepository()
		cards         app.RecallCardRepository     = memory.NewRecallCardRepository()
		conversations app.ConversationRepository   = memory.NewConversationRepository()
		results       app.TestResultRepository     = memory.NewTestResultRepository()
	)
	if cfg.Postgres.URL != "" {
		db := pg.NewDB(cfg.Postgres.URL)
		answers = pg.NewUserAnswerRepository(db)
		schedules = pg.NewReviewScheduleRepository(db)
		cards = pg.NewRecallCardRepository(db)
		conversations = pg.NewConversationRepository(db)
		results = pg.NewTestResultRepository(db)
	}

	var (
		evaluator app.AnswerEvaluator       = memory.NewSimilarityAnswerEvaluator()
		generator app.ConversationGenerator = memory.NewStaticConversationGenerator(sampleConversation())
	)
	if cfg.OpenAI.APIKey != "" {
		client := aiclient.NewClient(aiclient.Config{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Timeout: config.TTLDuration(cfg.OpenAI.Timeout, 30*time.Second),
		})
		evaluator = aiclient.NewAnswerEvaluator(client)
		generator = aiclient.NewConversationGenerator(client)
	}

	study := app.NewStudyService(quizRepo, quizTypes, answers, schedules, evaluator)
	practice := app.NewPracticeService(conversations, results, cards, generator)
	recall := app.NewRecallService(cards)

	mux := transport.NewRouter(
		transport.NewHandler(study, practice),
		transport.NewRecallWSHandler(recall),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting study service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Sample data below backs the in-memory mode used for local development
// without Postgres.

var (
	sampleGrammarTypeID    = uuid.MustParse("0d2e8b6a-1f44-4d92-8a5e-3c7b9e1d2f01")
	sampleVocabularyTypeID = uuid.MustParse("1a6f3c28-9b75-4e01-bd4a-5f8c2d7e9a02")
)

func sampleQuizTypes() []domain.QuizType {
	return []domain.QuizType{
		{ID: sampleGrammarTypeID, Name: "grammar"},
		{ID: sampleVocabularyTypeID, Name: "vocabulary"},
	}
}

func sampleQuizzes() map[uuid.UUID]domain.Quiz {
	q1 := uuid.MustParse("3c8f5e4a-7d57-4023-af6c-7b0e4f9a1c04")
	q2 := uuid.MustParse("5e0b7a6c-5f39-4245-c18e-9d2a6b1c3e06")
	return map[uuid.UUID]domain.Quiz{
		q1: {
			ID:          q1,
			Question:    "Translate into English: 明日の朝、駅で会いましょう。",
			ModelAnswer: "Let's meet at the station tomorrow morning.",
			QuizTypeID:  sampleGrammarTypeID,
			Difficulty:  domain.DifficultyNormal,
		},
		q2: {
			ID:          q2,
			Question:    "What does 「賑やか」 mean?",
			ModelAnswer: "Lively or bustling.",
			QuizTypeID:  sampleVocabularyTypeID,
			Difficulty:  domain.DifficultyNormal,
		},
	}
}

func sampleConversation() domain.GeneratedConversation {
	return domain.GeneratedConversation{
		Title: "Ordering coffee",
		Lines: []domain.GeneratedLine{
			{Text: "Hi, could I get a latte, please?", Translation: "こんにちは、ラテをお願いできますか。"},
			{Text: "Sure, what size would you like?", Translation: "かしこまりました、サイズはいかがなさいますか。"},
			{Text: "A medium, to go.", Translation: "ミディアムで、持ち帰りでお願いします。"},
			{Text: "Coming right up.", Translation: "ただいまお作りします。"},
		},
	}
}
