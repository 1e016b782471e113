package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/VitaminP8/friendly/graph"
	"github.com/VitaminP8/friendly/internal/auth"
	"github.com/VitaminP8/friendly/internal/config"
	"github.com/VitaminP8/friendly/internal/metrics"
	"github.com/VitaminP8/friendly/internal/middleware"
	"github.com/VitaminP8/friendly/internal/post"
	"github.com/VitaminP8/friendly/internal/storage/memory"
	"github.com/VitaminP8/friendly/internal/storage/mongodb"
	"github.com/VitaminP8/friendly/internal/user"
)

func main() {
	storageType := flag.String("storage", "mongo", "Тип хранилища: memory или mongo")
	flag.Parse()

	config.LoadEnv()

	var userStore user.UserStorage
	var postStore post.PostStorage
	var db *mongodb.Database

	switch *storageType {
	case "mongo":
		ctx := context.Background()
		var err error
		db, err = mongodb.Connect(ctx, config.GetEnv("MONGODB_URI"), config.GetEnv("MONGODB_DB"))
		if err != nil {
			logrus.Fatalf("failed to connect to mongodb: %v", err)
		}

		logrus.Println("Используется MongoDB хранилище")
		userStore = mongodb.NewUserMongoStorage(db)
		postStore = mongodb.NewPostMongoStorage(db)

	case "memory":
		logrus.Println("Используется in-memory хранилище")
		memUsers := memory.NewUserMemoryStorage()
		userStore = memUsers
		postStore = memory.NewPostMemoryStorage(memUsers)

	default:
		logrus.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	// Инициализация резолвера
	resolver := &graph.Resolver{
		UserStore: userStore,
		PostStore: postStore,
	}

	schema, err := graph.NewSchema(resolver)
	if err != nil {
		logrus.Fatalf("failed to build schema: %v", err)
	}

	// GraphQL хэндлер; GET на /query отдает playground
	gqlHandler := handler.New(&handler.Config{
		Schema:     &schema,
		Pretty:     true,
		Playground: true,
	})

	m := metrics.InitMetrics()

	router := mux.NewRouter()
	// AuthMiddleware вытаскивает JWT из заголовка, валидирует и кладет claims в context
	router.Handle("/query", middleware.Logging(m.Middleware(auth.AuthMiddleware(gqlHandler))))
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	port := config.GetEnvDefault("PORT", "4000")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// запуск HTTP сервера
	go func() {
		logrus.Printf("Сервер запущен на http://localhost:%s/query", port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Println("Завершение...")

	if db != nil {
		if err := db.Close(context.Background()); err != nil {
			logrus.Printf("Ошибка при закрытии БД: %v", err)
		}
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logrus.Fatalf("Ошибка при завершении сервера: %v", err)
	}

	logrus.Println("Сервер остановлен корректно")
}
