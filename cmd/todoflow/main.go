package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-kit/kit/log"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/gorilla/mux"
	"github.com/hashicorp/consul/api"
	"github.com/joho/godotenv"
	"github.com/oklog/oklog/pkg/group"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	libmongo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	libgorm "gorm.io/gorm"

	"github.com/Vaishnavi4104/TodoFlow/authsvc/inmem"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authendpoint"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authservice"
	"github.com/Vaishnavi4104/TodoFlow/authsvc/pkg/authtransport"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	taskgorm "github.com/Vaishnavi4104/TodoFlow/tasksvc/db/gorm"
	taskmongo "github.com/Vaishnavi4104/TodoFlow/tasksvc/db/mongo"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskendpoint"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/taskservice"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc/pkg/tasktransport"
	"github.com/Vaishnavi4104/TodoFlow/usersvc"
	usergorm "github.com/Vaishnavi4104/TodoFlow/usersvc/db/gorm"
	usermongo "github.com/Vaishnavi4104/TodoFlow/usersvc/db/mongo"
	"github.com/Vaishnavi4104/TodoFlow/usersvc/pkg/userservice"
)

func main() {
	godotenv.Load()

	fs := flag.NewFlagSet("todoflow", flag.ExitOnError)
	var (
		httpAddr = fs.String(
			"http.addr",
			getEnv("HTTP_ADDR", ":8000"),
			"HTTP (JSON) listen address",
		)
		databaseURL = fs.String(
			"database.url",
			getEnv("DATABASE_URL", ""),
			"PostgreSQL URL; empty runs on a local SQLite file",
		)
		mongoURI = fs.String(
			"mongo.uri",
			getEnv("MONGO_URI", ""),
			"MongoDB URI; set to store data in MongoDB instead of SQL",
		)
		mongoDB = fs.String(
			"mongo.db",
			getEnv("MONGO_DB", "todoflow"),
			"MongoDB database name",
		)
		consulAddr = fs.String(
			"consul.addr",
			getEnv("CONSUL_ADDR", ""),
			"Consul agent address for the token store; empty keeps tokens in process memory",
		)
		corsOrigin = fs.String(
			"cors.origin",
			getEnv("CORS_ORIGIN", "http://localhost:3000"),
			"Origin allowed to call the API from a browser",
		)
	)

	fs.Usage = usageFor(fs, os.Args[0]+" [flags]")
	fs.Parse(os.Args[1:])

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	var (
		taskRepository tasksvc.TaskRepository
		userRepository usersvc.UserRepository
	)
	{
		if *mongoURI != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			client, err := libmongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
			if err == nil {
				err = client.Ping(ctx, nil)
			}
			if err != nil {
				logger.Log("db", "mongo", "err", err)
				os.Exit(1)
			}

			db := client.Database(*mongoDB)
			taskRepository = taskmongo.NewTaskRepository(db)
			userRepository = usermongo.NewUserRepository(db)
		} else {
			var db *libgorm.DB
			var err error
			if *databaseURL != "" {
				db, err = libgorm.Open(postgres.Open(*databaseURL), &libgorm.Config{})
			} else {
				db, err = libgorm.Open(sqlite.Open("todoflow.db"), &libgorm.Config{})
			}
			if err != nil {
				logger.Log("db", "gorm", "err", err)
				os.Exit(1)
			}

			db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{})
			taskRepository = taskgorm.NewTaskRepository(db)
			userRepository = usergorm.NewUserRepository(db)
		}
	}

	var inmemClient inmem.Client
	{
		if *consulAddr != "" {
			consulConfig := api.DefaultConfig()
			consulConfig.Address = *consulAddr

			consulClient, err := api.NewClient(consulConfig)
			if err != nil {
				logger.Log("err", err)
				os.Exit(1)
			}
			inmemClient = inmem.NewClient(consulClient)
		} else {
			inmemClient = inmem.NewMapClient()
		}
	}

	userSvc := userservice.New(userRepository, logger)

	var authSvc authservice.Service
	{
		authSvc = authservice.New(authservice.NewTokenizer(), inmemClient, userSvc, logger)
	}

	var taskSvc taskservice.Service
	{
		requestCount := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "todoflow",
			Subsystem: "taskservice",
			Name:      "request_count",
			Help:      "Number of requests received.",
		}, []string{"method"})
		requestLatency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: "todoflow",
			Subsystem: "taskservice",
			Name:      "request_latency_seconds",
			Help:      "Total duration of requests in seconds.",
		}, []string{"method"})

		taskSvc = taskservice.New(taskRepository, logger)
		taskSvc = taskservice.InstrumentingMiddleware(requestCount, requestLatency)(taskSvc)
		taskSvc = taskservice.AuthorizingMiddleware(inmemClient, userSvc)(taskSvc)
	}

	var (
		authEndpoints = authendpoint.New(authSvc, logger)
		taskEndpoints = taskendpoint.New(taskSvc, logger)
	)

	r := mux.NewRouter()
	{
		authHTTPHandler := authtransport.NewHTTPHandler(authEndpoints, logger)
		r.PathPrefix("/api/auth").Handler(http.StripPrefix("/api/auth", authHTTPHandler))

		taskHTTPHandler := tasktransport.NewHTTPHandler(taskEndpoints, logger)
		r.PathPrefix("/api/tasks").Handler(http.StripPrefix("/api", taskHTTPHandler))
	}
	r.Handle("/metrics", promhttp.Handler())

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{*corsOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	var g group.Group
	{
		httpListener, err := net.Listen("tcp", *httpAddr)
		if err != nil {
			logger.Log("transport", "HTTP", "during", "Listen", "err", err)
			os.Exit(1)
		}
		g.Add(func() error {
			logger.Log("transport", "HTTP", "addr", *httpAddr)
			return http.Serve(httpListener, handler)
		}, func(error) {
			httpListener.Close()
		})
	}
	{
		// This function just sits and waits for ctrl-C.
		cancelInterrupt := make(chan struct{})
		g.Add(func() error {
			c := make(chan os.Signal, 1)
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-c:
				return fmt.Errorf("received signal %s", sig)
			case <-cancelInterrupt:
				return nil
			}
		}, func(error) {
			close(cancelInterrupt)
		})
	}
	logger.Log("exit", g.Run())
}

func usageFor(fs *flag.FlagSet, short string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "USAGE\n")
		fmt.Fprintf(os.Stderr, "  %s\n", short)
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		w := tabwriter.NewWriter(os.Stderr, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "\t-%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
		fmt.Fprintf(os.Stderr, "\n")
	}
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}
