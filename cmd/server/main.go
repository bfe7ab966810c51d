// Command server runs the membership backend: plan catalog, subscription
// lifecycle engine, notification feed, analytics, and the admin surface,
// all behind one HTTP listener.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/membercore/membership/pkg/config"
	"github.com/membercore/membership/pkg/email"
	"github.com/membercore/membership/pkg/httpserver"
	"github.com/membercore/membership/pkg/logger"
	appmongo "github.com/membercore/membership/pkg/mongo"
	"github.com/membercore/membership/svc/admin"
	"github.com/membercore/membership/svc/analytics"
	"github.com/membercore/membership/svc/identity"
	"github.com/membercore/membership/svc/member"
	"github.com/membercore/membership/svc/notification"
	"github.com/membercore/membership/svc/plan"
	"github.com/membercore/membership/svc/subscription"
)

type appConfig struct {
	Environment   string `env:"ENVIRONMENT" envDefault:"dev"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	PlanSeedFile  string `env:"PLAN_SEED_FILE" envDefault:"plans.yaml"`
	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"dev"`

	HTTP  httpserver.Config
	Mongo appmongo.Config
	Email email.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithEnvironment(cfg.Environment, "membership"),
	)
	logger.SetAsDefault(log)

	ctx := context.Background()

	client, err := appmongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Error("mongo connect failed", logger.Error(err))
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)
	if err := appmongo.EnsureIndexes(ctx, db); err != nil {
		log.Error("ensure indexes failed", logger.Error(err))
		os.Exit(1)
	}

	var mailer email.EmailSender
	if cfg.EmailProvider == "postmark" {
		mailer, err = email.NewPostmarkSender(cfg.Email)
		if err != nil {
			log.Error("postmark setup failed", logger.Error(err))
			os.Exit(1)
		}
	} else {
		mailer = email.NewDevSender(cfg.Email.DevOutputDir)
	}

	planStore := plan.NewMongoStore(db)
	if err := plan.SeedFromFile(ctx, planStore, cfg.PlanSeedFile, log); err != nil {
		log.Error("plan seed failed", logger.Error(err))
		os.Exit(1)
	}

	subStore := subscription.NewMongoStore(db)
	invoiceStore := subscription.NewMongoInvoiceStore(db)

	planSvc := plan.NewService(planStore, log)
	memberSvc := member.NewService(member.NewMongoStore(db), log)
	notifSvc := notification.NewService(notification.NewMongoStorage(db), mailer, log)
	analyticsSvc := analytics.NewService(analytics.NewMongoStore(db), subStore, log)
	subSvc := subscription.NewService(subStore, invoiceStore, planSvc, memberSvc, notifSvc, analyticsSvc, log)
	adminSvc := admin.NewService(memberSvc, planSvc, subStore, invoiceStore, notifSvc, analyticsSvc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log, appmongo.Healthcheck(client)))

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware)
		r.Mount("/plans", plan.Router(planSvc))
		r.Mount("/subscriptions", subscription.Router(subSvc))
		r.Mount("/notifications", notification.Router(notifSvc))
		r.Mount("/admin", admin.Router(adminSvc))
	})

	srv := httpserver.New(cfg.HTTP, log)
	if err := srv.Run(ctx, http.Handler(r)); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
