package main // Entry point package

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/catalog"
    "github.com/iliyamo/hotel-room-reservation/internal/config"
    "github.com/iliyamo/hotel-room-reservation/internal/database"
    "github.com/iliyamo/hotel-room-reservation/internal/handler"
    "github.com/iliyamo/hotel-room-reservation/internal/ledger"
    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/middleware"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
    "github.com/iliyamo/hotel-room-reservation/internal/router"
    "github.com/iliyamo/hotel-room-reservation/internal/scheduler"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments use the environment

    cfg := config.Load()
    logg := logger.New(logger.Options{
        ServiceName: "hotel-room-reservation",
        Level:       logger.ParseLevel(os.Getenv("LOG_LEVEL")),
        Console:     cfg.Env == "dev",
    })

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()

    // Redis is optional: without it the calendar cache and the sweep lock
    // degrade gracefully.
    rdb := config.NewRedisClient()

    cat := catalog.NewClient(cfg.CatalogURL, cfg.IdentityURL, cfg.CatalogTimeout, uint64(cfg.CatalogRetries))

    availRepo := repository.NewAvailabilityRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    store := ledger.NewSQLStore(availRepo)

    // Two ledger instances over one store: rooms keyed by room id, extra
    // beds keyed by property id.  Capacity totals come from the catalog.
    roomLedger := ledger.New(model.KindRoom, store, func(ctx context.Context, roomID string) (int, error) {
        room, err := cat.Room(ctx, roomID)
        if err != nil {
            return 0, err
        }
        return room.TotalRooms, nil
    })
    bedLedger := ledger.New(model.KindExtraBed, store, func(ctx context.Context, propertyID string) (int, error) {
        prop, err := cat.Property(ctx, propertyID)
        if err != nil {
            return 0, err
        }
        return prop.ExtraBedTotal, nil
    })

    events := queue.NewPublisher(cfg.RabbitURL, logg)
    manager := booking.NewManager(logg, bookingRepo, roomLedger, bedLedger, cat, events)

    // Daily sweeps: roll finished stays to COMPLETED and prune counters
    // past the retention horizon.  With Redis available only one instance
    // runs a cycle; without it every instance sweeps, which is safe
    // because both jobs are idempotent.
    rollover, err := scheduler.NewRolloverJob(logg, bookingRepo)
    if err != nil {
        log.Fatalf("rollover job: %v", err)
    }
    retention, err := scheduler.NewRetentionJob(logg, availRepo, cfg.RetentionDays)
    if err != nil {
        log.Fatalf("retention job: %v", err)
    }
    lock := scheduler.NoopLock()
    if rdb != nil {
        if rl, err := scheduler.NewRedisLock(rdb, "sweep:daily", cfg.SweepInterval+time.Hour); err == nil {
            lock = rl
        }
    }
    sweeps, err := scheduler.NewService(scheduler.ServiceParams{
        Logger:   logg,
        Registry: scheduler.NewRegistry(rollover, retention),
        Lock:     lock,
        Interval: cfg.SweepInterval,
    })
    if err != nil {
        log.Fatalf("sweep service: %v", err)
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go func() {
        if err := sweeps.Run(ctx); err != nil && ctx.Err() == nil {
            logg.Error(ctx, "sweep service exited", err)
        }
    }()

    // The audit consumer tails the booking event queues in-process.  It
    // shares the broker with the publisher and tolerates broker downtime.
    consumer := queue.NewConsumer(cfg.RabbitURL, logg, "logs")
    go func() {
        if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
            logg.Error(ctx, "booking consumer exited", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
    avail := handler.NewAvailabilityHandler(roomLedger, bedLedger, rdb, cfg.CalendarCacheTTL, logg)
    bookings := handler.NewBookingHandler(manager, logg)
    router.RegisterRoutes(e, db, avail, limit)
    router.RegisterBookings(e, bookings, cfg.JWTSecret, limit)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    go func() {
        <-ctx.Done()
        _ = e.Shutdown(context.Background())
    }()
    if err := e.Start(addr); err != nil && ctx.Err() == nil {
        log.Fatal(err)
    }
}
