package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency-desk-backend/docs"
	"agency-desk-backend/internal/config"
	"agency-desk-backend/internal/database"
	"agency-desk-backend/internal/handlers"
	"agency-desk-backend/internal/middleware"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store"
	"agency-desk-backend/internal/store/memory"
	"agency-desk-backend/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type App struct {
	cfg *config.Config
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agencydesk",
		Short: "Agency desk API server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
		RunE:          app.handleServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newAdminCmd(app),
	)
	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  app.handleServe,
	}
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE:  app.handleMigrate,
	}
}

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var name, email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.handleCreateAdmin(cmd.Context(), name, email, password)
		},
	}
	create.Flags().StringVar(&name, "name", "", "admin display name")
	create.Flags().StringVar(&email, "email", "", "admin email")
	create.Flags().StringVar(&password, "password", "", "admin password (min 6 characters)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func (a *App) handleServe(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if baseURL, err := url.Parse(cfg.BaseURL); err == nil && baseURL.Host != "" {
		docs.SwaggerInfo.Host = baseURL.Host
		if baseURL.Scheme == "https" {
			docs.SwaggerInfo.Schemes = []string{"https", "http"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := a.openStore(ctx, true)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := handlers.Dependencies{
		Store:  st,
		Tokens: middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
	}
	if cfg.SupabaseEnabled() {
		supabaseClient, err := supabase.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize Supabase client: %w", err)
		}
		deps.Verifier = supabaseClient
		deps.Uploader = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseStorageBucket)
	} else {
		log.Println("Warning: SUPABASE_URL/SUPABASE_KEY not set. Snapshot uploads and Google sign-in are disabled.")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) handleMigrate(cmd *cobra.Command, args []string) error {
	if a.cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to run migrations")
	}
	st, err := a.openStore(cmd.Context(), true)
	if err != nil {
		return err
	}
	return st.Close()
}

func (a *App) handleCreateAdmin(ctx context.Context, name, email, password string) error {
	if a.cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to create an admin")
	}
	st, err := a.openStore(ctx, false)
	if err != nil {
		return err
	}
	defer st.Close()

	users := services.NewUserService(st, middleware.NewTokenManager(a.cfg.JWTSecret, a.cfg.TokenTTL), nil)
	admin, err := users.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Created admin %s (%s)\n", admin.Email, admin.ID)
	return nil
}

// openStore connects to Postgres when DATABASE_URL is set and falls back
// to the in-memory store otherwise.
func (a *App) openStore(ctx context.Context, migrate bool) (store.Store, error) {
	if a.cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set. Using the in-memory store; data is lost on restart.")
		return memory.New(), nil
	}

	dbClient, err := database.NewDatabaseClient(a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %w", err)
	}
	if migrate {
		if err := database.NewMigrator(dbClient.DB()).Run(ctx); err != nil {
			dbClient.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Println("Migrations completed successfully")
	}
	return dbClient, nil
}
