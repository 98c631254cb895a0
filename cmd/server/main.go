package main

import (
	"fmt"
	"log"
	"os"

	"agency-portal/internal/config"
	"agency-portal/internal/database"
	"agency-portal/internal/handlers"
	"agency-portal/internal/server"
	"agency-portal/internal/service"
	"agency-portal/internal/session"
	"agency-portal/internal/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agency-portal",
		Short:        "Client and project tracking for the agency",
		SilenceUsage: true,
	}

	serve := newServeCmd()
	root.AddCommand(serve, newMigrateCmd(), newHashSecretCmd())
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func newServeCmd() *cobra.Command {
	var secureCookie bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			auth, err := session.NewAuthenticator(st, session.AdminCredential{
				Secret: cfg.AdminSecret,
				Hash:   cfg.AdminSecretHash,
			})
			if err != nil {
				return err
			}

			svc := service.New(st)
			r := server.NewRouter(server.Options{
				SessionSecret: cfg.SessionSecret,
				SecureCookie:  secureCookie,
			}, handlers.New(svc, auth), svc)

			addr := fmt.Sprintf(":%s", cfg.ServerPort)
			log.Printf("starting server on %s (store=%s)", addr, cfg.StoreDriver)
			return r.Run(addr)
		},
	}
	cmd.Flags().BoolVar(&secureCookie, "secure-cookie", false, "mark the session cookie Secure (HTTPS only)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreDriver == config.DriverMemory {
				return fmt.Errorf("nothing to migrate for the %s store", cfg.StoreDriver)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}

func newHashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret <secret>",
		Short: "Print a bcrypt hash for ADMIN_SECRET_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := session.HashSecret(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		return database.OpenSQLite(cfg.DBDSN)
	}
	return database.Open(cfg.DBDSN)
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Println("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return store.NewGorm(db), nil
}
