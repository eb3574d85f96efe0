package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/ariefcatur/go-erp-dashboard/internal/seed"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dashctl",
	Short:         "Operator tasks for the ERP dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		log = config.InitLogger(cfg.LogLevel)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		})
	},
}

var seedOpts = seed.DefaultOptions()

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all business data with a generated demo data set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("seed wipes every table; pass --yes to continue")
		}
		return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			sum, err := (&seed.Loader{DB: db, Log: log}).Run(ctx, seedOpts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d clients, %d SKUs, %d orders\n", sum.Clients, sum.SKUs, sum.Orders)
			return nil
		})
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin <email>",
	Short: "Create an ADMIN account or reset an existing one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")
		if len(password) < 8 {
			return errors.New("password must be at least 8 characters")
		}
		return withDB(cmd.Context(), func(ctx context.Context, db *pgxpool.Pool) error {
			svc := &users.Service{Store: &users.Repo{DB: db}}
			u, err := svc.EnsureAdmin(ctx, name, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready (id %s)\n", u.Email, u.ID)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Clients, "clients", seedOpts.Clients, "number of clients")
	seedCmd.Flags().IntVar(&seedOpts.SKUs, "skus", seedOpts.SKUs, "number of SKUs")
	seedCmd.Flags().IntVar(&seedOpts.Orders, "orders", seedOpts.Orders, "number of orders")
	seedCmd.Flags().Uint64Var(&seedOpts.Seed, "seed", seedOpts.Seed, "random seed")
	seedCmd.Flags().StringVar(&seedOpts.AdminEmail, "admin-email", seedOpts.AdminEmail, "email of the system admin")
	seedCmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", seedOpts.AdminPassword, "password of the system admin")
	seedCmd.Flags().Bool("yes", false, "confirm wiping existing data")

	createAdminCmd.Flags().String("name", "Administrator", "display name")
	createAdminCmd.Flags().String("password", "", "password (min 8 characters)")

	rootCmd.AddCommand(migrateCmd, seedCmd, createAdminCmd)
}

func withDB(ctx context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, "dashctl")
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	return fn(ctx, db)
}
