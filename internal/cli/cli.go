package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/slicenferqin/sql-zen/internal/app"
	"github.com/slicenferqin/sql-zen/internal/metadata"
	"github.com/slicenferqin/sql-zen/internal/migration"
	"github.com/slicenferqin/sql-zen/internal/seeder"
	"github.com/slicenferqin/sql-zen/internal/sink"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

// NewRootCommand builds the root sqlzen CLI command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sqlzen",
		Short: "Seed the sql-zen test dataset and emit its semantic metadata",
	}

	root.AddCommand(newSeedCmd())
	root.AddCommand(newProvisionCmd())
	root.AddCommand(newMetadataCmd())
	root.AddCommand(newMigrateCmd())

	return root
}

// Execute runs the sqlzen CLI, mapping failures onto taxonomy exit codes.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		appErr := errorbank.From(err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := appErr.Hint(); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		return appErr.ExitCode()
	}
	return 0
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision the schema, seed all entities, and write metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, _ := cmd.Flags().GetInt("users")
			orders, _ := cmd.Flags().GetInt("orders")
			randomSeed, _ := cmd.Flags().GetInt64("seed")

			var seed *seeder.Seeder
			opts := fx.Options(app.Core, seeder.Module, fx.Populate(&seed))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				return seed.Run(ctx, seeder.Options{
					Users:      users,
					Orders:     orders,
					RandomSeed: randomSeed,
				})
			})
		},
	}
	cmd.Flags().Int("users", -1, "Number of users to generate (default from SEED_USERS)")
	cmd.Flags().Int("orders", -1, "Number of orders to generate (default from SEED_ORDERS)")
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible datasets (0 = random)")
	return cmd
}

func newProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Drop and recreate the dataset schema without seeding data",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *sink.Sink
			opts := fx.Options(app.Core, fx.Populate(&s))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := s.Provision(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema provisioned")
				return nil
			})
		},
	}
}

func newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Regenerate the schema and cube documents without touching data",
		RunE: func(cmd *cobra.Command, args []string) error {
			var writer *metadata.Writer
			opts := fx.Options(app.Offline, fx.Populate(&writer))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := writer.WriteAll(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "metadata documents written")
				return nil
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var mig *migration.Migrator
			opts := fx.Options(app.Core, migration.Module, fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			var mig *migration.Migrator
			opts := fx.Options(app.Core, migration.Module, fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Down(ctx, steps, all); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migration steps to rollback")
	downCmd.Flags().Bool("all", false, "Rollback all applied migrations")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func runWithApp(ctx context.Context, opts fx.Option, fn func(context.Context) error) error {
	application := fx.New(opts, fx.NopLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = application.Stop(stopCtx)
	}()
	return fn(ctx)
}
