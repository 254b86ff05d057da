package main

import (
	"fmt"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		count    int
		email    string
		seed     uint64
		fixtures bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated bills into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", count)
			}
			db, err := persistence.NewDatabase(&a.cfg.Database, a.log)
			if err != nil {
				return err
			}
			defer db.Close()

			bills := persistence.FakeBills(seed, count, email)
			if fixtures {
				bills = append(bill.Fixtures(), bills...)
			}

			repo := persistence.NewGormBillRepository(db.DB)
			if err := repo.SaveBatch(cmd.Context(), bills); err != nil {
				return fmt.Errorf("failed to seed bills: %w", err)
			}
			total, err := repo.Count(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Info("Bills seeded", zap.Int("inserted", len(bills)), zap.Int64("total", total))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d bill(s), %d in store\n", len(bills), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "Number of bills to generate")
	cmd.Flags().StringVar(&email, "email", "a@a", "Owner of the generated bills")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Generator seed; 0 picks a random one")
	cmd.Flags().BoolVar(&fixtures, "fixtures", false, "Also insert the four reference bills")
	return cmd
}
