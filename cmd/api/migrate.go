package main

import (
	"strings"

	"lion-connect-backend/internal/repository/postgres"
	"lion-connect-backend/pkg/database"
	"lion-connect-backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var defaultSkills = []string{
	"Python", "Java", "JavaScript", "TypeScript", "Go", "C", "C++", "Kotlin", "Swift",
	"SQL", "React", "Vue", "Spring", "Django", "Flask", "Node.js",
	"Docker", "Kubernetes", "AWS", "Git", "Figma",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		_, pool, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer logger.Sync()

		return database.Migrate(ctx, pool)
	},
}

var seedSkillsCmd = &cobra.Command{
	Use:   "seed-skills [name...]",
	Short: "Add skill names to the shared dictionary",
	Long:  "Adds the given skill names, or a default list when none are given. Existing names are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		_, pool, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer logger.Sync()

		names := make([]string, 0, len(args))
		for _, a := range args {
			if a = strings.TrimSpace(a); a != "" {
				names = append(names, a)
			}
		}
		if len(names) == 0 {
			names = defaultSkills
		}

		added, err := postgres.SeedSkills(ctx, pool, names)
		if err != nil {
			return err
		}
		logger.Log.Info("skills seeded", zap.Int64("added", added), zap.Int("requested", len(names)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedSkillsCmd)
}
