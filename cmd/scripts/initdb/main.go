package main

import (
	"fmt"
	"os"

	"github.com/brainfuel/backend/internal/config"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	rootCmd = &cobra.Command{
		Use:   "initdb",
		Short: "Create the BrainFuel schema and seed the category vocabulary",
		RunE:  runAll,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables",
		RunE:  runMigrate,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories into an empty database",
		RunE:  runSeed,
	}
	configCmd = &cobra.Command{
		Use:   "config <path>",
		Short: "Write the effective configuration (file, .env and environment) to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfig,
	}

	// Flags
	configPath string
	driver     string
	dsn        string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Database driver (sqlite or mysql), overrides config")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database DSN, overrides config")
	rootCmd.AddCommand(migrateCmd, seedCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAll(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return seed(cmd, db)
	})
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		cmd.Println("Schema is up to date")
		return nil
	})
}

func runSeed(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		return seed(cmd, db)
	})
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(args[0]); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Configuration written to %s\n", args[0])
	return nil
}

func seed(cmd *cobra.Command, db *gorm.DB) error {
	var before int64
	if err := db.Model(&models.Category{}).Count(&before).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}

	if err := models.SeedDefaultData(db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	var after int64
	if err := db.Model(&models.Category{}).Count(&after).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	cmd.Printf("Categories: %d before, %d after\n", before, after)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}
	return cfg, nil
}

func withDB(fn func(db *gorm.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level)

	gw := models.NewGateway(&cfg.Database)
	defer gw.Close()

	db, err := gw.DB()
	if err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("Connected to database")
	return fn(db)
}
