package main

import (
	"context"
	"fmt"
	"os"

	"peerprep/interview/internal/questionbank"
	"peerprep/interview/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the curated question bank",
}

var bankSeedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Insert questions from a YAML file into the question bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := loadBankFile(args[0])
		if err != nil {
			return err
		}
		n, err := seedBank(cmd.Context(), questions)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d of %d questions\n", n, len(questions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bankCmd)
	bankCmd.AddCommand(bankSeedCmd)

	bankSeedCmd.Flags().String("mongo-uri", "", "MongoDB connection string (falls back to MONGO_URI)")
	bankSeedCmd.Flags().String("db", "peerprep", "database name")
	bankSeedCmd.Flags().String("collection", "interview_questions", "collection name")

	viper.BindPFlag("mongo-uri", bankSeedCmd.Flags().Lookup("mongo-uri"))
	viper.BindPFlag("db", bankSeedCmd.Flags().Lookup("db"))
	viper.BindPFlag("collection", bankSeedCmd.Flags().Lookup("collection"))
}

type bankFile struct {
	Questions []questionbank.BankQuestion `yaml:"questions"`
}

func loadBankFile(path string) ([]questionbank.BankQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("%s has no questions", path)
	}
	return f.Questions, nil
}

func seedBank(ctx context.Context, questions []questionbank.BankQuestion) (int, error) {
	logger, err := utils.NewCLILogger(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return 0, fmt.Errorf("creating a logger: %w", err)
	}
	defer logger.Sync()

	uri := viper.GetString("mongo-uri")
	if uri == "" {
		uri = os.Getenv("MONGO_URI")
	}

	client, err := questionbank.Connect(ctx, uri)
	if err != nil {
		return 0, fmt.Errorf("connecting to question bank: %w", err)
	}
	defer client.Disconnect(context.Background())

	col, err := client.Collection(viper.GetString("db"), viper.GetString("collection"))
	if err != nil {
		return 0, err
	}

	n, err := questionbank.NewBank(col, nil, logger).Seed(ctx, questions)
	if err != nil {
		return 0, err
	}
	logger.Info("question bank seeded", zap.Int("inserted", n))
	return n, nil
}
