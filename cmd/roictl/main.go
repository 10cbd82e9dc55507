// roictl is an operator CLI for the register of information. It talks
// straight to the database, so it works without the API server running.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/meridiangrc/roi/internal/roi"
	_ "github.com/meridiangrc/roi/internal/roi/templates" // Register all templates
)

func main() {
	root := &cobra.Command{
		Use:           "roictl",
		Short:         "Operator tooling for the register of information",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(templatesCmd(), validateCmd(), exportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List registered report templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, def := range roi.All() {
				fmt.Printf("%-10s %-45s %s\n", def.Info.ID, def.Info.Name, def.Info.Table)
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	var orgFlag string
	cmd := &cobra.Command{
		Use:   "validate <templateID>",
		Short: "Validate a template's rows for an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			service, pool, orgID, err := connect(ctx, orgFlag)
			if err != nil {
				return err
			}
			defer pool.Close()

			templateID := roi.NormalizeTemplateID(args[0])
			res, err := service.FetchTemplateData(ctx, orgID, templateID)
			if err != nil {
				return err
			}
			result, err := roi.ValidateTemplate(templateID, res.Rows)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d rows, %d errors, %d warnings\n",
				templateID, res.Count, result.ErrorCount, result.WarningCount)
			for _, e := range result.Errors {
				fmt.Printf("  ERROR row %d %s: %s\n", e.Row, e.Column, e.Message)
			}
			for _, wn := range result.Warnings {
				fmt.Printf("  WARN  row %d %s: %s\n", wn.Row, wn.Column, wn.Message)
			}
			if !result.IsValid {
				return fmt.Errorf("%d validation errors", result.ErrorCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&orgFlag, "org", "", "organization ID (required)")
	cmd.MarkFlagRequired("org")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		orgFlag    string
		formatFlag string
		outFlag    string
	)
	cmd := &cobra.Command{
		Use:   "export <templateID>",
		Short: "Export a template to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			service, pool, orgID, err := connect(ctx, orgFlag)
			if err != nil {
				return err
			}
			defer pool.Close()

			templateID := roi.NormalizeTemplateID(args[0])
			res, err := service.FetchTemplateData(ctx, orgID, templateID)
			if err != nil {
				return err
			}

			var artifact roi.Artifact
			switch formatFlag {
			case "csv":
				artifact, err = roi.GenerateCSV(templateID, res)
			case "xlsx":
				artifact, err = roi.GenerateXLSX(templateID, res)
			default:
				return fmt.Errorf("unsupported format %q, use csv or xlsx", formatFlag)
			}
			if err != nil {
				return err
			}

			out := outFlag
			if out == "" {
				out = artifact.FileName
			}
			if err := os.WriteFile(out, artifact.Data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d rows, %d columns)\n", out, artifact.RowCount, artifact.ColumnCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&orgFlag, "org", "", "organization ID (required)")
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "export format: csv or xlsx")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "output file (defaults to the artifact name)")
	cmd.MarkFlagRequired("org")
	return cmd
}

// connect loads DATABASE_URL (optionally from .env) and opens a pool.
func connect(ctx context.Context, rawOrgID string) (*roi.Service, *pgxpool.Pool, uuid.UUID, error) {
	godotenv.Load()

	orgID, err := uuid.Parse(rawOrgID)
	if err != nil {
		return nil, nil, uuid.Nil, fmt.Errorf("invalid --org: %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DB_URL")
	}
	if dbURL == "" {
		return nil, nil, uuid.Nil, fmt.Errorf("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, nil, uuid.Nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, uuid.Nil, fmt.Errorf("ping: %w", err)
	}

	return roi.NewService(pool), pool, orgID, nil
}
