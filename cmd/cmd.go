// Package cmd defines the command-line interface for douremember.
package cmd

import (
	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsSummaryCmd)
	reportsCmd.AddCommand(reportsTrendCmd)
	reportsCmd.AddCommand(reportsExportCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)

	sessionCmd.AddCommand(sessionStartCmd)

	imagesCmd.AddCommand(imagesListCmd)
	imagesCmd.AddCommand(imagesAddCmd)
	imagesCmd.AddCommand(imagesReplaceCmd)
	imagesCmd.AddCommand(imagesDeleteCmd)

	groupsCmd.AddCommand(groupsAddCmd)
	profilesCmd.AddCommand(profilesAddCmd)

	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("user", "u", "", "Acting user ID: the patient for sessions, the caregiver or doctor for reports")
	rootCmd.PersistentFlags().StringP("kind", "k", "", "Report kind filter (empty or 'todos' keeps every kind)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text, csv, json, parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns (1 or 2)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("timezone", "", "IANA time zone for dates and the daily guard (default: local)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Store backend: sqlite, mysql, postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("storage-backend", string(schema.LocalStorage), "Image storage backend: local or s3")
	rootCmd.PersistentFlags().String("storage-dir", "", "Directory for local image storage")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "Custom S3 endpoint (Supabase, MinIO); enables path-style addressing")
	rootCmd.PersistentFlags().String("s3-region", "", "S3 region")
	rootCmd.PersistentFlags().String("s3-bucket", contract.DefaultS3Bucket, "S3 bucket for images")
	rootCmd.PersistentFlags().String("s3-access-key", "", "S3 access key (falls back to the AWS credential chain)")
	rootCmd.PersistentFlags().String("s3-secret-key", "", "S3 secret key (please use env var)")
	rootCmd.PersistentFlags().String("public-base-url", "", "Public URL prefix of stored images")
	rootCmd.PersistentFlags().String("scorer-base-url", contract.DefaultScorerBaseURL, "Chat completions base URL of the text-evaluation service")
	rootCmd.PersistentFlags().String("scorer-api-key", "", "API key of the text-evaluation service (please use env var)")
	rootCmd.PersistentFlags().String("scorer-model", contract.DefaultScorerModel, "Model used to score descriptions")
	rootCmd.PersistentFlags().String("scorer-timeout", contract.DefaultScorerTimeout.String(), "Timeout of one scoring request")
	rootCmd.PersistentFlags().Float64("scorer-temperature", 0, "Sampling temperature of the scoring model")
	rootCmd.PersistentFlags().Int("sample-size", contract.DefaultSampleSize, "Images drawn per daily session")
	rootCmd.PersistentFlags().String("day-guard", string(schema.CalendarDayGuard), "Daily guard: calendar or day-of-month")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: text or json")
	rootCmd.PersistentFlags().String("log-file", "", "Optional rotated log file")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags are read straight from the command, they are not config keys
	imagesCmd.PersistentFlags().String("group", "", "Care group ID (defaults to the acting user's group)")
	imagesAddCmd.Flags().String("description", "", "Reference description of the image")
	imagesReplaceCmd.Flags().String("description", "", "New reference description (empty keeps the current one)")
	imagesReplaceCmd.Flags().String("file", "", "New image file (empty keeps the current binary)")

	groupsAddCmd.Flags().String("id", "", "Group ID (generated when empty)")
	groupsAddCmd.Flags().String("doctor", "", "Doctor profile ID")
	groupsAddCmd.Flags().String("caregiver", "", "Caregiver profile ID")
	groupsAddCmd.Flags().String("patient", "", "Patient profile ID")

	profilesAddCmd.Flags().String("name", "", "Display name")
	profilesAddCmd.Flags().String("role", string(schema.PatientRole), "Role: paciente, cuidador, medico, administrador")

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
