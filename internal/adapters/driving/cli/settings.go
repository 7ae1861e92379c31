package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/gcs-indexer/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage run defaults",
	Long: `View and change the defaults stored in ~/.gcs-indexer/config.toml.
Flags on the index command override these per run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSinkCmd = &cobra.Command{
	Use:   "sink [elasticsearch|sqlite|dry-run]",
	Short: "Set the default sink",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSink,
}

var settingsESCmd = &cobra.Command{
	Use:   "elasticsearch-url [url]",
	Short: "Set the default Elasticsearch URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsES,
}

var settingsS3Cmd = &cobra.Command{
	Use:   "s3",
	Short: "Configure the S3 endpoint and credentials",
	Long: `Prompts for the endpoint, region and access key of the S3-compatible
service used for s3:// patterns. The secret key is read without echo.`,
	RunE: runSettingsS3,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSinkCmd)
	settingsCmd.AddCommand(settingsESCmd)
	settingsCmd.AddCommand(settingsS3Cmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Sink]")
	cmd.Printf("  Default: %s\n", settings.Sink.Description())
	cmd.Printf("  Categories: %s\n", joinCategories(settings.Categories))
	cmd.Println()

	cmd.Println("[Elasticsearch]")
	cmd.Printf("  URL: %s\n", valueOrUnset(settings.Elasticsearch.URL))
	cmd.Printf("  Timeout: %s\n", settings.Elasticsearch.Timeout)
	cmd.Println()

	cmd.Println("[Listing]")
	cmd.Printf("  Rate: %.1f req/s (burst %d)\n", settings.Listing.RequestsPerSecond, settings.Listing.Burst)
	cmd.Printf("  GCS endpoint: %s\n", valueOrUnset(settings.GCS.Endpoint))
	cmd.Printf("  GCS anonymous: %t\n", settings.GCS.Anonymous)
	cmd.Println()

	cmd.Println("[S3]")
	cmd.Printf("  Endpoint: %s\n", settings.S3.Endpoint)
	cmd.Printf("  Region: %s\n", valueOrUnset(settings.S3.Region))
	cmd.Printf("  Access Key: %s\n", valueOrUnset(settings.S3.AccessKey))
	if settings.S3.SecretKey != "" {
		cmd.Printf("  Secret Key: %s\n", maskSecret(settings.S3.SecretKey))
	} else {
		cmd.Printf("  Secret Key: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", valueOrDefault(settings.DataDir, "~/.gcs-indexer/data"))
	cmd.Printf("  Pushgateway: %s\n", valueOrUnset(settings.PushgatewayURL))

	return nil
}

func runSettingsSink(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	sink := domain.Sink(args[0])
	if !sink.IsValid() {
		names := make([]string, 0, len(domain.Sinks()))
		for _, s := range domain.Sinks() {
			names = append(names, s.String())
		}
		return fmt.Errorf("unknown sink %q (choose from %s)", args[0], strings.Join(names, ", "))
	}
	if err := settingsService.SetSink(sink); err != nil {
		return fmt.Errorf("failed to save sink: %w", err)
	}

	cmd.Printf("Default sink set to %s.\n", sink.Description())
	return nil
}

func runSettingsES(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("elasticsearch url must start with http:// or https://")
	}
	if err := settingsService.SetElasticsearchURL(url); err != nil {
		return fmt.Errorf("failed to save elasticsearch url: %w", err)
	}

	cmd.Printf("Elasticsearch URL set to %s.\n", url)
	return nil
}

func runSettingsS3(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	// Read straight from the store so per-run flags are not persisted.
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Printf("Endpoint [%s]: ", settings.S3.Endpoint)
	if v := readLine(reader); v != "" {
		settings.S3.Endpoint = v
	}
	cmd.Printf("Region [%s]: ", settings.S3.Region)
	if v := readLine(reader); v != "" {
		settings.S3.Region = v
	}
	cmd.Printf("Use TLS [%t]: ", settings.S3.UseSSL)
	if v := readLine(reader); v != "" {
		settings.S3.UseSSL = parseYes(v)
	}
	cmd.Print("Access key: ")
	if v := readLine(reader); v != "" {
		settings.S3.AccessKey = v
	}
	cmd.Print("Secret key: ")
	if v := readSecret(reader); v != "" {
		settings.S3.SecretKey = v
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("S3 settings saved.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readSecret reads without echo from an interactive stdin and falls back to
// the line reader otherwise.
func readSecret(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func parseYes(input string) bool {
	switch strings.ToLower(input) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func joinCategories(categories []domain.FileCategory) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func valueOrUnset(v string) string {
	return valueOrDefault(v, "(not set)")
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
