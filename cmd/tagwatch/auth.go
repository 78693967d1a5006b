package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"tagwatch/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Twitter API credentials",
	Long: `Manage stored Twitter API credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Store Twitter API credentials securely",
	Long: `Store Twitter API credentials in the system keychain or encrypted file.

You will be prompted for:
  - Profile name (if not provided)
  - Bearer token (from the Twitter developer portal)
  - API key and secret (optional, press Enter to skip)`,
	Example: `  # Interactive login
  tagwatch auth login

  # Login with a named profile
  tagwatch auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove stored credentials",
	Long: `Remove a stored credential profile.

If no profile is provided, you will be shown a list of stored profiles
to choose from.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored profiles",
	Long:  `List all stored credential profiles with sensitive values masked.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if name == "" {
		fmt.Print("Profile name (default): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to read profile name:", err)
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
		if name == "" {
			name = "default"
		}
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Profile '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your credentials (they will be hidden as you type):")
	fmt.Println()

	fmt.Print("Bearer token: ")
	bearerToken, err := readPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read bearer token:", err)
		os.Exit(1)
	}
	if bearerToken == "" {
		fmt.Fprintln(os.Stderr, "Bearer token is required")
		os.Exit(1)
	}

	fmt.Print("\nAPI key (optional, press Enter to skip): ")
	apiKey, _ := readPassword()

	var apiSecret string
	if apiKey != "" {
		fmt.Print("\nAPI secret: ")
		apiSecret, _ = readPassword()
	}
	fmt.Println()

	profile := &auth.Profile{
		Name:         name,
		BearerToken:  bearerToken,
		APIKey:       apiKey,
		APISecret:    apiSecret,
		LastModified: time.Now(),
	}

	if err := manager.Store(profile); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to store credentials:", err)
		os.Exit(1)
	}

	fmt.Printf("Credentials stored for profile '%s'\n", name)
	fmt.Println("\nRun a collection with:")
	fmt.Printf("  tagwatch run --profile %s\n", name)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	if len(args) > 0 {
		name := args[0]
		if err := manager.Delete(name); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to remove profile:", err)
			os.Exit(1)
		}
		fmt.Println("Profile removed:", name)
		return
	}

	profiles, err := manager.List()
	if err != nil || len(profiles) == 0 {
		fmt.Println("No stored profiles found")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(profiles) == 1 {
		profile := profiles[0]
		fmt.Printf("Remove profile '%s'? (y/N): ", profile.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(profile.Name); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to remove profile:", err)
			os.Exit(1)
		}
		fmt.Println("Profile removed:", profile.Name)
		return
	}

	fmt.Println("Select profile to remove:")
	for i, profile := range profiles {
		fmt.Printf("  %d. %s\n", i+1, profile.Name)
	}
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	if choice < 1 || choice > len(profiles) {
		return
	}

	profile := profiles[choice-1]
	if err := manager.Delete(profile.Name); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to remove profile:", err)
		os.Exit(1)
	}
	fmt.Println("Profile removed:", profile.Name)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	profiles, err := manager.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to list profiles:", err)
		os.Exit(1)
	}

	if len(profiles) == 0 {
		fmt.Println("No stored profiles. Use 'tagwatch auth login' to add one.")
		return
	}

	fmt.Println("Stored Profiles")
	fmt.Println()

	for i, profile := range profiles {
		sanitized := auth.SanitizeProfile(profile)
		fmt.Printf("%d. Profile: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Bearer Token: %s\n", sanitized.BearerToken)
		if sanitized.APIKey != "" {
			fmt.Printf("   API Key: %s\n", sanitized.APIKey)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
