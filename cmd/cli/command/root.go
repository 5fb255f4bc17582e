package command

// root.go defines the root command and the global flags shared by every
// subcommand.

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"animedrop/cmd/cli/authentication"
	"animedrop/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3000/api"

var apiURL string // global flag for the API base URL

var rootCmd = &cobra.Command{
	Use:   "animedrop",
	Short: "animedrop - AnimeDrop command line client",
	Long: `animedrop talks to the AnimeDrop API. With it you can:
- Register, login and inspect your account
- Discover anime, keep your own list and review other people's entries
- Follow other users and edit your profile
- Read notifications or stream them live

Use "animedrop [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := defaultAPIURL
	if v := os.Getenv("ANIMEDROP_API_URL"); v != "" {
		defaultURL = v
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API base URL")

	rootCmd.AddCommand(authCmd, animeCmd, userCmd, notificationCmd)
}

func newClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}

// authedClient returns a client carrying the stored session token.
func authedClient() (*client.HTTPClient, *authentication.Session, error) {
	session, err := authentication.GetSession()
	if err != nil {
		return nil, nil, err
	}
	c := newClient()
	c.SetToken(session.Token)
	return c, session, nil
}

// checkSession drops the stored session when the server rejects its token.
func checkSession(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		_ = authentication.DeleteSession()
		return fmt.Errorf("%s: %w", apiErr.Message, authentication.ErrNotLoggedIn)
	}
	return err
}
