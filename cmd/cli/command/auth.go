package command

import (
	"fmt"

	"animedrop/cmd/cli/authentication"
	"animedrop/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, login, logout and show the current account.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new AnimeDrop account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		resp, err := newClient().Register(&req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := saveSession(resp); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered and logged in as %s\n", resp.User.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your AnimeDrop account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")

		resp, err := newClient().Login(&req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := saveSession(resp); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteSession(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		me, err := c.Me()
		if err != nil {
			return checkSession(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:       %s\n", me.ID)
		fmt.Fprintf(out, "Username: %s\n", me.Username)
		fmt.Fprintf(out, "Email:    %s\n", me.Email)
		if me.Bio != "" {
			fmt.Fprintf(out, "Bio:      %s\n", me.Bio)
		}
		return nil
	},
}

func saveSession(resp *dto.AuthResponse) error {
	err := authentication.StoreSession(&authentication.Session{
		Token: resp.Token,
		User: authentication.StoredUser{
			ID:       resp.User.ID,
			Username: resp.User.Username,
			Email:    resp.User.Email,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, meCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("email", "e", "", "Account email")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
