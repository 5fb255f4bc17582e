package command

import (
	"fmt"

	"animedrop/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User and social commands",
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		users, err := newClient().ListUsers(search)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}
		for _, u := range users {
			fmt.Fprintf(out, "%s  %s\n", u.ID, u.Username)
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile [userId]",
	Short: "Show a user's profile and anime list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newClient().GetProfile(args[0])
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Username:  %s\n", p.User.Username)
		if p.User.Bio != "" {
			fmt.Fprintf(out, "Bio:       %s\n", p.User.Bio)
		}
		fmt.Fprintf(out, "Followers: %d\n", len(p.User.Followers))
		fmt.Fprintf(out, "Following: %d\n\n", len(p.User.Following))
		printAnimeList(out, p.AnimeList)
		return nil
	},
}

var followCmd = &cobra.Command{
	Use:   "follow [userId]",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.Follow(args[0]); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Following")
		return nil
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow [userId]",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.Unfollow(args[0]); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Unfollowed")
		return nil
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update-profile",
	Short: "Change your bio or avatar; an empty value clears it",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}

		var req dto.UpdateProfileRequest
		if cmd.Flags().Changed("bio") {
			bio, _ := cmd.Flags().GetString("bio")
			req.Bio = &bio
		}
		if cmd.Flags().Changed("avatar") {
			avatar, _ := cmd.Flags().GetString("avatar")
			req.Avatar = &avatar
		}
		if req.Bio == nil && req.Avatar == nil {
			return fmt.Errorf("nothing to update, pass --bio and/or --avatar")
		}

		if _, err := c.UpdateProfile(&req); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile updated")
		return nil
	},
}

func init() {
	userCmd.AddCommand(listUsersCmd, profileCmd, followCmd, unfollowCmd, updateProfileCmd)

	listUsersCmd.Flags().StringP("search", "q", "", "Match username")
	updateProfileCmd.Flags().String("bio", "", "Short bio, at most 500 characters")
	updateProfileCmd.Flags().String("avatar", "", "Avatar URL")
}
