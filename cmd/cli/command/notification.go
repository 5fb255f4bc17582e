package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"animedrop/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notif"},
	Short:   "Notification commands",
}

var listNotificationsCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your 50 most recent notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		list, err := c.Notifications()
		if err != nil {
			return checkSession(err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No notifications.")
			return nil
		}
		for _, n := range list {
			marker := "•"
			if n.Read {
				marker = " "
			}
			fmt.Fprintf(out, "%s %s  [%s] %s  %s\n", marker, n.ID, n.Type, n.Message, n.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the number of unread notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		n, err := c.UnreadCount()
		if err != nil {
			return checkSession(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", n)
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		if _, err := c.MarkRead(args[0]); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Marked as read")
		return nil
	},
}

var readAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.MarkAllRead(); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ All notifications marked as read")
		return nil
	},
}

var deleteNotificationCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteNotification(args[0]); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Notification deleted")
		return nil
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Stream notifications live until Ctrl+C",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, session, err := authedClient()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Listening as %s, press Ctrl+C to stop\n", session.User.Username)
		return checkSession(client.ListenNotifications(ctx, apiURL, session.Token, cmd.OutOrStdout()))
	},
}

func init() {
	notificationCmd.AddCommand(listNotificationsCmd, unreadCmd, readCmd, readAllCmd, deleteNotificationCmd, listenCmd)
}
