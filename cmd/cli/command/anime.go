package command

import (
	"fmt"
	"io"
	"strings"

	"animedrop/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var animeCmd = &cobra.Command{
	Use:   "anime",
	Short: "Anime commands",
	Long:  `Discover anime, manage your own list and review entries.`,
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Browse every user's anime",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		genre, _ := cmd.Flags().GetString("genre")

		list, err := newClient().Discover(search, genre)
		if err != nil {
			return fmt.Errorf("failed to discover anime: %w", err)
		}
		printAnimeList(cmd.OutOrStdout(), list)
		return nil
	},
}

var myListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your own anime list",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		list, err := c.MyList()
		if err != nil {
			return checkSession(err)
		}
		printAnimeList(cmd.OutOrStdout(), list)
		return nil
	},
}

var getAnimeCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one anime with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newClient().GetAnime(args[0])
		if err != nil {
			return fmt.Errorf("failed to get anime: %w", err)
		}
		printAnimeDetail(cmd.OutOrStdout(), a)
		return nil
	},
}

var addAnimeCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an anime to your list",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}

		var req dto.CreateAnimeRequest
		flags := cmd.Flags()
		req.Title, _ = flags.GetString("title")
		req.Description, _ = flags.GetString("description")
		req.Image, _ = flags.GetString("image")
		req.Status, _ = flags.GetString("status")
		genres, _ := flags.GetStringSlice("genres")
		req.Genres = genres
		if flags.Changed("episodes") {
			n, _ := flags.GetInt("episodes")
			req.Episodes = &n
		}
		if flags.Changed("watched") {
			n, _ := flags.GetInt("watched")
			req.EpisodesWatched = &n
		}

		a, err := c.CreateAnime(&req)
		if err != nil {
			return checkSession(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (ID: %s)\n", a.Title, a.ID)
		return nil
	},
}

var updateAnimeCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update one of your anime; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}

		var req dto.UpdateAnimeRequest
		flags := cmd.Flags()
		for name, target := range map[string]**string{
			"title":       &req.Title,
			"description": &req.Description,
			"image":       &req.Image,
			"status":      &req.Status,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*target = &v
			}
		}
		if flags.Changed("genres") {
			genres, _ := flags.GetStringSlice("genres")
			req.Genres = &genres
		}
		if flags.Changed("episodes") {
			n, _ := flags.GetInt("episodes")
			req.Episodes = &n
		}
		if flags.Changed("watched") {
			n, _ := flags.GetInt("watched")
			req.EpisodesWatched = &n
		}

		a, err := c.UpdateAnime(args[0], &req)
		if err != nil {
			return checkSession(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", a.Title)
		return nil
	},
}

var deleteAnimeCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one of your anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}
		if err := c.DeleteAnime(args[0]); err != nil {
			return checkSession(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Anime deleted")
		return nil
	},
}

var reviewAnimeCmd = &cobra.Command{
	Use:   "review [id]",
	Short: "Review someone else's anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := authedClient()
		if err != nil {
			return err
		}

		rating, _ := cmd.Flags().GetInt("rating")
		text, _ := cmd.Flags().GetString("text")

		a, err := c.AddReview(args[0], &dto.CreateReviewRequest{Rating: &rating, Review: text})
		if err != nil {
			return checkSession(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Review added, %s now averages %.1f\n", a.Title, a.AverageRating)
		return nil
	},
}

func printAnimeList(w io.Writer, list []dto.AnimeResponse) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No anime found.")
		return
	}
	fmt.Fprintf(w, "Found %d anime:\n\n", len(list))
	for _, a := range list {
		printAnimeSummary(w, &a)
		fmt.Fprintln(w, strings.Repeat("-", 50))
	}
}

func printAnimeSummary(w io.Writer, a *dto.AnimeResponse) {
	fmt.Fprintf(w, "ID:       %s\n", a.ID)
	fmt.Fprintf(w, "Title:    %s\n", a.Title)
	fmt.Fprintf(w, "Status:   %s (%d/%d episodes)\n", a.Status, a.EpisodesWatched, a.Episodes)
	if len(a.Genres) > 0 {
		fmt.Fprintf(w, "Genres:   %s\n", strings.Join(a.Genres, ", "))
	}
	fmt.Fprintf(w, "Rating:   %.1f\n", a.AverageRating)
	if a.User != nil {
		fmt.Fprintf(w, "Owner:    %s\n", a.User.Username)
	}
}

func printAnimeDetail(w io.Writer, a *dto.AnimeDetailResponse) {
	printAnimeSummary(w, &a.AnimeResponse)
	fmt.Fprintf(w, "\n%s\n", a.Description)
	if len(a.Reviews) == 0 {
		fmt.Fprintln(w, "\nNo reviews yet.")
		return
	}
	fmt.Fprintf(w, "\nReviews (%d):\n", len(a.Reviews))
	for _, r := range a.Reviews {
		name := "unknown"
		if r.User != nil {
			name = r.User.Username
		}
		fmt.Fprintf(w, "  %d/10 by %s: %s\n", r.Rating, name, r.Review)
	}
}

func addAnimeFields(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Title")
	cmd.Flags().StringP("description", "d", "", "Description")
	cmd.Flags().String("image", "", "Cover image URL")
	cmd.Flags().StringSliceP("genres", "g", nil, "Comma separated genres")
	cmd.Flags().StringP("status", "s", "", "Planning, Watching, Completed, Dropped or On Hold")
	cmd.Flags().Int("episodes", 0, "Total episodes")
	cmd.Flags().Int("watched", 0, "Episodes watched")
}

func init() {
	animeCmd.AddCommand(discoverCmd, myListCmd, getAnimeCmd, addAnimeCmd, updateAnimeCmd, deleteAnimeCmd, reviewAnimeCmd)

	discoverCmd.Flags().StringP("search", "q", "", "Match title or description")
	discoverCmd.Flags().StringP("genre", "g", "", "Only anime with this genre")

	addAnimeFields(addAnimeCmd)
	_ = addAnimeCmd.MarkFlagRequired("title")
	_ = addAnimeCmd.MarkFlagRequired("description")
	addAnimeFields(updateAnimeCmd)

	reviewAnimeCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 10")
	reviewAnimeCmd.Flags().StringP("text", "m", "", "Review text")
	_ = reviewAnimeCmd.MarkFlagRequired("rating")
	_ = reviewAnimeCmd.MarkFlagRequired("text")
}
