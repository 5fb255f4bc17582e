package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"animedrop/cmd/cli/command/client"
	"animedrop/internal/ingestion/anilist"
	"animedrop/internal/microservices/http-api/models"

	"github.com/spf13/cobra"
)

func anilistClient() *anilist.Client {
	if url := os.Getenv("ANIMEDROP_ANILIST_URL"); url != "" {
		return anilist.NewClientWithURL(url)
	}
	return anilist.NewClient()
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [title]",
	Short: "Search AniList for an anime",
	Long: `Search AniList and print the matches. With --add the chosen match
is added to your list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		pick, _ := cmd.Flags().GetInt("add")
		status, _ := cmd.Flags().GetString("status")

		media, err := anilistClient().SearchAnime(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(media) == 0 {
			fmt.Fprintln(out, "No matches on AniList.")
			return nil
		}

		if pick == 0 {
			for i, m := range media {
				fmt.Fprintf(out, "%d. %s", i+1, m.PreferredTitle())
				if m.SeasonYear != nil {
					fmt.Fprintf(out, " (%d)", *m.SeasonYear)
				}
				if m.Episodes != nil {
					fmt.Fprintf(out, ", %d episodes", *m.Episodes)
				}
				if len(m.Genres) > 0 {
					fmt.Fprintf(out, " [%s]", strings.Join(m.Genres, ", "))
				}
				fmt.Fprintln(out)
			}
			return nil
		}
		if pick < 1 || pick > len(media) {
			return fmt.Errorf("--add must be between 1 and %d", len(media))
		}

		c, _, err := authedClient()
		if err != nil {
			return err
		}
		req := media[pick-1].ToCreateAnimeRequest(models.AnimeStatus(status))
		a, err := c.CreateAnime(&req)
		if err != nil {
			return checkSession(err)
		}
		fmt.Fprintf(out, "✓ Added %s (ID: %s)\n", a.Title, a.ID)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Add anime from a file of titles, one per line",
	Long: `Resolve every title in the file on AniList and add the best match
to your list. Use --file - to read titles from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		workers, _ := cmd.Flags().GetInt("workers")
		status, _ := cmd.Flags().GetString("status")

		var in io.Reader = cmd.InOrStdin()
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		titles, err := readTitles(in)
		if err != nil {
			return err
		}

		c, _, err := authedClient()
		if err != nil {
			return err
		}

		im := anilist.NewImporter(anilistClient(), c, workers, models.AnimeStatus(status))
		results := im.Import(cmd.Context(), titles)

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			var apiErr *client.APIError
			if errors.As(r.Err, &apiErr) && apiErr.StatusCode == 401 {
				return checkSession(r.Err)
			}
			if r.Err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %v\n", r.Query, r.Err)
				continue
			}
			fmt.Fprintf(out, "✓ %s -> %s (ID: %s)\n", r.Query, r.Anime.Title, r.Anime.ID)
		}
		fmt.Fprintf(out, "Imported %d of %d\n", len(results)-failed, len(results))
		return nil
	},
}

// readTitles returns the non-empty lines of r, skipping # comments.
func readTitles(r io.Reader) ([]string, error) {
	var titles []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	return titles, scanner.Err()
}

func init() {
	animeCmd.AddCommand(lookupCmd, importCmd)

	lookupCmd.Flags().IntP("limit", "n", 5, "Number of matches to show")
	lookupCmd.Flags().Int("add", 0, "Add the Nth match to your list")
	lookupCmd.Flags().StringP("status", "s", string(models.StatusPlanning), "Status for the added anime")

	importCmd.Flags().StringP("file", "f", "", "File with one title per line")
	importCmd.Flags().IntP("workers", "w", 4, "Concurrent lookups")
	importCmd.Flags().StringP("status", "s", string(models.StatusPlanning), "Status for imported anime")
	importCmd.MarkFlagRequired("file")
}
