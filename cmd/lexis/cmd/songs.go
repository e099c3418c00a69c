package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/lexis/internal/library"
	"github.com/f3rmion/lexis/internal/lyrics"
	"github.com/spf13/cobra"
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Manage your saved songs",
	Long:  `List, save and remove the songs in your library.`,
}

var songsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your saved songs",
	Long: `List your saved songs.

Examples:
  lexis songs list
  lexis songs list --sort artist --order asc`,
	Args: cobra.NoArgs,
	RunE: runSongsList,
}

var songsSaveCmd = &cobra.Command{
	Use:   "save <query...>",
	Short: "Find a song and save it to your library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSongsSave,
}

var songsRmCmd = &cobra.Command{
	Use:     "rm <artist> <title>",
	Aliases: []string{"remove"},
	Short:   "Remove a song from your library",
	Long: `Remove a song from your library. Quote names with spaces.

Example:
  lexis songs rm "Simon & Garfunkel" "The Sound of Silence"`,
	Args: cobra.ExactArgs(2),
	RunE: runSongsRm,
}

var (
	songsSort  string
	songsOrder string
	songsPlain bool
)

func init() {
	rootCmd.AddCommand(songsCmd)
	songsCmd.AddCommand(songsListCmd, songsSaveCmd, songsRmCmd)

	songsListCmd.Flags().StringVar(&songsSort, "sort", "", "sort by title, artist or createdAt (default from config)")
	songsListCmd.Flags().StringVar(&songsOrder, "order", "", "asc or desc (default from config)")
	songsListCmd.Flags().BoolVar(&songsPlain, "plain", false, "print without colors")
}

func runSongsList(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	lib := env.cfg.Library
	field, order, err := sortFlags(songsSort, songsOrder, lib.SongSort, lib.SongOrder, library.SongFields)
	if err != nil {
		return err
	}

	songs, err := env.service().Songs(cmd.Context())
	if err != nil {
		return err
	}
	printer{w: cmd.OutOrStdout(), plain: songsPlain}.songs(library.Sort(songs, field, order))
	return nil
}

func runSongsSave(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	svc := env.service()
	query := strings.Join(args, " ")
	page, err := svc.Open(ctx, query)
	if errors.Is(err, lyrics.ErrNotFound) {
		return fmt.Errorf("no lyrics found for %q", query)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if page.SongSaved {
		fmt.Fprintf(out, "%q by %s is already in your library\n", page.Song.Title, page.Song.Artist)
		return nil
	}
	if _, err := svc.ToggleSong(ctx, page.Song, false); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %q by %s\n", page.Song.Title, page.Song.Artist)
	return nil
}

func runSongsRm(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.service().RemoveSong(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q by %s\n", args[1], args[0])
	return nil
}
