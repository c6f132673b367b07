package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/fuze/cli/internal/bookmarks"
	"github.com/fuze/cli/pkg/api"
	"github.com/fuze/cli/pkg/table"
	"github.com/fuze/cli/pkg/util"
)

// BookmarkService defines the subset of the API client the bookmark
// commands use.
type BookmarkService interface {
	Create(ctx context.Context, b api.Bookmark) (*api.Bookmark, bool, error)
	DeleteByURL(ctx context.Context, rawURL string) error
	List(ctx context.Context) ([]api.Bookmark, error)
}

// BookmarksCmd handles single-bookmark operations.
type BookmarksCmd struct {
	bookmarks BookmarkService
}

// AddBookmarkInput holds input for saving one bookmark.
type AddBookmarkInput struct {
	URL         string
	Title       string
	Description string
	Category    string
	Tags        []string
}

// Add saves a bookmark, reporting whether the server created or updated it.
func (b BookmarksCmd) Add(ctx context.Context, in AddBookmarkInput) error {
	if bookmarks.Internal(in.URL) {
		return fmt.Errorf("browser-internal URLs cannot be saved")
	}
	if in.Title == "" {
		in.Title = in.URL
	}
	if in.Category == "" {
		in.Category = "other"
	}

	rec, wasDuplicate, err := b.bookmarks.Create(ctx, api.Bookmark{
		URL:         in.URL,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Tags:        in.Tags,
	})
	if err != nil {
		return err
	}

	if wasDuplicate {
		pterm.Success.Println("Bookmark updated in Fuze")
	} else {
		pterm.Success.Println("Bookmark saved to Fuze")
	}
	if rec != nil && rec.ID != "" {
		pterm.Debug.Printfln("record id: %s", rec.ID)
	}
	return nil
}

// RemoveBookmarkInput holds input for removing one bookmark.
type RemoveBookmarkInput struct {
	URL string
}

// Remove deletes the bookmark matching the URL.
func (b BookmarksCmd) Remove(ctx context.Context, in RemoveBookmarkInput) error {
	if err := b.bookmarks.DeleteByURL(ctx, in.URL); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			pterm.Warning.Println("No bookmark with that URL in Fuze")
			return nil
		}
		return err
	}
	pterm.Success.Println("Bookmark removed from Fuze")
	return nil
}

// ListBookmarksInput holds input for listing bookmarks.
type ListBookmarksInput struct {
	Category string
	Output   string
}

// List prints the account's bookmarks.
func (b BookmarksCmd) List(ctx context.Context, in ListBookmarksInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	all, err := b.bookmarks.List(ctx)
	if err != nil {
		return err
	}
	if in.Category != "" {
		all = lo.Filter(all, func(bm api.Bookmark, _ int) bool {
			return strings.EqualFold(bm.Category, in.Category)
		})
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(all)
	}

	if len(all) == 0 {
		pterm.Info.Println("No bookmarks found")
		return nil
	}

	rows := pterm.TableData{{"Title", "URL", "Category", "Tags"}}
	for _, bm := range all {
		rows = append(rows, []string{
			util.OrDash(bm.Title),
			bm.URL,
			util.OrDash(bm.Category),
			util.JoinOrDash(bm.Tags...),
		})
	}
	table.PrintTableNoPad(rows, true)
	return nil
}

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a bookmark to Fuze",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var rmCmd = &cobra.Command{
	Use:     "rm <url>",
	Aliases: []string{"remove"},
	Short:   "Remove a bookmark from Fuze",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your Fuze bookmarks",
	RunE:    runList,
}

func init() {
	addCmd.Flags().StringP("title", "t", "", "Bookmark title (defaults to the URL)")
	addCmd.Flags().StringP("description", "d", "", "Bookmark description")
	addCmd.Flags().StringP("category", "c", "", "Category (defaults to 'other')")
	addCmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")

	listCmd.Flags().StringP("category", "c", "", "Only show this category")
	listCmd.Flags().StringP("output", "o", "", "Output format (json)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tag")

	b := BookmarksCmd{bookmarks: client}
	return b.Add(cmd.Context(), AddBookmarkInput{
		URL:         args[0],
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	b := BookmarksCmd{bookmarks: client}
	return b.Remove(cmd.Context(), RemoveBookmarkInput{URL: args[0]})
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	category, _ := cmd.Flags().GetString("category")
	output, _ := cmd.Flags().GetString("output")

	b := BookmarksCmd{bookmarks: client}
	return b.List(cmd.Context(), ListBookmarksInput{Category: category, Output: output})
}
