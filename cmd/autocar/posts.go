package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/autocaravecchauffeur/autocar/content"
	"github.com/autocaravecchauffeur/autocar/markdown"
	"github.com/autocaravecchauffeur/autocar/views"
)

func newPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect blog posts as the site resolves them",
	}
	cmd.AddCommand(newPostsListCmd())
	cmd.AddCommand(newPostsShowCmd())
	return cmd
}

func newPostsListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := openRepository(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			var posts []content.BlogPost
			if category != "" {
				posts = repo.ListByCategory(cmd.Context(), category)
			} else {
				posts = repo.ListPublished(cmd.Context())
			}
			return writePostTable(cmd.OutOrStdout(), posts)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only posts of this category slug")
	return cmd
}

func writePostTable(w io.Writer, posts []content.BlogPost) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLISHED\tSLUG\tTITLE\tCATEGORIES")
	for _, p := range posts {
		date := "-"
		if p.PublishedAt != nil {
			date = p.PublishedAt.Format("2006-01-02")
		}
		cats := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			cats = append(cats, c.Slug)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", date, p.Slug, p.Title, strings.Join(cats, ","))
	}
	return tw.Flush()
}

func newPostsShowCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Display a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := openRepository(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			post, ok := repo.GetBySlug(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("post %q not found", args[0])
			}
			doc := postDocument(post)
			if raw {
				_, err := io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			return writePretty(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	return cmd
}

// postDocument is the post as a markdown document with a metadata header.
func postDocument(p content.BlogPost) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	meta := []string{markdown.EstimateReadingTime(p.Content)}
	if d := views.FormatDate(p.PublishedAt); d != "" {
		meta = append([]string{d}, meta...)
	}
	if p.Author != "" {
		meta = append(meta, p.Author)
	}
	fmt.Fprintf(&b, "> %s\n", strings.Join(meta, " · "))
	if len(p.Categories) > 0 {
		names := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, ">\n> **Catégories:** %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "\n---\n\n%s\n", strings.TrimSpace(p.Content))
	return b.String()
}

func writePretty(w io.Writer, doc string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
