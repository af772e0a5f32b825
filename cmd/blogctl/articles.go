package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/infrastructure/queue"
	"github.com/quillpress/blog-client/internal/ui"
)

func (c *cli) articleCommands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "list",
			Short: "List all articles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.Articles.FetchAll(cmd.Context()); err != nil {
					return notified(err)
				}
				c.renderList()
				return nil
			},
		},
		{
			Use:   "show <id>",
			Short: "Show one article",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.app.Articles.Get(cmd.Context(), domain.ID(args[0]))
				if err != nil {
					return notified(err)
				}
				ui.RenderDetail(c.out, c.palette(), ui.NewCard(a), c.now())
				return nil
			},
		},
		{
			Use:   "search <query>",
			Short: "Search articles by title or content",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Search.Submit(cmd.Context(), strings.Join(args, " ")); err != nil {
					return notified(err)
				}
				c.renderList()
				return nil
			},
		},
		{
			Use:   "filter <categoryId>",
			Short: "List the articles of one category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Search.Filter(cmd.Context(), domain.ID(args[0])); err != nil {
					return notified(err)
				}
				c.renderList()
				return nil
			},
		},
		{
			Use:   "categories",
			Short: "List article categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cats, err := c.app.Categories.Categories(cmd.Context())
				if err != nil {
					return err
				}
				for _, cat := range cats {
					c.printf("%-4s %s\n", cat.ID, cat.Name)
				}
				return nil
			},
		},
		c.createCommand(),
		c.editCommand(),
		{
			Use:   "delete <id>",
			Short: "Delete one of your articles",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.app.Articles.Get(cmd.Context(), domain.ID(args[0]))
				if err != nil {
					return notified(err)
				}
				return notified(c.app.Actions.Delete(cmd.Context(), ui.NewCard(a)))
			},
		},
		c.toggleCommand("like", queue.IntentLike, "like articles"),
		c.toggleCommand("bookmark", queue.IntentBookmark, "bookmark articles"),
	}
}

type draftFlags struct {
	title, content, category, image string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "article title")
	cmd.Flags().StringVar(&f.content, "content", "", "article body")
	cmd.Flags().StringVar(&f.category, "category", "", "category ID")
	cmd.Flags().StringVar(&f.image, "image", "", "cover image URL")
}

// apply copies the flags the user set onto draft.
func (f *draftFlags) apply(cmd *cobra.Command, draft *domain.ArticleDraft) {
	if cmd.Flags().Changed("title") {
		draft.Title = strings.TrimSpace(f.title)
	}
	if cmd.Flags().Changed("content") {
		draft.Content = f.content
	}
	if cmd.Flags().Changed("category") {
		draft.CategoryID = domain.ID(strings.TrimSpace(f.category))
	}
	if cmd.Flags().Changed("image") {
		draft.Image = strings.TrimSpace(f.image)
	}
}

func (c *cli) createCommand() *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var draft domain.ArticleDraft
			flags.apply(cmd, &draft)
			if err := c.app.Forms.Validate(draft); err != nil {
				return err
			}
			a, err := c.app.Actions.Create(cmd.Context(), draft)
			if err != nil {
				return notified(err)
			}
			c.printf("#%s\n", a.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) editCommand() *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one of your articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			draft, err := c.app.Actions.Edit(cmd.Context(), id)
			if err != nil {
				return notified(err)
			}
			flags.apply(cmd, &draft)
			if err := c.app.Forms.Validate(draft); err != nil {
				return err
			}
			_, err = c.app.Actions.Save(cmd.Context(), id, draft)
			return notified(err)
		},
	}
	flags.register(cmd)
	return cmd
}

// toggleCommand runs like or bookmark intents for several articles through
// the dispatcher. Intents for one article apply in the order given.
func (c *cli) toggleCommand(name string, kind queue.IntentKind, action string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>...",
		Short: fmt.Sprintf("Toggle the %s on one or more articles", name),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.Session.RequireUser(action); err != nil {
				return &ui.Prompt{Message: err.Error()}
			}

			var (
				mu     sync.Mutex
				failed []error
			)
			d := c.app.NewDispatcher(cmd.Context(), func(r queue.Result) {
				if r.Err == nil {
					return
				}
				mu.Lock()
				failed = append(failed, r.Err)
				mu.Unlock()
			})
			for _, id := range args {
				d.Enqueue(queue.Intent{ArticleID: domain.ID(id), Kind: kind})
			}
			d.Wait()
			d.Close()

			return notified(errors.Join(failed...))
		},
	}
}

func (c *cli) renderList() {
	ui.RenderList(c.out, c.palette(), c.app.Articles.Snapshot().Articles, c.now())
}
