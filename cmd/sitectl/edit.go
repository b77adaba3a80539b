package main

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitecms/internal/editor"
	"sitecms/internal/model"
	"sitecms/internal/sitesync"
	"sitecms/internal/state"
)

// sourcedLoader remembers which step of the fallback chain served the last Load.
type sourcedLoader struct {
	client *sitesync.Client
	source sitesync.Source
}

func (l *sourcedLoader) Load(ctx context.Context) model.SiteContent {
	doc, src := l.client.LoadWithSource(ctx)
	l.source = src
	return doc
}

// openSession fills a fresh store through client and starts an editor session on it.
func openSession(ctx context.Context, client *sitesync.Client, logger *zap.Logger) (*editor.Session, sitesync.Source) {
	store := state.NewStore()
	loader := &sourcedLoader{client: client}
	store.Refresh(ctx, loader)
	return editor.NewSession(store, client, editor.WithLogger(logger)), loader.source
}

func saveSession(cmd *cobra.Command, sess *editor.Session, opts *rootOptions) error {
	if !sess.Dirty() {
		cmd.Println("no changes")
		return nil
	}
	if err := sess.Save(withToken(cmd.Context(), opts)); err != nil {
		return err
	}
	cmd.Println("saved")
	return nil
}

// runEdit applies fn to the live document and saves it. A cached or default copy is
// never edited and saved back.
func runEdit(cmd *cobra.Command, opts *rootOptions, fn func(*editor.Session) error) error {
	client, logger, release, err := newClient(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer release()

	sess, src := openSession(cmd.Context(), client, logger)
	if src != sitesync.SourceNetwork {
		return errorf("endpoint did not serve the document (got the %s copy); nothing saved", src)
	}
	if err := fn(sess); err != nil {
		return err
	}
	return saveSession(cmd, sess, opts)
}

func newSetHeroCmd(opts *rootOptions) *cobra.Command {
	var headline, subheadline string
	var projects, startups int
	cmd := &cobra.Command{
		Use:   "set-hero",
		Short: "Change hero fields; only the flags given are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if !f.Changed("headline") && !f.Changed("subheadline") &&
				!f.Changed("projects-completed") && !f.Changed("startups-raised") {
				return errorf("nothing to set")
			}
			return runEdit(cmd, opts, func(sess *editor.Session) error {
				h := sess.Document().Hero
				if f.Changed("headline") {
					h.Headline = headline
				}
				if f.Changed("subheadline") {
					h.Subheadline = subheadline
				}
				if f.Changed("projects-completed") {
					h.ProjectsCompleted = projects
				}
				if f.Changed("startups-raised") {
					h.StartupsRaised = startups
				}
				sess.UpdateHero(h)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&headline, "headline", "", "hero headline")
	cmd.Flags().StringVar(&subheadline, "subheadline", "", "hero subheadline")
	cmd.Flags().IntVar(&projects, "projects-completed", 0, "projects completed stat")
	cmd.Flags().IntVar(&startups, "startups-raised", 0, "startups raised stat")
	return cmd
}

func newSetCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-categories <label>...",
		Short: "Replace the project categories; blanks and repeats are dropped",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, func(sess *editor.Session) error {
				sess.SetCategories(args)
				return nil
			})
		},
	}
}

var removers = map[string]func(*editor.Session, string) error{
	"experience":  (*editor.Session).RemoveExperience,
	"service":     (*editor.Session).RemoveService,
	"project":     (*editor.Session).RemoveProject,
	"blog":        (*editor.Session).RemoveBlog,
	"testimonial": (*editor.Session).RemoveTestimonial,
	"niche":       (*editor.Session).RemoveNiche,
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <section> <id>",
		Short: "Remove a list item (" + strings.Join(sortedKeys(removers), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remove, ok := removers[args[0]]
			if !ok {
				return errorf("unknown section %q", args[0])
			}
			return runEdit(cmd, opts, func(sess *editor.Session) error {
				if err := remove(sess, args[1]); err != nil {
					return errorf("remove %s %s: %w", args[0], args[1], err)
				}
				return nil
			})
		},
	}
}

var imageTargets = map[string]editor.ImageTarget{
	"hero":            editor.HeroImage,
	"about-main":      editor.AboutMainImage,
	"about-secondary": editor.AboutSecondaryImage,
	"project":         editor.ProjectImage,
	"blog":            editor.BlogImage,
	"testimonial":     editor.TestimonialAvatar,
}

func newSetImageCmd(opts *rootOptions) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "set-image <target> <file>",
		Short: "Embed an image file as a data URI (" + strings.Join(sortedKeys(imageTargets), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := imageTargets[args[0]]
			if !ok {
				return errorf("unknown image target %q", args[0])
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return errorf("read %s: %w", args[1], err)
			}
			return runEdit(cmd, opts, func(sess *editor.Session) error {
				if err := sess.SetImage(target, id, "", data); err != nil {
					return errorf("set %s image: %w", args[0], err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "list item id for project, blog and testimonial targets")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
