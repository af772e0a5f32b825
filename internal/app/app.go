// Package app builds the client's application context once at startup. Every
// store is owned here and handed to the presentation layer explicitly.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/core/service"
	"github.com/quillpress/blog-client/internal/infrastructure/db/memory"
	"github.com/quillpress/blog-client/internal/infrastructure/db/mongo"
	"github.com/quillpress/blog-client/internal/infrastructure/db/redis"
	"github.com/quillpress/blog-client/internal/infrastructure/db/sqlite"
	"github.com/quillpress/blog-client/internal/infrastructure/notify"
	"github.com/quillpress/blog-client/internal/infrastructure/queue"
	"github.com/quillpress/blog-client/internal/infrastructure/rest"
	"github.com/quillpress/blog-client/internal/pkg/config"
	"github.com/quillpress/blog-client/internal/ui"
)

// App is the application context.
type App struct {
	Config     *config.Config
	Articles   *service.ArticleStore
	Session    *service.SessionStore
	Theme      *service.ThemeStore
	Categories ports.CategorySource
	Actions    *ui.Actions
	Search     *ui.SearchBox
	Forms      *ui.Forms
	View       *ui.Theme

	log      zerolog.Logger
	notifier ports.Notifier
	closers []func(context.Context) error
}

// Options are the collaborators New does not build itself.
type Options struct {
	// Out receives user-facing notifications.
	Out io.Writer
	// Storage overrides the backend selected by the configuration.
	Storage ports.KeyValueStore
	Logger  zerolog.Logger
}

// New opens durable storage, restores the session and theme, and wires the
// stores to the REST API.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg, log: opts.Logger}

	storage := opts.Storage
	if storage == nil {
		var err error
		if storage, err = a.openStorage(ctx); err != nil {
			return nil, err
		}
	}

	a.Session = service.NewSessionStore(storage, a.log.With().Str("component", "session").Logger())
	if err := a.Session.Restore(ctx); err != nil {
		a.shutdown(ctx)
		return nil, err
	}

	theme, err := service.NewThemeStore(ctx, storage, cfg.PrefersDark, a.log.With().Str("component", "theme").Logger())
	if err != nil {
		a.shutdown(ctx)
		return nil, err
	}
	a.Theme = theme
	a.View = ui.NewTheme(theme)

	notifier := notify.Fanout{notify.NewLog(a.log.With().Str("component", "notify").Logger())}
	if opts.Out != nil {
		notifier = append(notifier, notify.NewConsole(opts.Out, a.View))
	}
	a.notifier = notifier

	transportOpts := []rest.Option{
		rest.WithTimeout(cfg.HTTPTimeout),
		rest.WithTokenSource(a.Session),
		rest.WithLogger(a.log.With().Str("component", "rest").Logger()),
	}
	articles, err := rest.NewArticleClient(endpoint(cfg.APIURL, "articles"), transportOpts...)
	if err != nil {
		a.shutdown(ctx)
		return nil, err
	}
	categories, err := rest.NewCategoryClient(endpoint(cfg.APIURL, "categories"), transportOpts...)
	if err != nil {
		a.shutdown(ctx)
		return nil, err
	}

	a.Articles = service.NewArticleStore(articles, notifier, a.log.With().Str("component", "articles").Logger())
	a.Categories = categories
	a.Actions = ui.NewActions(a.Articles, a.Session)
	a.Search = ui.NewSearchBox(a.Articles, cfg.SearchMinLength)
	a.Forms = ui.NewForms()
	return a, nil
}

// Close releases the storage backend.
func (a *App) Close(ctx context.Context) error {
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewDispatcher returns a started intent dispatcher whose workers run like and
// bookmark intents through the actions. The caller must Close it.
func (a *App) NewDispatcher(ctx context.Context, onResult func(queue.Result)) *queue.Dispatcher {
	d := queue.NewDispatcher(a.Config.Workers, a.applyIntent, onResult, a.log.With().Str("component", "dispatcher").Logger())
	d.Start(ctx)
	return d
}

func (a *App) applyIntent(ctx context.Context, in queue.Intent) (domain.Article, error) {
	article, ok := a.Articles.Snapshot().Find(in.ArticleID)
	if !ok {
		var err error
		if article, err = a.Articles.Get(ctx, in.ArticleID); err != nil {
			return domain.Article{}, err
		}
	}

	card := ui.NewCard(article)
	var (
		msg string
		err error
	)
	switch in.Kind {
	case queue.IntentLike:
		msg, err = a.Actions.Like(ctx, card)
	case queue.IntentBookmark:
		msg, err = a.Actions.Bookmark(ctx, card)
	default:
		err = fmt.Errorf("unknown intent %q", in.Kind)
	}
	if err == nil {
		a.notifier.Notify(ports.Success(msg))
	}
	return card.Article(), err
}

func (a *App) openStorage(ctx context.Context) (ports.KeyValueStore, error) {
	cfg := a.Config
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return memory.NewKV(), nil

	case config.StorageRedis:
		kv, err := redis.Open(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Prefix: cfg.Redis.Prefix})
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return kv.Close() })
		return kv, nil

	case config.StorageMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		return mongo.NewKV(db), nil

	default:
		kv, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return kv.Close() })
		return kv, nil
	}
}

// endpoint joins the API base URL and a collection name.
func endpoint(base, collection string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "/" + collection
	}
	return u.JoinPath(collection).String()
}
