// Command storefront drives the storefront from a terminal: browse listings,
// sign in as a seller or admin, moderate and place order requests.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/pricing"
	"storefront/internal/seller"
	"storefront/internal/session"
	"storefront/internal/storefront"

	"go.uber.org/zap"
)

const usage = `usage: storefront <command> [flags]

commands:
  list <kind> [-q term] [-status pending|approved|rejected] [-page n]
  shop <kind> [-q term] [-page n]
  login-seller -email e -password p
  login-admin -user u -password p
  logout
  whoami
  approve <kind> <id>
  reject <kind> <id>
  pending
  names <kind>
  profile [-first f] [-last l] [-email e] [-phone p]
  share <kind> <id>
  order -link url -name n -phone p -address a -pincode c [-qty n]
  contact -name n -email e -phone p -message m
  subscribe <email>
`

type app struct {
	sessions *session.Service
	ctrl     *storefront.Controller
	out      io.Writer
}

// newApp wires the client side. A nil kv keeps the session in memory.
func newApp(cfg *config.ClientConfig, kv cache.KV, httpClient *http.Client, out io.Writer) *app {
	var store session.Store = session.NewMemoryStore()
	if kv != nil {
		store = session.NewRedisStore(kv, "cli")
	}
	holder := session.NewHolder(store)

	opts := []client.Option{client.WithCredentials(holder)}
	if httpClient != nil {
		opts = append(opts, client.WithHTTPClient(httpClient))
	}
	api := client.New(cfg.APIURL, opts...)

	sessions := session.NewService(holder, api)
	orders := order.NewService(cfg.OrderEmail, order.LogMailer{}, nil)

	return &app{
		sessions: sessions,
		ctrl:     storefront.NewController(sessions, api, orders, cfg.PublicOrigin),
		out:      out,
	}
}

func main() {
	cfg := config.LoadClientConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var kv cache.KV
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logger.L().Warn("session will not persist", zap.Error(err))
		} else {
			defer rc.Close()
			kv = rc.GetClient()
		}
	}

	a := newApp(cfg, kv, nil, os.Stdout)
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, apperr.Message(err, "Something went wrong"))
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	if _, err := a.sessions.Holder().Restore(ctx); err != nil {
		logger.FromCtx(ctx).Warn("failed to restore session", zap.Error(err))
	}
	if err := a.sessions.VerifySession(ctx); err != nil {
		if client.IsAccountDeleted(err) {
			fmt.Fprintln(a.out, storefront.AccountDeletedNotice)
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return a.list(ctx, rest, a.ctrl.Catalog)
	case "shop":
		return a.list(ctx, rest, a.ctrl.Storefront)
	case "login-seller":
		return a.loginSeller(ctx, rest)
	case "login-admin":
		return a.loginAdmin(ctx, rest)
	case "logout":
		return a.sessions.Logout(ctx)
	case "whoami":
		s := a.ctrl.Session()
		fmt.Fprintln(a.out, s.RoleName())
		return nil
	case "approve", "reject":
		return a.moderate(ctx, cmd, rest)
	case "pending":
		return a.pending(ctx)
	case "names":
		return a.names(ctx, rest)
	case "profile":
		return a.profile(ctx, rest)
	case "share":
		kind, id, err := kindAndID(rest)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.ctrl.ShareLink(kind, id))
		return nil
	case "order":
		return a.order(ctx, rest)
	case "contact":
		return a.contact(ctx, rest)
	case "subscribe":
		if len(rest) == 0 {
			return apperr.Invalid("email", "Please enter your email address")
		}
		mail, err := a.ctrl.Subscribe(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, order.SubscribedMessage)
		fmt.Fprintln(a.out, mail.MailtoURL())
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type lister func(ctx context.Context, kind catalog.Kind, q storefront.Query) (catalog.Page, error)

func (a *app) list(ctx context.Context, args []string, fetch lister) error {
	if len(args) == 0 {
		return apperr.Invalid("kind", "kind is required")
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	term := fs.String("q", "", "search term")
	status := fs.String("status", "", "status tab")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args[1:]); err != nil {
		return apperr.Invalid("", err.Error())
	}

	q := storefront.Query{Term: *term, Page: *page}
	if *status != "" && *status != "all" {
		st, err := catalog.ParseStatus(*status)
		if err != nil {
			return err
		}
		q.Status = &st
	}

	p, err := fetch(ctx, kind, q)
	if err != nil {
		return err
	}

	if err := a.table(p.Items); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d (%d items)\n", p.Number, p.TotalPages, p.TotalCount)
	return nil
}

func (a *app) table(items []catalog.Item) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tSTATUS\tTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t₹%s\n",
			it.ID, it.Name, it.OwnerName(), it.Status(), pricing.Format(it.Breakdown().Total))
	}
	return tw.Flush()
}

// pending prints the admin's review queue, products then services.
func (a *app) pending(ctx context.Context) error {
	all, err := a.ctrl.ReviewQueue(ctx)
	if err != nil {
		return err
	}
	for _, group := range []struct {
		kind  catalog.Kind
		items []catalog.Item
	}{
		{catalog.KindProduct, all.Products},
		{catalog.KindService, all.Services},
	} {
		fmt.Fprintf(a.out, "%s (%d)\n", group.kind.Plural(), len(group.items))
		if len(group.items) == 0 {
			continue
		}
		if err := a.table(group.items); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) names(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperr.Invalid("kind", "kind is required")
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}

	names, err := a.ctrl.Names(ctx, kind)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("", err.Error())
	}

	var in seller.UpdateInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first":
			in.FirstName = first
		case "last":
			in.LastName = last
		case "email":
			in.Email = email
		case "phone":
			in.Phone = phone
		}
	})

	s, msg, err := a.ctrl.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	fmt.Fprintf(a.out, "%s %s <%s> %s\n", s.FirstName, s.LastName, s.Email, s.Phone)
	return nil
}

func (a *app) loginSeller(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login-seller", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "seller email")
	password := fs.String("password", "", "seller password")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("", err.Error())
	}

	s, err := a.sessions.LoginSeller(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s %s\n", s.FirstName, s.LastName)
	return nil
}

func (a *app) loginAdmin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "admin username")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("", err.Error())
	}

	if _, err := a.sessions.LoginAdmin(ctx, *user, *password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed in as admin")
	return nil
}

func (a *app) moderate(ctx context.Context, verb string, args []string) error {
	kind, id, err := kindAndID(args)
	if err != nil {
		return err
	}

	var it catalog.Item
	if verb == "approve" {
		it, err = a.ctrl.Approve(ctx, kind, id)
	} else {
		it, err = a.ctrl.Reject(ctx, kind, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", it.Name, it.Status())
	return nil
}

func (a *app) order(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	link := fs.String("link", "", "share link of the listing")
	var f order.Form
	fs.StringVar(&f.Name, "name", "", "buyer name")
	fs.StringVar(&f.Phone, "phone", "", "buyer phone")
	fs.StringVar(&f.Address, "address", "", "delivery address")
	fs.StringVar(&f.Pincode, "pincode", "", "delivery pincode")
	fs.IntVar(&f.Quantity, "qty", 0, "quantity")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("", err.Error())
	}

	it, err := a.ctrl.ResolveShareLink(ctx, *link)
	if err != nil {
		return err
	}

	mail, err := a.ctrl.SubmitOrder(ctx, it, f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, order.SentMessage)
	fmt.Fprintln(a.out, mail.MailtoURL())
	return nil
}

func (a *app) contact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var f order.ContactForm
	fs.StringVar(&f.Name, "name", "", "your name")
	fs.StringVar(&f.Email, "email", "", "your Gmail address")
	fs.StringVar(&f.Phone, "phone", "", "your phone")
	fs.StringVar(&f.Message, "message", "", "message")
	if err := fs.Parse(args); err != nil {
		return apperr.Invalid("", err.Error())
	}

	mail, err := a.ctrl.Contact(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, order.ContactSentMessage)
	fmt.Fprintln(a.out, mail.MailtoURL())
	return nil
}

func kindAndID(args []string) (catalog.Kind, string, error) {
	if len(args) < 2 {
		return "", "", apperr.Invalid("", "kind and id are required")
	}
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return "", "", err
	}
	return kind, args[1], nil
}
