// agentctl is an operator harness for the tripdesk client core: it logs
// in, restores sessions, lists resources and drives the notification feed
// against a live backend.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/audit"
	"tripdesk.io/internal/console"
	"tripdesk.io/internal/gateway"
	"tripdesk.io/internal/ids"
	"tripdesk.io/internal/notify"
	"tripdesk.io/internal/obs"
	"tripdesk.io/internal/session"
)

var version = "0.3.1"

func main() {
	// .env is optional; real config comes from the environment.
	_ = godotenv.Load()

	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("TRIPDESK_COMMIT"))

	baseURL := os.Getenv("TRIPDESK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:4000/api"
	}
	if addr := os.Getenv("TRIPDESK_METRICS_ADDR"); addr != "" {
		go func() {
			if err := http.ListenAndServe(addr, obs.Handler()); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	storagePath, err := session.DefaultStoragePath()
	if err != nil {
		log.Fatalf("resolve storage path: %v", err)
	}
	storage := session.NewFileStorage(storagePath)

	// The session store and gateway reference each other: the gateway
	// reads the token from the store, and a 401 invalidates the store.
	var store *session.Store
	client := gateway.New(baseURL,
		gateway.WithTokenSource(func() string { return store.Token() }),
		gateway.WithUnauthorizedHook(func() { store.Invalidate() }),
	)
	store = session.New(storage, client, session.OnInvalidate(func() {
		fmt.Fprintln(os.Stderr, "session invalidated by the backend; run login again")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = audit.WithRequestID(ctx, ids.New())

	store.Restore(ctx)
	if identity, ok := store.Identity(); ok {
		ctx = audit.WithActor(ctx, identity.ID)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "login":
		runLogin(ctx, store, client)
	case "whoami":
		runWhoami(store)
	case "approval":
		runApproval(ctx, store, client)
	case "logout":
		store.Logout()
		fmt.Println("logged out")
	case "customers":
		runList(ctx, store, client.ListCustomers, func(c agency.Customer) string {
			return fmt.Sprintf("%s\t%s\t%s", c.ID, c.FullName(), c.Email)
		})
	case "bookings":
		runList(ctx, store, client.ListBookings, func(b agency.Booking) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s", b.ID, b.TripDetails.Destination, b.TripDetails.TravelDate, b.Status)
		})
	case "leads":
		runList(ctx, store, client.ListLeads, func(l agency.Lead) string {
			return fmt.Sprintf("%s\t%s %s\t%s", l.ID, l.FirstName, l.LastName, l.Status)
		})
	case "commissions":
		runCommissions(ctx, store, client)
	case "unread":
		runUnread(ctx, store, client)
	case "mark-read":
		requireSession(store)
		if err := client.MarkAllNotificationsRead(ctx); err != nil {
			log.Fatalf("mark all read: %v", err)
		}
		fmt.Println("all notifications marked read")
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: agentctl <login|whoami|approval|logout|customers|bookings|leads|commissions|unread|mark-read> [args]")
	fmt.Fprintln(os.Stderr, "  login <email> <password>")
	fmt.Fprintln(os.Stderr, "  customers|bookings|leads [search]")
}

func runLogin(ctx context.Context, store *session.Store, client *gateway.Client) {
	if len(os.Args) < 4 {
		usage()
		os.Exit(2)
	}
	result, err := client.Login(ctx, os.Args[2], os.Args[3])
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	if err := store.Login(ctx, result.Token, result.Agent); err != nil {
		log.Fatalf("adopt session: %v", err)
	}
	if !result.Agent.IsActive {
		fmt.Printf("logged in as %s; account is pending approval\n", result.Agent.Email)
		return
	}
	fmt.Printf("logged in as %s (%s)\n", result.Agent.Email, result.Agent.Role)
}

func runWhoami(store *session.Store) {
	identity, ok := store.Identity()
	if !ok {
		fmt.Println("not logged in")
		return
	}
	state := "active"
	if !identity.IsActive {
		state = "pending approval"
	}
	fmt.Printf("%s <%s> role=%s (%s)\n", identity.FullName(), identity.Email, identity.Role, state)
}

func runApproval(ctx context.Context, store *session.Store, client *gateway.Client) {
	if !store.Authenticated() {
		log.Fatal("not logged in; run agentctl login first")
	}
	status, err := store.RefreshApproval(ctx, client)
	if err != nil {
		log.Fatalf("refresh approval: %v", err)
	}
	fmt.Printf("approval status: %s\n", status)
	if store.Authorized() {
		fmt.Println("account is active")
	}
}

func requireSession(store *session.Store) {
	if !store.Authenticated() {
		log.Fatal("not logged in; run agentctl login first")
	}
	if !store.Authorized() {
		log.Fatal("account is pending approval; the main application is not available yet")
	}
}

func runList[T any](ctx context.Context, store *session.Store, fetch console.Fetcher[T], line func(T) string) {
	requireSession(store)

	ctrl := console.NewController(fetch, console.WithDebounceWindow(0))
	defer ctrl.Close()
	if len(os.Args) > 2 {
		ctrl.SetSearch(ctx, os.Args[2])
	}
	if err := ctrl.Load(ctx); err != nil {
		log.Fatalf("load: %v", err)
	}
	for _, item := range ctrl.Items() {
		fmt.Println(line(item))
	}
}

func runCommissions(ctx context.Context, store *session.Store, client *gateway.Client) {
	requireSession(store)

	commissions, err := console.LoadCommissions(ctx, client, gateway.Query{})
	if err != nil {
		log.Fatalf("load commissions: %v", err)
	}
	for _, cm := range commissions {
		mark := ""
		if cm.Derived {
			mark = "\t(estimated)"
		}
		fmt.Printf("%s\t%.2f%s\n", cm.ID, cm.Amount, mark)
	}
}

func runUnread(ctx context.Context, store *session.Store, client *gateway.Client) {
	requireSession(store)

	count, err := client.UnreadCount(ctx)
	if err != nil {
		log.Fatalf("unread count: %v", err)
	}
	fmt.Printf("unread notifications: %d\n", count)

	poller := notify.NewPoller(client, notify.WithActiveCheck(store.Authenticated))
	defer poller.Stop()
	if err := poller.RefreshFeed(ctx, gateway.Query{Limit: 10}); err != nil {
		log.Fatalf("refresh feed: %v", err)
	}
	for _, n := range poller.Items() {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s\t%s\n", marker, n.ID, n.Title)
	}
}
