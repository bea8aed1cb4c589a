package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/mkhiriev/go-lastpass/internal/adapter"
	"github.com/mkhiriev/go-lastpass/internal/config"
	"github.com/mkhiriev/go-lastpass/internal/logger"
	"github.com/mkhiriev/go-lastpass/internal/service"
	"github.com/mkhiriev/go-lastpass/internal/store"
	"github.com/mkhiriev/go-lastpass/internal/workers"
	"github.com/mkhiriev/go-lastpass/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// CLI-only flags. Registered before config.GetClientConfig triggers
// flag.Parse, so they share the global flag set with the config flags.
var (
	flagOffline     = flag.Bool("offline", false, "Decode the cached snapshot instead of contacting the server")
	flagShow        = flag.String("show", "", "Print the full entry (including the password) for the given account name or id")
	flagCopy        = flag.String("copy", "", "Copy the password of the given account name or id to the clipboard")
	flagAttachments = flag.String("attachments", "", "Download all attachments of the given account name or id")
	flagOut         = flag.String("out", ".", "Directory for downloaded attachments")
	flagWatch       = flag.Bool("watch", false, "Keep running and log when the vault changes on the server")
)

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("go-lastpass")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer db.Close()
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate local storage")
	}
	snapshots := store.NewSnapshotRepository(db, log)

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		Host:    cfg.App.Host,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	session := service.NewSessionService(cfg.App, serverAdapter, snapshots, log)

	password, err := readPassword(cfg.App.Username)
	if err != nil {
		log.Fatal().Err(err).Msg("read master password")
	}

	vault, err := openVault(ctx, session, password, *flagOffline, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open vault")
	}
	defer func() {
		if err := session.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("logout failed")
		}
	}()

	switch {
	case *flagShow != "":
		account := mustFindAccount(vault, *flagShow, log)
		printAccount(account)
	case *flagCopy != "":
		account := mustFindAccount(vault, *flagCopy, log)
		if err = clipboard.WriteAll(account.Password); err != nil {
			log.Fatal().Err(err).Msg("copy password to clipboard")
		}
		fmt.Printf("Password for %q copied to the clipboard.\n", account.Name)
	case *flagAttachments != "":
		account := mustFindAccount(vault, *flagAttachments, log)
		if err = downloadAttachments(ctx, session, account, *flagOut); err != nil {
			log.Fatal().Err(err).Msg("download attachments")
		}
	default:
		printVault(vault)
	}

	if *flagWatch && !vault.Local {
		poller := workers.NewVersionPoller(session, cfg.Workers, func(previous, current uint64) {
			fmt.Printf("Vault changed on the server: version %d -> %d.\n", previous, current)
			// The cached snapshot is stale now; drop it so the next offline
			// open does not serve old entries.
			if err := snapshots.DeleteSnapshot(ctx, cfg.App.Username); err != nil {
				log.Warn().Err(err).Msg("drop stale snapshot")
			}
		}, log)
		workers.NewWorkers(poller).Run(ctx)

		fmt.Println("Watching for vault changes, press Ctrl+C to stop.")
		<-ctx.Done()
	}
}

// openVault logs in and fetches the vault, falling back to the local
// snapshot cache when the server cannot be reached. -offline skips the
// network entirely.
func openVault(ctx context.Context, session service.SessionService, password string, offline bool, log *logger.Logger) (*models.Vault, error) {
	if offline {
		return session.OfflineVault(ctx, password)
	}

	if err := session.Open(ctx, password); err != nil {
		var loginErr *adapter.LoginError
		var twoFactorErr *adapter.TwoFactorError
		if errors.As(err, &loginErr) || errors.As(err, &twoFactorErr) {
			// Wrong credentials decode the cache just as badly, so there is
			// no point falling back.
			return nil, err
		}

		log.Warn().Err(err).Msg("server unreachable, trying the cached snapshot")
		v, cacheErr := session.OfflineVault(ctx, password)
		if cacheErr != nil {
			return nil, fmt.Errorf("login failed (%v) and no usable cache: %w", err, cacheErr)
		}
		fmt.Println("Server unreachable, showing the cached vault.")
		return v, nil
	}

	return session.Vault(ctx)
}

func readPassword(username string) (string, error) {
	if password := os.Getenv("LASTPASS_PASSWORD"); password != "" {
		return password, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal, set LASTPASS_PASSWORD")
	}

	fmt.Fprintf(os.Stderr, "Master password for %s: ", username)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// findAccount matches by exact ID first, then by case-insensitive name.
func findAccount(v *models.Vault, nameOrID string) *models.Account {
	if account := v.AccountByID(models.ID(nameOrID)); account != nil {
		return account
	}
	for i := range v.Accounts {
		if strings.EqualFold(v.Accounts[i].Name, nameOrID) {
			return &v.Accounts[i]
		}
	}
	return nil
}

func mustFindAccount(v *models.Vault, nameOrID string, log *logger.Logger) *models.Account {
	account := findAccount(v, nameOrID)
	if account == nil {
		log.Fatal().Str("query", nameOrID).Msg("no such account")
	}
	return account
}

// printVault prints the accounts grouped by folder, passwords masked.
func printVault(v *models.Vault) {
	if v.Local {
		fmt.Println("(cached snapshot)")
	}
	fmt.Printf("Vault version %d, %d entries\n\n", v.Version, len(v.Accounts))

	byGroup := map[string][]*models.Account{}
	for i := range v.Accounts {
		byGroup[v.Accounts[i].Group] = append(byGroup[v.Accounts[i].Group], &v.Accounts[i])
	}

	groups := make([]string, 0, len(byGroup))
	for group := range byGroup {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for _, group := range groups {
		name := group
		if name == "" {
			name = "(none)"
		}
		fmt.Printf("%s\n", name)
		for _, account := range byGroup[group] {
			marker := " "
			if account.Favourite {
				marker = "*"
			}
			fmt.Printf("  %s [%s] %s", marker, account.ID, account.Name)
			if account.Username != "" {
				fmt.Printf("  <%s>", account.Username)
			}
			if account.AttachmentPresent {
				fmt.Printf("  (%d attachments)", len(account.Attachments))
			}
			fmt.Println()
		}
		fmt.Println()
	}
}

func printAccount(account *models.Account) {
	fmt.Printf("Name:     %s\n", account.Name)
	fmt.Printf("ID:       %s\n", account.ID)
	if account.Group != "" {
		fmt.Printf("Group:    %s\n", account.Group)
	}
	fmt.Printf("URL:      %s\n", account.URL)
	fmt.Printf("Username: %s\n", account.Username)
	fmt.Printf("Password: %s\n", account.Password)
	if account.Note != "" {
		fmt.Printf("Note:\n%s\n", account.Note)
	}
	for _, field := range account.Fields {
		fmt.Printf("Field %s (%s): %s\n", field.Name, field.Type, field.Value)
	}
	for _, attachment := range account.Attachments {
		fmt.Printf("Attachment %s: %s, %d bytes\n", attachment.ID, attachment.MimeType, attachment.Size)
	}
}

func downloadAttachments(ctx context.Context, session service.SessionService, account *models.Account, outDir string) error {
	if len(account.Attachments) == 0 {
		fmt.Printf("No attachments on %q.\n", account.Name)
		return nil
	}
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, attachment := range account.Attachments {
		filename, content, err := session.AttachmentContent(ctx, account, attachment)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", attachment.ID, err)
		}

		// filepath.Base guards against filenames with path separators.
		target := filepath.Join(outDir, filepath.Base(filename))
		if err = os.WriteFile(target, content, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		fmt.Printf("Saved %s (%d bytes).\n", target, len(content))
	}
	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
