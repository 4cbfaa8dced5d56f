// Command sitectl runs maintenance tasks against the site's content store.
//
// Usage:
//
//	sitectl hash-token <token>
//	sitectl publish-due
//	sitectl copy-store --from file --to postgres
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"recruitsite-backend-go/internal/config"
	"recruitsite-backend-go/internal/db"
	"recruitsite-backend-go/internal/services"
	"recruitsite-backend-go/internal/store"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Recruiting site maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(hashTokenCmd())
	root.AddCommand(publishDueCmd())
	root.AddCommand(copyStoreCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sitectl:", err)
		os.Exit(1)
	}
}

func hashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Print an argon2id hash usable as ADMIN_TOKEN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.HashToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func publishDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish-due",
		Short: "Publish blog posts whose date has arrived and dispatch due social posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			site, err := config.LoadSite(cfg.SiteConfigPath)
			if err != nil {
				log.Printf("warn: %v; using built-in site defaults", err)
			}
			s, closeStore, err := db.OpenStore(cmd.Context(), cfg.ContentStore, cfg.DataDir, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer closeStore()

			publisher := services.NewPublisher(services.NewContent(s, site, cfg.Location()))
			result, err := publisher.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published=%d socialPosts=%d posted=%d failed=%d\n",
				len(result.Published), len(result.SocialPosts), len(result.Posted), len(result.Failed))
			return nil
		},
	}
}

func copyStoreCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "copy-store",
		Short: "Copy every content document from one store to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == to {
				return errors.New("--from and --to must differ")
			}
			cfg := config.Load()
			src, closeSrc, err := db.OpenStore(cmd.Context(), from, cfg.DataDir, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open %s: %w", from, err)
			}
			defer closeSrc()
			dst, closeDst, err := db.OpenStore(cmd.Context(), to, cfg.DataDir, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open %s: %w", to, err)
			}
			defer closeDst()

			copied, err := copyDocuments(cmd.Context(), src, dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d document(s) from %s to %s\n", copied, from, to)
			return reportVersions(cmd.Context(), cmd.OutOrStdout(), dst)
		},
	}
	cmd.Flags().StringVar(&from, "from", db.StoreFile, "source store (file|postgres)")
	cmd.Flags().StringVar(&to, "to", db.StorePostgres, "destination store (file|postgres)")
	return cmd
}

// copyDocuments copies every existing document; documents missing from src are skipped.
func copyDocuments(ctx context.Context, src, dst store.Store) (int, error) {
	copied := 0
	for _, doc := range store.AllDocs {
		data, err := src.Read(ctx, doc)
		if errors.Is(err, store.ErrNotExist) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("read %s: %w", doc, err)
		}
		if err := dst.Write(ctx, doc, data); err != nil {
			return copied, fmt.Errorf("write %s: %w", doc, err)
		}
		copied++
	}
	return copied, nil
}

// versioned is implemented by stores that count writes per document.
type versioned interface {
	Version(ctx context.Context, doc store.DocType) (int64, error)
}

// reportVersions prints the write counter of every stored document when dst keeps one.
func reportVersions(ctx context.Context, w io.Writer, dst store.Store) error {
	v, ok := dst.(versioned)
	if !ok {
		return nil
	}
	for _, doc := range store.AllDocs {
		version, err := v.Version(ctx, doc)
		if err != nil {
			return fmt.Errorf("version %s: %w", doc, err)
		}
		if version > 0 {
			fmt.Fprintf(w, "  %s version %d\n", doc, version)
		}
	}
	return nil
}
